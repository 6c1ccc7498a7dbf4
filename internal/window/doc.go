// Package window provides windowed rendering for long sequences of fixed-height items.
//
// A Renderer takes ownership of a slice of Elements placed in a scrollable viewport
// and keeps only the contiguous range near the current scroll offset visible. Key features:
//   - Constant-time range math: start = offset / itemHeight, end = start + ceil(viewport/itemHeight) + buffer
//   - Activation threshold: short sequences are left untouched and render normally
//   - Elements are hidden, never destroyed, so toggled state survives scrolling
//   - Nil-safe: every method on a nil *Renderer is a no-op
//
// The package has no terminal dependency; the tui package adapts its entries to the
// Element interface and drives OnScroll from key and mouse events.
package window
