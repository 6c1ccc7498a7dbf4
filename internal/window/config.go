package window

import (
	"errors"
	"fmt"
)

// Default windowing parameters. ItemHeight and Buffer are estimates rather than
// measurements; override them through Config when real item sizes are known.
const (
	// DefaultItemHeight is the fixed height of every item, in viewport units.
	DefaultItemHeight = 80

	// DefaultViewportHeight is the height of the scrollable viewport.
	DefaultViewportHeight = 600

	// DefaultBuffer is the number of extra items kept visible past the strict window.
	DefaultBuffer = 2

	// DefaultThreshold is the item count at or below which windowing stays off.
	DefaultThreshold = 20
)

// Configuration errors.
var (
	ErrInvalidItemHeight     = errors.New("item height must be positive")
	ErrInvalidViewportHeight = errors.New("viewport height must be positive")
	ErrInvalidBuffer         = errors.New("buffer must not be negative")
	ErrInvalidThreshold      = errors.New("threshold must not be negative")
)

// Config holds the windowing parameters.
type Config struct {
	// ItemHeight is the fixed height H shared by all items.
	ItemHeight int

	// ViewportHeight is the viewport height V.
	ViewportHeight int

	// Buffer is the overscan item count added after the strict window.
	Buffer int

	// Threshold is the minimum item count T; windowing activates only when N > T.
	Threshold int
}

// DefaultConfig returns the default windowing parameters.
func DefaultConfig() Config {
	return Config{
		ItemHeight:     DefaultItemHeight,
		ViewportHeight: DefaultViewportHeight,
		Buffer:         DefaultBuffer,
		Threshold:      DefaultThreshold,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.ItemHeight <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidItemHeight, c.ItemHeight)
	case c.ViewportHeight <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidViewportHeight, c.ViewportHeight)
	case c.Buffer < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidBuffer, c.Buffer)
	case c.Threshold < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, c.Threshold)
	}
	return nil
}

// VisibleCount returns ceil(ViewportHeight/ItemHeight) + Buffer.
func (c Config) VisibleCount() int {
	if c.ItemHeight <= 0 || c.ViewportHeight <= 0 {
		return 0
	}
	return (c.ViewportHeight+c.ItemHeight-1)/c.ItemHeight + max(c.Buffer, 0)
}

// Activates reports whether a sequence of n items is long enough for windowing.
func (c Config) Activates(n int) bool {
	return n > 0 && n > c.Threshold
}
