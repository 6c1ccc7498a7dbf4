package window

// Element is a visual item managed by a Renderer.
// Implementations hide or show themselves; they are never destroyed by the renderer.
type Element interface {
	// SetVisible shows or suppresses the element.
	SetVisible(visible bool)

	// SetTop places the element at an absolute offset within the content area.
	SetTop(top int)
}

// Renderer keeps only the items near the viewport visible.
// It is driven from a single event loop and is not safe for concurrent use.
type Renderer struct {
	// cfg holds the windowing parameters
	cfg Config

	// items is the full sequence; its length never changes
	items []Element

	// offset is the last scroll offset seen, in viewport units
	offset int

	// current is the range applied by the last visibility pass
	current Range

	// applied is false until the first visibility pass
	applied bool
}

// New activates windowing over items.
//
// It returns nil when items is empty, when len(items) <= cfg.Threshold, or when cfg is
// invalid. A nil Renderer is usable: all of its methods are no-ops, and items keep
// whatever visibility they already had.
//
// On activation every item is positioned at index*ItemHeight and the range for
// offset 0 is applied.
func New(items []Element, cfg Config) *Renderer {
	if cfg.Validate() != nil || !cfg.Activates(len(items)) {
		return nil
	}

	owned := make([]Element, len(items))
	copy(owned, items)

	r := &Renderer{cfg: cfg, items: owned}
	for i, el := range r.items {
		if el != nil {
			el.SetTop(i * cfg.ItemHeight)
		}
	}
	r.apply(true)
	return r
}

// OnScroll records a new scroll offset and updates item visibility.
// Negative offsets are treated as zero. If the computed range is unchanged no
// element is touched.
func (r *Renderer) OnScroll(offset int) {
	if r == nil {
		return
	}
	if offset < 0 {
		offset = 0
	}
	r.offset = offset
	r.apply(false)
}

// Refresh re-evaluates the range for the stored offset and re-applies visibility
// to every element, whether or not the range changed.
func (r *Renderer) Refresh() {
	if r == nil {
		return
	}
	r.apply(true)
}

// Resize changes the viewport height and refreshes. Non-positive heights are ignored.
func (r *Renderer) Resize(viewportHeight int) {
	if r == nil || viewportHeight <= 0 {
		return
	}
	r.cfg.ViewportHeight = viewportHeight
	r.apply(true)
}

// Range returns the currently applied visible range.
func (r *Renderer) Range() Range {
	if r == nil {
		return Range{}
	}
	return r.current
}

// Offset returns the last recorded scroll offset.
func (r *Renderer) Offset() int {
	if r == nil {
		return 0
	}
	return r.offset
}

// Len returns the number of items in the sequence.
func (r *Renderer) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Config returns the active windowing parameters.
func (r *Renderer) Config() Config {
	if r == nil {
		return Config{}
	}
	return r.cfg
}

// VisibleCount returns the window size in items, bounded by Len.
func (r *Renderer) VisibleCount() int {
	if r == nil {
		return 0
	}
	return min(r.cfg.VisibleCount(), len(r.items))
}

// ContentHeight returns Len*ItemHeight, the full scrollable extent.
func (r *Renderer) ContentHeight() int {
	if r == nil {
		return 0
	}
	return len(r.items) * r.cfg.ItemHeight
}

// MaxOffset returns the largest offset a viewport can scroll to.
func (r *Renderer) MaxOffset() int {
	if r == nil {
		return 0
	}
	return max(r.ContentHeight()-r.cfg.ViewportHeight, 0)
}

// Top returns the absolute offset of the item at index, clamped to the sequence.
func (r *Renderer) Top(index int) int {
	if r == nil || len(r.items) == 0 || index <= 0 {
		return 0
	}
	if index >= len(r.items) {
		index = len(r.items) - 1
	}
	return index * r.cfg.ItemHeight
}

// IndexForOffset returns the item under the given offset, clamped to the sequence.
func (r *Renderer) IndexForOffset(offset int) int {
	if r == nil || len(r.items) == 0 || offset <= 0 {
		return 0
	}
	return min(offset/r.cfg.ItemHeight, len(r.items)-1)
}

func (r *Renderer) apply(force bool) {
	next := ComputeRange(r.offset, len(r.items), r.cfg)
	if !force && r.applied && next == r.current {
		return
	}
	for i, el := range r.items {
		if el != nil {
			el.SetVisible(next.Contains(i))
		}
	}
	r.current = next
	r.applied = true
}
