package window

// Handle owns the active Renderer for a page of items, if any.
// Callers that need to trigger a refresh hold the Handle instead of reaching for
// shared state; a zero or nil Handle has no instance.
type Handle struct {
	renderer *Renderer
}

// Activate builds a Renderer for items and wraps it in a Handle. The Handle is
// returned even when windowing did not activate.
func Activate(items []Element, cfg Config) *Handle {
	return &Handle{renderer: New(items, cfg)}
}

// Instance returns the active Renderer, or nil when windowing is off.
func (h *Handle) Instance() *Renderer {
	if h == nil {
		return nil
	}
	return h.renderer
}

// Active reports whether windowing is on.
func (h *Handle) Active() bool {
	return h.Instance() != nil
}

// Refresh re-applies visibility on the active Renderer; it is a no-op when none is active.
func (h *Handle) Refresh() {
	h.Instance().Refresh()
}
