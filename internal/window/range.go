package window

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether index lies in [Start, End).
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// ComputeRange returns the visible range for scroll offset over n items.
//
// start is offset/ItemHeight, capped so that the last window still holds a full
// VisibleCount items; end is start+VisibleCount capped at n. The result always
// satisfies 0 <= Start <= End <= n and Start is non-decreasing in offset.
func ComputeRange(offset, n int, cfg Config) Range {
	if n <= 0 || cfg.ItemHeight <= 0 {
		return Range{}
	}
	if offset < 0 {
		offset = 0
	}

	visible := cfg.VisibleCount()
	start := offset / cfg.ItemHeight
	maxStart := n - visible
	if maxStart < 0 {
		maxStart = 0
	}
	if start > maxStart {
		start = maxStart
	}

	end := start + visible
	if end > n {
		end = n
	}
	return Range{Start: start, End: end}
}
