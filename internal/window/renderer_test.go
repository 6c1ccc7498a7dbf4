package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	visible    bool
	top        int
	positioned bool
	visCalls   int
}

func (f *fakeElement) SetVisible(visible bool) {
	f.visible = visible
	f.visCalls++
}

func (f *fakeElement) SetTop(top int) {
	f.top = top
	f.positioned = true
}

func newElements(n int) ([]Element, []*fakeElement) {
	elems := make([]Element, n)
	fakes := make([]*fakeElement, n)
	for i := range n {
		fakes[i] = &fakeElement{visible: true}
		elems[i] = fakes[i]
	}
	return elems, fakes
}

func visibleIndices(fakes []*fakeElement) []int {
	var out []int
	for i, f := range fakes {
		if f.visible {
			out = append(out, i)
		}
	}
	return out
}

func indexRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func TestNew_BelowThresholdDoesNotActivate(t *testing.T) {
	for _, n := range []int{0, 1, 10, DefaultThreshold} {
		elems, fakes := newElements(n)
		r := New(elems, DefaultConfig())
		assert.Nil(t, r, "n=%d", n)

		for i, f := range fakes {
			assert.True(t, f.visible, "item %d should stay visible", i)
			assert.False(t, f.positioned, "item %d should not be positioned", i)
		}
	}
}

func TestNew_InvalidConfigDoesNotActivate(t *testing.T) {
	elems, _ := newElements(30)
	cfg := DefaultConfig()
	cfg.ItemHeight = 0
	assert.Nil(t, New(elems, cfg))
}

func TestNew_ActivatesAndPositions(t *testing.T) {
	elems, fakes := newElements(25)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	assert.Equal(t, 25, r.Len())
	assert.Equal(t, 25*DefaultItemHeight, r.ContentHeight())
	assert.Equal(t, 10, r.VisibleCount())
	for i, f := range fakes {
		assert.True(t, f.positioned)
		assert.Equal(t, i*DefaultItemHeight, f.top)
	}
	assert.Equal(t, Range{Start: 0, End: 10}, r.Range())
	assert.Equal(t, indexRange(0, 10), visibleIndices(fakes))
}

func TestOnScroll_Scenario(t *testing.T) {
	elems, fakes := newElements(25)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	r.OnScroll(400)
	assert.Equal(t, Range{Start: 5, End: 15}, r.Range())
	assert.Equal(t, indexRange(5, 15), visibleIndices(fakes))

	r.OnScroll(0)
	assert.Equal(t, Range{Start: 0, End: 10}, r.Range())
	assert.Equal(t, indexRange(0, 10), visibleIndices(fakes))
}

func TestOnScroll_HugeOffsetClampsToEnd(t *testing.T) {
	elems, fakes := newElements(25)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	r.OnScroll(1 << 40)
	assert.Equal(t, Range{Start: 15, End: 25}, r.Range())
	assert.Equal(t, indexRange(15, 25), visibleIndices(fakes))

	r.OnScroll(r.ContentHeight())
	assert.Equal(t, 25, r.Range().End)
}

func TestOnScroll_NegativeOffset(t *testing.T) {
	elems, _ := newElements(25)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	r.OnScroll(-100)
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, Range{Start: 0, End: 10}, r.Range())
}

func TestOnScroll_Idempotent(t *testing.T) {
	elems, fakes := newElements(50)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	r.OnScroll(1000)
	first := visibleIndices(fakes)
	calls := fakes[0].visCalls

	r.OnScroll(1000)
	assert.Equal(t, first, visibleIndices(fakes))
	assert.Equal(t, calls, fakes[0].visCalls, "unchanged range should skip the pass")

	// Same range, different offset within the same item.
	r.OnScroll(1010)
	assert.Equal(t, first, visibleIndices(fakes))
}

func TestRefresh_ForcesPass(t *testing.T) {
	elems, fakes := newElements(30)
	h := Activate(elems, DefaultConfig())
	require.True(t, h.Active())

	h.Instance().OnScroll(800)
	fakes[12].visible = false // external tampering
	calls := fakes[0].visCalls

	h.Refresh()
	assert.True(t, fakes[12].visible)
	assert.Equal(t, calls+1, fakes[0].visCalls)
	assert.Equal(t, 800, h.Instance().Offset())
}

func TestResize(t *testing.T) {
	elems, fakes := newElements(100)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	r.Resize(160)
	assert.Equal(t, 4, r.VisibleCount())
	assert.Equal(t, indexRange(0, 4), visibleIndices(fakes))

	r.Resize(0)
	assert.Equal(t, 160, r.Config().ViewportHeight)
}

func TestVisibleCountBoundedByLen(t *testing.T) {
	cfg := Config{ItemHeight: 10, ViewportHeight: 1000, Buffer: 2, Threshold: 3}
	elems, fakes := newElements(5)
	r := New(elems, cfg)
	require.NotNil(t, r)

	assert.Equal(t, 5, r.VisibleCount())
	assert.Equal(t, indexRange(0, 5), visibleIndices(fakes))
	assert.Equal(t, 0, r.MaxOffset())
}

func TestNilRendererIsNoOp(t *testing.T) {
	var r *Renderer
	assert.NotPanics(t, func() {
		r.OnScroll(100)
		r.Refresh()
		r.Resize(10)
	})
	assert.Equal(t, Range{}, r.Range())
	assert.Zero(t, r.Len())
	assert.Zero(t, r.ContentHeight())

	var h *Handle
	assert.Nil(t, h.Instance())
	assert.False(t, h.Active())
	assert.NotPanics(t, h.Refresh)

	elems, _ := newElements(3)
	assert.False(t, Activate(elems, DefaultConfig()).Active())
}

func TestNilElementsAreSkipped(t *testing.T) {
	elems, fakes := newElements(25)
	elems[3] = nil
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	assert.NotPanics(t, func() { r.OnScroll(200) })
	assert.True(t, fakes[4].visible)
}

func TestTopAndIndexForOffset(t *testing.T) {
	elems, _ := newElements(25)
	r := New(elems, DefaultConfig())
	require.NotNil(t, r)

	assert.Equal(t, 0, r.Top(-1))
	assert.Equal(t, 160, r.Top(2))
	assert.Equal(t, 24*80, r.Top(99))
	assert.Equal(t, 0, r.IndexForOffset(-5))
	assert.Equal(t, 5, r.IndexForOffset(400))
	assert.Equal(t, 24, r.IndexForOffset(1<<30))
}
