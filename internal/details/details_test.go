package details

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealThenComplete(t *testing.T) {
	tg := NewToggle(time.Millisecond, "tool-result-1-1")

	cmd := tg.Reveal("tool-result-1-1")
	require.NotNil(t, cmd)

	p := tg.Panel("tool-result-1-1")
	assert.Equal(t, Visible, p.Placeholder)
	assert.Equal(t, Hidden, p.Details)
	assert.Equal(t, Loading, tg.State("tool-result-1-1"))
	assert.True(t, p.Checked())

	msg, ok := cmd().(RevealedMsg)
	require.True(t, ok)
	assert.Equal(t, "tool-result-1-1", msg.ID)

	assert.True(t, tg.Complete(msg))
	assert.Equal(t, Hidden, p.Placeholder)
	assert.Equal(t, Visible, p.Details)
	assert.Equal(t, Expanded, tg.State("tool-result-1-1"))

	// Second delivery is a no-op.
	assert.False(t, tg.Complete(msg))
}

func TestConcealHidesImmediately(t *testing.T) {
	tg := NewToggle(time.Millisecond, "a")
	cmd := tg.Reveal("a")
	require.True(t, tg.Complete(cmd().(RevealedMsg)))

	tg.Conceal("a")
	p := tg.Panel("a")
	assert.Equal(t, Hidden, p.Placeholder)
	assert.Equal(t, Hidden, p.Details)
	assert.Equal(t, Collapsed, p.State())
	assert.False(t, p.Checked())
}

func TestLateCompletionAfterConcealIsDropped(t *testing.T) {
	tg := NewToggle(time.Millisecond, "a")
	cmd := tg.Reveal("a")
	tg.Conceal("a")

	assert.False(t, tg.Complete(cmd().(RevealedMsg)))
	assert.Equal(t, Collapsed, tg.State("a"))
}

func TestStaleGenerationIsDropped(t *testing.T) {
	tg := NewToggle(time.Millisecond, "a")
	first := tg.Reveal("a")
	tg.Conceal("a")
	second := tg.Reveal("a")

	assert.False(t, tg.Complete(first().(RevealedMsg)))
	assert.Equal(t, Loading, tg.State("a"))
	assert.True(t, tg.Complete(second().(RevealedMsg)))
	assert.Equal(t, Expanded, tg.State("a"))
}

func TestSetAndFlip(t *testing.T) {
	tg := NewToggle(0, "a", "b")
	assert.Equal(t, RevealDelay, tg.Delay())

	assert.NotNil(t, tg.Set("a", true))
	assert.Equal(t, Loading, tg.State("a"))
	assert.Nil(t, tg.Set("a", false))
	assert.Equal(t, Collapsed, tg.State("a"))

	assert.NotNil(t, tg.Flip("b"))
	assert.Equal(t, Loading, tg.State("b"))
	assert.Nil(t, tg.Flip("b"))
	assert.Equal(t, Collapsed, tg.State("b"))
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	tg := NewToggle(0)
	assert.Nil(t, tg.Reveal("missing"))
	assert.Nil(t, tg.Flip("missing"))
	assert.NotPanics(t, func() { tg.Conceal("missing") })
	assert.False(t, tg.Complete(RevealedMsg{ID: "missing", Generation: 1}))
	assert.Equal(t, Collapsed, tg.State("missing"))

	var nilToggle *Toggle
	assert.Nil(t, nilToggle.Panel("x"))
	assert.NotPanics(t, nilToggle.ConcealAll)
}

func TestConcealAll(t *testing.T) {
	tg := NewToggle(time.Millisecond, "a", "b")
	tg.Reveal("a")
	tg.Reveal("b")
	tg.ConcealAll()
	assert.Equal(t, Collapsed, tg.State("a"))
	assert.Equal(t, Collapsed, tg.State("b"))
}

func TestAddIsIdempotent(t *testing.T) {
	tg := NewToggle(0)
	p1 := tg.Add("a")
	p2 := tg.Add("a")
	assert.Same(t, p1, p2)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "collapsed", Collapsed.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "expanded", Expanded.String())
	assert.Equal(t, "visible", Visible.String())
	assert.Equal(t, "hidden", Hidden.String())
}
