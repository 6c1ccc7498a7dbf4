// Package details manages the collapsible detail panel attached to each tool result.
//
// A panel has two parts: a short loading placeholder and the full details body.
// Revealing a panel shows the placeholder first and schedules a completion on the
// Bubble Tea event loop after RevealDelay; concealing hides both parts at once.
package details

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RevealDelay is the default pause between showing the placeholder and the details.
const RevealDelay = 300 * time.Millisecond

// Visibility is the display state of one panel part.
type Visibility int

const (
	// Hidden parts take no space.
	Hidden Visibility = iota
	// Visible parts are rendered.
	Visible
)

// String returns "hidden" or "visible".
func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// State summarizes a panel.
type State int

const (
	// Collapsed panels show neither placeholder nor details.
	Collapsed State = iota
	// Loading panels show only the placeholder.
	Loading
	// Expanded panels show only the details.
	Expanded
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Panel is the detail area of one tool result.
type Panel struct {
	// ID identifies the owning tool result.
	ID string

	// Placeholder is the loading indicator shown while a reveal is pending.
	Placeholder Visibility

	// Details is the full body (arguments and output).
	Details Visibility

	// checked mirrors the toggle control
	checked bool

	// generation increments on every reveal so stale completions can be told apart
	generation uint64
}

// Checked reports whether the panel's toggle is on.
func (p *Panel) Checked() bool {
	return p.checked
}

// State derives the panel state from its part visibilities.
func (p *Panel) State() State {
	switch {
	case p.Details == Visible:
		return Expanded
	case p.Placeholder == Visible:
		return Loading
	default:
		return Collapsed
	}
}

// RevealedMsg completes a pending reveal. It is delivered by the command
// returned from Toggle.Reveal.
type RevealedMsg struct {
	ID         string
	Generation uint64
}

// Toggle owns the panels for a page of tool results.
// Like the rest of a Bubble Tea model it is only touched from the event loop.
type Toggle struct {
	panels map[string]*Panel
	delay  time.Duration
}

// NewToggle creates panels for the given ids. A non-positive delay uses RevealDelay.
func NewToggle(delay time.Duration, ids ...string) *Toggle {
	if delay <= 0 {
		delay = RevealDelay
	}
	t := &Toggle{
		panels: make(map[string]*Panel, len(ids)),
		delay:  delay,
	}
	for _, id := range ids {
		t.Add(id)
	}
	return t
}

// Add registers a collapsed panel for id, returning the existing panel if any.
func (t *Toggle) Add(id string) *Panel {
	if p, ok := t.panels[id]; ok {
		return p
	}
	p := &Panel{ID: id}
	t.panels[id] = p
	return p
}

// Panel returns the panel for id, or nil.
func (t *Toggle) Panel(id string) *Panel {
	if t == nil {
		return nil
	}
	return t.panels[id]
}

// State returns the state of the panel for id; unknown ids are Collapsed.
func (t *Toggle) State(id string) State {
	p := t.Panel(id)
	if p == nil {
		return Collapsed
	}
	return p.State()
}

// Delay returns the configured reveal delay.
func (t *Toggle) Delay() time.Duration {
	return t.delay
}

// Set routes a toggle change to Reveal or Conceal.
func (t *Toggle) Set(id string, checked bool) tea.Cmd {
	if checked {
		return t.Reveal(id)
	}
	t.Conceal(id)
	return nil
}

// Flip inverts the toggle for id.
func (t *Toggle) Flip(id string) tea.Cmd {
	p := t.Panel(id)
	if p == nil {
		return nil
	}
	return t.Set(id, !p.checked)
}

// Reveal shows the placeholder for id and schedules the completion.
// The returned command cannot be cancelled; Complete drops it if the panel was
// concealed or revealed again in the meantime. Unknown ids return nil.
func (t *Toggle) Reveal(id string) tea.Cmd {
	p := t.Panel(id)
	if p == nil {
		return nil
	}
	p.checked = true
	p.generation++
	p.Placeholder = Visible
	p.Details = Hidden

	msg := RevealedMsg{ID: id, Generation: p.generation}
	return tea.Tick(t.delay, func(time.Time) tea.Msg {
		return msg
	})
}

// Complete applies a finished reveal. It reports whether the panel changed.
func (t *Toggle) Complete(msg RevealedMsg) bool {
	p := t.Panel(msg.ID)
	if p == nil || !p.checked || p.generation != msg.Generation || p.State() != Loading {
		return false
	}
	p.Placeholder = Hidden
	p.Details = Visible
	return true
}

// Conceal hides the placeholder and details for id immediately.
func (t *Toggle) Conceal(id string) {
	p := t.Panel(id)
	if p == nil {
		return
	}
	p.checked = false
	p.Placeholder = Hidden
	p.Details = Hidden
}

// ConcealAll collapses every panel.
func (t *Toggle) ConcealAll() {
	if t == nil {
		return
	}
	for id := range t.panels {
		t.Conceal(id)
	}
}
