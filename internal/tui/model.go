// Package tui implements the interactive tool result viewer.
//
// Pages with more results than the window threshold are drawn through a
// window.Renderer: every result occupies a fixed number of rows and only the
// entries in the renderer's visible range are drawn. Shorter pages are drawn in
// normal flow inside a scrollable viewport, with details expanded inline.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/rshade/trajview/internal/details"
	"github.com/rshade/trajview/internal/render"
	"github.com/rshade/trajview/internal/trajectory"
	"github.com/rshade/trajview/internal/window"
)

const (
	// defaultWidth and defaultHeight apply until the first WindowSizeMsg.
	defaultWidth  = 100
	defaultHeight = 30

	// headerHeight is the summary line plus its bottom border.
	headerHeight = 2

	// footerHeight is the help line.
	footerHeight = 1

	// minListHeight keeps the list usable on tiny terminals.
	minListHeight = 3

	// defaultItemRows is the windowed entry height when Options leaves it unset.
	defaultItemRows = 4

	// wheelStep is the number of rows scrolled per mouse wheel notch.
	wheelStep = 3

	// detailPaneDivisor gives the detail pane 1/n of the body when open.
	detailPaneDivisor = 2

	// paneChrome is the rows taken by the detail pane border.
	paneChrome = 2

	// paneInset is the columns taken by the detail pane border and padding.
	paneInset = 4

	// previewRows is the output preview shown under collapsed entries in flow mode.
	previewRows = 2
)

// Options configures a Model.
type Options struct {
	// Window supplies Buffer and Threshold; ItemHeight and ViewportHeight are
	// derived from ItemRows and the terminal size.
	Window window.Config

	// ItemRows is the fixed height of a windowed entry.
	ItemRows int

	// RevealDelay is the pause before an opened panel shows its details.
	RevealDelay time.Duration

	// Highlight enables chroma highlighting in detail panels.
	Highlight bool

	// Theme is the chroma style name.
	Theme string

	// Logger receives debug events; the zero value logs nothing useful.
	Logger zerolog.Logger
}

// DefaultOptions returns the default viewer options.
func DefaultOptions() Options {
	return Options{
		Window:      window.DefaultConfig(),
		ItemRows:    defaultItemRows,
		RevealDelay: details.RevealDelay,
		Highlight:   true,
		Theme:       "monokai",
		Logger:      zerolog.Nop(),
	}
}

// Model is the Bubble Tea model for a single trajectory page.
type Model struct {
	page    *trajectory.Page
	entries []*Entry

	// handle owns the windowed renderer; its instance is nil in flow mode
	handle *window.Handle
	toggle *details.Toggle

	opts   Options
	logger zerolog.Logger
	hl     *Highlighter

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	// flow renders short pages; detail renders the open panel in windowed mode
	flow   viewport.Model
	detail viewport.Model

	// flowStarts holds the first content line of each entry in flow mode
	flowStarts []int

	// detailCache holds highlighted detail text by result id
	detailCache map[string]string

	width      int
	height     int
	listHeight int
	selected   int
	offset     int
	follow     bool
	quitting   bool
}

// NewModel builds the viewer for page.
func NewModel(page *trajectory.Page, opts Options) *Model {
	if page == nil {
		page = &trajectory.Page{}
	}
	if opts.ItemRows <= 0 {
		opts.ItemRows = defaultItemRows
	}

	m := &Model{
		page:        page,
		entries:     NewEntries(page.Results),
		opts:        opts,
		logger:      opts.Logger,
		hl:          NewHighlighter(opts.Highlight, opts.Theme),
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(mutedStyle)),
		detailCache: make(map[string]string),
		width:       defaultWidth,
		height:      defaultHeight,
	}

	ids := make([]string, len(m.entries))
	elements := make([]window.Element, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.Result.ID
		elements[i] = e
	}
	m.toggle = details.NewToggle(opts.RevealDelay, ids...)

	body := m.bodyHeight()
	m.flow = viewport.New(m.width, body)
	m.detail = viewport.New(m.width-paneInset, 1)

	wcfg := opts.Window
	wcfg.ItemHeight = opts.ItemRows
	wcfg.ViewportHeight = body
	m.handle = window.Activate(elements, wcfg)
	m.listHeight = body

	if m.Windowed() {
		m.logger.Debug().
			Int("items", len(m.entries)).
			Int("threshold", wcfg.Threshold).
			Int("visible", m.handle.Instance().VisibleCount()).
			Msg("windowed rendering enabled")
	}

	m.sync()
	return m
}

// Windowed reports whether the page is drawn through a window.Renderer.
func (m *Model) Windowed() bool {
	return m.handle.Active()
}

// Handle returns the renderer handle; callers use it to refresh after external changes.
func (m *Model) Handle() *window.Handle {
	return m.handle
}

// Toggle returns the detail panel state.
func (m *Model) Toggle() *details.Toggle {
	return m.toggle
}

// Entries returns the page entries.
func (m *Model) Entries() []*Entry {
	return m.entries
}

// Selected returns the selected entry index.
func (m *Model) Selected() int {
	return m.selected
}

// Offset returns the windowed scroll offset in rows.
func (m *Model) Offset() int {
	return m.offset
}

// ListHeight returns the rows available to the windowed list.
func (m *Model) ListHeight() int {
	return m.listHeight
}

// Init starts no background work; ticks begin when a panel opens.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.follow = true
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case details.RevealedMsg:
		if m.toggle.Complete(msg) {
			m.logger.Debug().Str("id", msg.ID).Msg("details revealed")
		}
	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
	}

	if m.quitting {
		return m, cmd
	}
	m.sync()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.selectIndex(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.selectIndex(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.pageBy(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.pageBy(1)
	case key.Matches(msg, m.keys.Home):
		m.selectIndex(0)
	case key.Matches(msg, m.keys.End):
		m.selectIndex(len(m.entries) - 1)
	case key.Matches(msg, m.keys.Toggle):
		return m.flipSelected()
	case key.Matches(msg, m.keys.CollapseAll):
		m.toggle.ConcealAll()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.Windowed() {
		var cmd tea.Cmd
		m.flow, cmd = m.flow.Update(msg)
		return cmd
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ScrollTo(m.offset - wheelStep)
	case tea.MouseButtonWheelDown:
		m.ScrollTo(m.offset + wheelStep)
	default:
		return nil
	}
	m.keepSelectionInView()
	return nil
}

// pageBy moves the selection by one screen of entries.
func (m *Model) pageBy(dir int) {
	if !m.Windowed() {
		m.flow.SetYOffset(m.flow.YOffset + dir*m.flow.Height)
		return
	}
	step := max(m.listHeight/m.opts.ItemRows, 1)
	m.selectIndex(m.selected + dir*step)
}

func (m *Model) selectIndex(i int) {
	if len(m.entries) == 0 {
		return
	}
	m.selected = min(max(i, 0), len(m.entries)-1)
	m.follow = true
}

func (m *Model) flipSelected() tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	m.follow = true
	id := m.entries[m.selected].Result.ID
	cmd := m.toggle.Flip(id)
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) anyLoading() bool {
	for _, e := range m.entries {
		if m.toggle.State(e.Result.ID) == details.Loading {
			return true
		}
	}
	return false
}

// ScrollTo moves the windowed viewport, clamped to the content bounds.
func (m *Model) ScrollTo(offset int) {
	r := m.handle.Instance()
	if r == nil {
		return
	}
	offset = min(max(offset, 0), r.MaxOffset())
	before := r.Range()
	m.offset = offset
	r.OnScroll(offset)
	if after := r.Range(); after != before {
		m.logger.Debug().
			Int("offset", offset).
			Int("start", after.Start).
			Int("end", after.End).
			Msg("window range changed")
	}
}

// keepSelectionInView moves the selection onto a fully visible entry after a
// mouse scroll.
func (m *Model) keepSelectionInView() {
	h := m.opts.ItemRows
	first := (m.offset + h - 1) / h
	last := (m.offset+m.listHeight)/h - 1
	if first > last {
		first = m.handle.Instance().IndexForOffset(m.offset)
		last = first
	}
	last = min(last, len(m.entries)-1)
	m.selected = min(max(m.selected, first), last)
}

// followSelection scrolls so the selected entry is fully visible.
func (m *Model) followSelection() {
	r := m.handle.Instance()
	if r == nil || len(m.entries) == 0 {
		return
	}
	top := r.Top(m.selected)
	bottom := top + m.opts.ItemRows
	offset := m.offset
	if top < offset {
		offset = top
	}
	if bottom > offset+m.listHeight {
		offset = bottom - m.listHeight
	}
	m.ScrollTo(offset)
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, minListHeight)
}

func (m *Model) selectedID() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[m.selected].Result.ID
}

func (m *Model) detailOpen() bool {
	return m.Windowed() && m.toggle.State(m.selectedID()) != details.Collapsed
}

// sync recomputes layout and derived content after a state change.
func (m *Model) sync() {
	body := m.bodyHeight()
	m.help.Width = m.width

	if !m.Windowed() {
		m.flow.Width = m.width
		m.flow.Height = body
		m.syncFlow()
		m.follow = false
		return
	}

	list := body
	if m.detailOpen() {
		pane := body / detailPaneDivisor
		list = max(body-pane, minListHeight)
		m.detail.Width = max(m.width-paneInset, 1)
		m.detail.Height = max(body-list-paneChrome, 1)
		m.syncDetail()
	}
	if list != m.listHeight {
		m.listHeight = list
		m.handle.Instance().Resize(list)
	}

	if m.follow {
		m.followSelection()
		m.follow = false
	} else {
		m.ScrollTo(m.offset)
	}
}

func (m *Model) detailText(e *Entry) string {
	if text, ok := m.detailCache[e.Result.ID]; ok {
		return text
	}
	text := e.DetailText(m.hl)
	m.detailCache[e.Result.ID] = text
	return text
}

// syncDetail fills the detail pane with the selected panel, framed by the agent
// messages around the selected result.
func (m *Model) syncDetail() {
	e := m.entries[m.selected]
	width := m.detail.Width

	var parts []string
	if before := agentBlock(m.page.MessagesAt(m.selected), width); before != "" {
		parts = append(parts, before)
	}
	switch m.toggle.State(e.Result.ID) {
	case details.Loading:
		parts = append(parts, m.spinner.View()+" loading details…")
	case details.Expanded:
		parts = append(parts, m.detailText(e))
	case details.Collapsed:
	}
	if m.selected == len(m.entries)-1 {
		if after := agentBlock(m.page.TrailingMessages(), width); after != "" {
			parts = append(parts, after)
		}
	}
	m.detail.SetContent(strings.Join(parts, "\n\n"))
}

func (m *Model) syncFlow() {
	var lines []string
	m.flowStarts = m.flowStarts[:0]

	for i, e := range m.entries {
		// An entry's span starts at the agent messages leading into it.
		m.flowStarts = append(m.flowStarts, len(lines))
		for _, am := range m.page.MessagesAt(i) {
			lines = append(lines, agentLines(am, m.width)...)
			lines = append(lines, "")
		}
		state := m.toggle.State(e.Result.ID)
		lines = append(lines, e.headerLines(m.width, i == m.selected, state)...)

		switch state {
		case details.Loading:
			lines = append(lines, "  "+m.spinner.View()+" loading details…")
		case details.Expanded:
			body := lipgloss.NewStyle().MaxWidth(max(m.width-2, 1)).Render(m.detailText(e))
			for _, l := range strings.Split(body, "\n") {
				lines = append(lines, "  "+l)
			}
		case details.Collapsed:
			lines = append(lines, e.previewLines(m.width, previewRows)...)
		}
		lines = append(lines, "")
	}
	for _, am := range m.page.TrailingMessages() {
		lines = append(lines, agentLines(am, m.width)...)
		lines = append(lines, "")
	}

	m.flow.SetContent(strings.Join(lines, "\n"))

	if m.follow && len(m.entries) > 0 {
		start := m.flowStarts[m.selected]
		end := len(lines)
		if m.selected+1 < len(m.flowStarts) {
			end = m.flowStarts[m.selected+1]
		}
		if start < m.flow.YOffset {
			m.flow.SetYOffset(start)
		} else if end > m.flow.YOffset+m.flow.Height {
			m.flow.SetYOffset(min(start, end-m.flow.Height))
		}
	}
}

// View renders the current view.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("%d results", len(m.entries))
	if r := m.handle.Instance(); r != nil {
		rng := r.Range()
		status = fmt.Sprintf("%d results, rendering %d-%d", len(m.entries), rng.Start+1, rng.End)
	}
	header := headerStyle.Render(runewidth.Truncate(render.SummaryLine(m.page)+"  "+status, max(m.width, 1), "…"))

	var body string
	switch {
	case m.Windowed():
		body = m.windowView()
		if m.detailOpen() {
			body = lipgloss.JoinVertical(lipgloss.Left, body, paneStyle.Render(m.detail.View()))
		}
	case len(m.entries) == 0 && len(m.page.Messages) == 0:
		body = mutedStyle.Render("No tool results in this trajectory.")
	default:
		body = m.flow.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keys))
}

// windowView draws the entries in the renderer's range and clips them to the
// rows between offset and offset+listHeight.
func (m *Model) windowView() string {
	r := m.handle.Instance()
	rng := r.Range()
	h := m.opts.ItemRows

	lines := make([]string, 0, rng.Len()*h)
	for i := rng.Start; i < rng.End; i++ {
		e := m.entries[i]
		if !e.Visible {
			continue
		}
		lines = append(lines, e.FixedLines(m.width, h, i == m.selected, m.toggle.State(e.Result.ID))...)
	}

	skip := min(max(m.offset-rng.Start*h, 0), len(lines))
	lines = lines[skip:]
	if len(lines) > m.listHeight {
		lines = lines[:m.listHeight]
	}
	for len(lines) < m.listHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Run starts the full-screen viewer and blocks until the user quits.
func Run(ctx context.Context, page *trajectory.Page, opts Options) error {
	p := tea.NewProgram(
		NewModel(page, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
