package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/taillight/internal/config"
	"github.com/user/taillight/internal/ingest"
	"github.com/user/taillight/internal/match"
	"github.com/user/taillight/internal/pattern"
	"github.com/user/taillight/internal/render"
	"github.com/user/taillight/internal/source"
	"github.com/user/taillight/internal/store"
	"github.com/user/taillight/internal/view"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeDialog
)

// streamMsg carries a pump event into the update loop.
type streamMsg struct {
	event ingest.Event
}

// Model is the main application model
type Model struct {
	cfg      *config.Config
	store    *store.Store
	registry *pattern.Registry
	engine   *match.Engine
	filtered *source.FilteredProvider
	viewport *view.Viewport
	pump     *ingest.Pump
	dialog   *dialog

	mode   Mode
	width  int
	height int

	// Name shown in the status bar: the followed file, or "stdin".
	sourceName string

	// Case default for patterns added in the dialog.
	ignoreCase bool

	streamClosed bool
	streamErr    error
}

// NewModel wires the store, pattern registry, match engine and viewport
// together. The pump is optional; without one the model is static.
func NewModel(cfg *config.Config, s *store.Store, reg *pattern.Registry, pump *ingest.Pump, sourceName string, ignoreCase bool) *Model {
	engine := match.NewEngine(reg)
	filtered := source.NewFilteredProvider(s, reg, engine)

	viewport := view.NewViewport(80, 24)
	viewport.SetProvider(filtered)

	return &Model{
		cfg:        cfg,
		store:      s,
		registry:   reg,
		engine:     engine,
		filtered:   filtered,
		viewport:   viewport,
		pump:       pump,
		dialog:     newDialog(reg, cfg.Theme),
		mode:       ModeNormal,
		sourceName: sourceName,
		ignoreCase: ignoreCase,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.listen()
}

// listen blocks on the next pump event and feeds it into Update.
func (m *Model) listen() tea.Cmd {
	if m.pump == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.pump.Events()
		if !ok {
			return nil
		}
		return streamMsg{event: ev}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar and hint line
		m.viewport.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case streamMsg:
		return m.handleStream(msg.event)
	}

	return m, nil
}

func (m *Model) handleStream(ev ingest.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case ingest.KindActivity:
		// Eviction may have dropped lines the caches still refer to.
		m.engine.DropBelow(m.store.OldestSeq())
		m.viewport.OnNewContent()
	case ingest.KindClosed:
		m.streamClosed = true
	case ingest.KindError:
		m.streamClosed = true
		m.streamErr = ev.Err
	}
	return m, m.listen()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeDialog {
		return m.handleDialogKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)

	case "d", "ctrl+d", "pgdown":
		m.viewport.PageDown()
	case "u", "ctrl+u", "pgup":
		m.viewport.PageUp()

	case "g", "home":
		m.viewport.JumpToTop()
	case "G", "end":
		m.viewport.JumpToTail()

	case "w":
		m.viewport.ToggleWrap()

	case "f":
		m.filtered.SetActive(!m.filtered.Active())
		m.viewport.OnNewContent()

	case "p":
		m.mode = ModeDialog
		return m, m.dialog.open()
	}

	return m, nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := m.dialog.handleKey(msg, m.ignoreCase)
	if done {
		m.mode = ModeNormal
	}
	// Any registry change invalidates filter membership and may move
	// the tail.
	m.viewport.OnNewContent()
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var builder strings.Builder

	if m.mode == ModeDialog {
		builder.WriteString(m.dialog.view(m.width, m.height-2))
	} else {
		builder.WriteString(m.contentView())
	}
	builder.WriteString("\n")

	builder.WriteString(m.statusView())
	builder.WriteString("\n")
	builder.WriteString(m.hintView())

	return builder.String()
}

// contentView renders the visible rows with pattern highlights applied.
func (m *Model) contentView() string {
	styles := m.styles()
	rows := m.viewport.Rows()

	var b strings.Builder
	for i := 0; i < m.viewport.Height(); i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		if i >= len(rows) {
			continue
		}
		row := rows[i]
		spans := render.SliceSpans(m.engine.Matches(row.Line), row.SegStart, len(row.Text))
		b.WriteString(render.Highlight(row.Text, spans, styles))
	}
	return b.String()
}

// styles builds the per-frame pattern style table.
func (m *Model) styles() render.Styles {
	patterns := m.registry.List()
	styles := make(render.Styles, len(patterns))
	for _, p := range patterns {
		styles[p.ID] = render.PatternStyle(p.Color)
	}
	return styles
}

func (m *Model) statusView() string {
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.cfg.Theme.StatusBarText)).
		Width(m.width)

	cur, total := m.viewport.Position()
	pct := 100
	if total > 0 {
		pct = cur * 100 / total
	}

	flags := ""
	if m.filtered.Active() {
		flags += "  FILTER"
	}
	if m.viewport.Wrap() {
		flags += "  WRAP"
	}
	if m.viewport.Follow() {
		flags += "  TAIL"
	}

	stream := ""
	if m.streamErr != nil {
		stream = fmt.Sprintf("  read error: %v", m.streamErr)
	} else if m.streamClosed {
		stream = "  (closed)"
	}

	status := fmt.Sprintf(" %s%s  [%d/%d (%d%%)]  patterns:%d/%d%s",
		m.sourceName, stream, cur, total, pct,
		m.registry.EnabledCount(), m.registry.Len(), flags)
	return statusStyle.Render(status)
}

func (m *Model) hintView() string {
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Theme.HintText))
	if m.mode == ModeDialog {
		return hintStyle.Render("enter:add  ↑/↓:select  ←/→:case  space:enable  del:remove  esc:close")
	}
	return hintStyle.Render("j/k:scroll  d/u:page  g/G:top/tail  p:patterns  f:filter  w:wrap  q:quit")
}
