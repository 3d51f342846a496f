package viz

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/hero"
	"github.com/san-kum/techpills/internal/metrics"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

// Screen layout in cells.
const (
	sidebarWidth = 38
	headerRows   = 3
	footerRows   = 1
	minCols      = 20
	minRows      = 6

	historyCapacity = 300
	kickSpeed       = 700.0
)

type TickMsg time.Time

// Options configure the terminal host.
type Options struct {
	Theme    string
	Interval time.Duration
	Seed     int64
	Logger   *slog.Logger
	Widget   []widget.Option
}

// uiState is shared with the drag notifier, which outlives model copies.
type uiState struct {
	dragging bool
	drags    int
}

// Model hosts one widget in the terminal. Mouse cells are converted to
// container pixels at CellWidth x CellHeight.
type Model struct {
	widget   *widget.Widget
	typer    *hero.Typer
	energy   *metrics.KineticEnergy
	speed    *metrics.PeakSpeed
	settle   *metrics.SettleTime
	ui       *uiState
	rng      *rand.Rand
	log      *slog.Logger
	interval time.Duration

	theme         int
	styles        Styles
	width, height int
	cols, rows    int
	placements    []render.Placement
	paused        bool
	showHelp      bool
	err           error
}

func NewModel(items []techstack.Item, o Options) (Model, error) {
	if o.Interval <= 0 {
		o.Interval = time.Second / 60
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	m := Model{
		typer:    hero.NewTyper(hero.DefaultCommands),
		energy:   metrics.NewKineticEnergy(historyCapacity),
		speed:    metrics.NewPeakSpeed(),
		settle:   metrics.NewSettleTime(1),
		ui:       &uiState{},
		rng:      rand.New(rand.NewSource(o.Seed)),
		log:      o.Logger.With("component", "tui"),
		interval: o.Interval,
		theme:    themeIndex(o.Theme),
	}
	m.styles = NewStyles(Themes[m.theme])

	ui := m.ui
	opts := append([]widget.Option{}, o.Widget...)
	opts = append(opts,
		widget.WithLogger(o.Logger),
		widget.WithMetrics(m.energy, m.speed, m.settle),
		widget.WithOrigin(dynamo.V(CellWidth, float64(headerRows+1)*CellHeight)),
		widget.WithDragNotifier(func(active bool) {
			ui.dragging = active
			if active {
				ui.drags++
			}
		}),
	)
	w, err := widget.New(items, opts...)
	if err != nil {
		return Model{}, err
	}
	m.widget = w
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.widget.Unmount()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.reset()
		case "k":
			m.kick()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.mouse(msg)

	case TickMsg:
		m.typer.Advance(m.interval)
		if !m.paused && m.widget.Mounted() {
			placements, err := m.widget.Frame()
			if err != nil {
				m.err = err
				m.log.Error("frame failed", "error", err)
			} else {
				m.placements = placements
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// resize maps the terminal to a container and mounts or resizes the widget.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.cols = max(w-sidebarWidth-2, minCols)
	m.rows = max(h-headerRows-footerRows-2, minRows)
	size := dynamo.Size{Width: float64(m.cols) * CellWidth, Height: float64(m.rows) * CellHeight}

	var err error
	if m.widget.Mounted() {
		err = m.widget.Resize(size)
	} else {
		err = m.widget.Mount(size)
	}
	if err != nil {
		m.err = err
		return
	}
	m.placements = m.widget.Placements()
}

// pointer converts a terminal cell to page pixels at the cell centre.
func pointer(x, y int) dynamo.Vec2 {
	return dynamo.V((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

func (m Model) inside(x, y int) bool {
	return x >= 1 && x < 1+m.cols && y >= headerRows+1 && y < headerRows+1+m.rows
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if !m.widget.Mounted() {
		return
	}
	p := pointer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.inside(msg.X, msg.Y) {
			m.widget.PointerDown(-1, p)
		}
	case tea.MouseActionMotion:
		if _, ok := m.widget.Dragging(); !ok {
			return
		}
		if !m.inside(msg.X, msg.Y) {
			m.widget.PointerLeave()
			return
		}
		if err := m.widget.PointerMove(p); err != nil {
			m.err = err
		}
	case tea.MouseActionRelease:
		m.widget.PointerUp()
	}
	m.placements = m.widget.Placements()
}

// reset remounts at the current size, restoring the pyramid.
func (m *Model) reset() {
	if !m.widget.Mounted() {
		return
	}
	size := m.widget.Size()
	m.widget.Unmount()
	if err := m.widget.Mount(size); err != nil {
		m.err = err
		return
	}
	m.placements = m.widget.Placements()
}

// kick gives every free body a random velocity.
func (m *Model) kick() {
	world := m.widget.World()
	if world == nil || !m.widget.Mounted() {
		return
	}
	dragged, dragging := m.widget.Dragging()
	for i := 0; i < world.Len(); i++ {
		if dragging && i == dragged {
			continue
		}
		v := dynamo.V((m.rng.Float64()*2-1)*kickSpeed, (m.rng.Float64()*2-1)*kickSpeed)
		if err := world.SetVelocity(i, v); err != nil {
			m.err = err
			return
		}
	}
}

func (m Model) status() string {
	switch {
	case m.paused:
		return m.styles.Paused.Render("PAUSED")
	case m.ui.dragging:
		name := ""
		if i, ok := m.widget.Dragging(); ok {
			name = " " + m.widget.Items()[i].Name
		}
		return m.styles.Dragging.Render("DRAGGING" + name)
	default:
		return m.styles.Running.Render("RUNNING")
	}
}

func (m Model) header() string {
	t := Themes[m.theme]
	title := GradientText("tech stack", t.Secondary, t.Accent)
	lines := strings.SplitN(m.typer.View(), "\n", 2)
	for len(lines) < 2 {
		lines = append(lines, "")
	}
	return title + "\n" + m.styles.Prompt.Render(lines[0]) + "\n" + m.styles.Value.Render(lines[1])
}

func (m Model) sidebar() string {
	var s strings.Builder
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n")
	}
	seq := uint64(0)
	if c := m.widget.Clock(); c != nil {
		seq = c.Seq()
	}
	row("Frame", fmt.Sprintf("%d", seq))
	row("Pills", fmt.Sprintf("%d", len(m.widget.Items())))
	row("Container", fmt.Sprintf("%.0fx%.0f", m.widget.Size().Width, m.widget.Size().Height))
	row("Energy", fmt.Sprintf("%.0f", m.energy.Value()))
	row("Peak speed", fmt.Sprintf("%.0f px/s", m.speed.Value()))
	if st := m.settle.Value(); st >= 0 {
		row("Settled", fmt.Sprintf("%.2fs", st))
	} else {
		row("Settled", "-")
	}
	row("Drags", fmt.Sprintf("%d", m.ui.drags))

	if hist := m.energy.History(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(sidebarWidth-12), asciigraph.Caption("Energy"))
		s.WriteString("\n" + m.styles.Graph.Render(chart) + "\n")
	}
	s.WriteString("\n" + Legend(m.widget.Items(), m.styles))
	return m.styles.Panel.Render(s.String())
}

func (m Model) surface() string {
	s := NewSurface(m.cols, m.rows)
	for _, p := range m.placements {
		s.DrawPill(p, Themes[m.theme])
	}
	return m.styles.Frame.Render(strings.TrimSuffix(s.String(), "\n"))
}

// View renders the TUI interface.
func (m Model) View() string {
	if !m.widget.Mounted() {
		return "\n  loading..."
	}
	if m.showHelp {
		return helpText
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.surface(), m.sidebar())
	footer := m.styles.Hint.Render("drag a pill  space:pause  r:reset  k:kick  t:theme  ?:help  q:quit")
	if m.err != nil {
		footer = m.styles.Paused.Render("error: " + m.err.Error())
	}
	return m.header() + "\n" + body + "\n" + footer
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Mouse    - Drag a pill              ║
║  Space    - Pause/Resume             ║
║  R        - Restack the pyramid      ║
║  K        - Kick every pill          ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

// Widget exposes the hosted widget.
func (m Model) Widget() *widget.Widget { return m.widget }

// RunLive starts the terminal host full-screen with mouse tracking.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
