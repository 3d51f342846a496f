package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/experiment"
)

var presetInfo = map[string]string{
	"default": "the portfolio stack, 960x400",
	"wide":    "same stack, wide container",
	"mobile":  "narrow column, small pills",
	"bouncy":  "high restitution, low drag",
	"heavy":   "gravity on, pills pile up",
}

const (
	stateMenu = iota
	stateLive
)

// App is the preset picker that leads into a live Model.
type App struct {
	state, cursor int
	presets       []string
	registry      *experiment.Registry
	base          Options
	width, height int
	live          Model
	err           error
}

func NewApp(registry *experiment.Registry, base Options) App {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	return App{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: registry,
		base:     base,
		width:    80,
		height:   24,
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = size.Width, size.Height
	}
	if a.state == stateLive {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.start(a.presets[a.cursor])
	}
	return a, nil
}

func (a App) start(name string) (App, tea.Cmd) {
	cfg := config.GetPreset(name)
	items, err := cfg.ResolveItems()
	if err != nil {
		a.err = err
		return a, nil
	}
	opts, err := a.registry.WidgetOptions(cfg)
	if err != nil {
		a.err = err
		return a, nil
	}

	o := a.base
	o.Widget = append(opts, o.Widget...)
	if o.Interval <= 0 {
		o.Interval = cfg.Interval()
	}
	m, err := NewModel(items, o)
	if err != nil {
		a.err = err
		return a, nil
	}
	m.resize(a.width, a.height)
	a.live, a.state = m, stateLive
	return a, m.Init()
}

func (a App) View() string {
	if a.state == stateLive {
		return a.live.View()
	}

	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	sel := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("TECHPILLS") + "\n    " + sub.Render("drag the stack around") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.presets {
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), sel.Render(fmt.Sprintf("%-10s", name)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", name)), sub.Render(presetInfo[name])))
		}
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" select  ") + key.Render("q") + sub.Render(" quit") + "\n")
	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(a.err.Error()) + "\n")
	}
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive(registry *experiment.Registry, base Options) error {
	_, err := tea.NewProgram(NewApp(registry, base), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
