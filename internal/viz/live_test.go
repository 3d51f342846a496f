package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/techpills/internal/experiment"
	"github.com/san-kum/techpills/internal/logger"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(techstack.Default(), Options{Logger: logger.Discard(), Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(Model)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// cellOf returns the terminal cell at the centre of a placement.
func cellOf(p render.Placement) (int, int) {
	x := 1 + int((p.X+p.Width/2)/CellWidth)
	y := headerRows + 1 + int((p.Y+p.Height/2)/CellHeight)
	return x, y
}

func TestModel_ResizeMounts(t *testing.T) {
	m := newTestModel(t)
	if !m.widget.Mounted() {
		t.Fatal("window size should mount the widget")
	}
	if got := m.widget.Size(); got.Width != 1000 || got.Height != 544 {
		t.Errorf("container = %v, want 1000x544", got)
	}

	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := m.widget.Size(); got.Width != 600 || got.Height != 384 {
		t.Errorf("container after resize = %v", got)
	}

	m = update(m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if got := m.widget.Size(); got.Width != minCols*CellWidth || got.Height != minRows*CellHeight {
		t.Errorf("tiny terminal not clamped: %v", got)
	}
}

func TestModel_MouseDrag(t *testing.T) {
	m := newTestModel(t)
	x, y := cellOf(m.placements[0])

	m = update(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if i, ok := m.widget.Dragging(); !ok || i != 0 {
		t.Fatalf("expected drag of pill 0, got %d %v", i, ok)
	}
	if !m.ui.dragging || m.ui.drags != 1 {
		t.Error("notifier not wired to the model")
	}
	if !strings.Contains(m.status(), "DRAGGING") {
		t.Errorf("status = %q", m.status())
	}

	m = update(m, tea.MouseMsg{X: x + 5, Y: y + 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	top := m.placements[len(m.placements)-1]
	if top.Index != 0 || !top.Dragging {
		t.Fatalf("dragged pill must be drawn last, got %+v", top)
	}
	// centre follows the pointer, relative to the canvas origin
	cx := (float64(x+5)+0.5)*CellWidth - CellWidth
	cy := (float64(y+2)+0.5)*CellHeight - float64(headerRows+1)*CellHeight
	if top.X+top.Width/2 != cx || top.Y+top.Height/2 != cy {
		t.Errorf("pill centre (%.0f, %.0f), want (%.0f, %.0f)", top.X+top.Width/2, top.Y+top.Height/2, cx, cy)
	}

	m = update(m, tea.MouseMsg{X: x + 5, Y: y + 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if _, ok := m.widget.Dragging(); ok || m.ui.dragging {
		t.Error("release should end the drag")
	}
}

func TestModel_MotionOutsideLeaves(t *testing.T) {
	m := newTestModel(t)
	x, y := cellOf(m.placements[2])
	m = update(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 139, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if _, ok := m.widget.Dragging(); ok {
		t.Error("leaving the container should release the drag")
	}
}

func TestModel_PressOutsidePillsIgnored(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.MouseMsg{X: 2, Y: headerRows + m.rows - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.widget.Dragging(); ok {
		t.Error("press on empty space started a drag")
	}
	m = update(m, tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.widget.Dragging(); ok {
		t.Error("press on the header started a drag")
	}
}

func TestModel_TickAndKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	if m.widget.Clock().Seq() != 1 {
		t.Fatalf("tick should advance one frame, seq = %d", m.widget.Clock().Seq())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	m = update(m, TickMsg(time.Now()))
	if !m.paused || m.widget.Clock().Seq() != 1 {
		t.Error("paused model must not step")
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	m = update(m, TickMsg(time.Now()))
	if m.energy.Value() == 0 {
		t.Error("kick should add energy")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.widget.Clock().Seq() != 0 {
		t.Error("reset should remount with a fresh clock")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m.theme != 1 {
		t.Errorf("theme = %d", m.theme)
	}

	view := m.View()
	for _, want := range []string{"RUNNING", "TypeScript", "Energy", "language"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestApp_PresetSelection(t *testing.T) {
	a := NewApp(experiment.NewRegistry(), Options{Logger: logger.Discard()})
	next, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a = next.(App)
	next, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	a = next.(App)
	if !strings.Contains(a.View(), a.presets[1]) {
		t.Error("menu should list presets")
	}

	next, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = next.(App)
	if a.state != stateLive || cmd == nil {
		t.Fatal("enter should start the live view")
	}
	if !a.live.widget.Mounted() {
		t.Error("live widget not mounted")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "midnight" {
		t.Error("unknown theme should fall back to midnight")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
	if got := SparklineChart([]float64{0, 1, 2, 3}, 2); got != "▅█" {
		t.Errorf("sparkline = %q", got)
	}
}
