package gui

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/hero"
	"github.com/san-kum/techpills/internal/metrics"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColPrompt  = rl.NewColor(74, 222, 128, 255)
)

// Window layout in screen pixels.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	marginX       = 40
	heroHeight    = 120
	footerHeight  = 70
	kickSpeed     = 700.0
)

// Options configure the desktop host.
type Options struct {
	Width, Height int
	Title         string
	FPS           int32
	Logger        *slog.Logger
	Widget        []widget.Option
}

type App struct {
	Widget    *widget.Widget
	Typer     *hero.Typer
	Energy    *metrics.KineticEnergy
	Font      rl.Font
	Running   bool
	Dragging  bool
	Drags     int
	Telemetry []float64

	width, height int
	placements    []render.Placement
	rng           *rand.Rand
	log           *slog.Logger
}

func initWindow(o Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(o.Width), int32(o.Height), o.Title)
	rl.SetTargetFPS(o.FPS)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono if present, else raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the widget and mounts it into the current window.
func NewApp(items []techstack.Item, o Options) (*App, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	a := &App{
		Typer:   hero.NewTyper(hero.DefaultCommands),
		Energy:  metrics.NewKineticEnergy(300),
		Font:    loadFont(),
		Running: true,
		rng:     rand.New(rand.NewSource(1)),
		log:     o.Logger.With("component", "gui"),
	}

	opts := append([]widget.Option{}, o.Widget...)
	opts = append(opts,
		widget.WithLogger(o.Logger),
		widget.WithMetrics(a.Energy),
		widget.WithOrigin(dynamo.V(marginX, heroHeight)),
		widget.WithDragNotifier(func(active bool) {
			a.Dragging = active
			if active {
				a.Drags++
			}
		}),
	)
	w, err := widget.New(items, opts...)
	if err != nil {
		return nil, err
	}
	a.Widget = w

	a.width, a.height = int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	if err := w.Mount(a.container()); err != nil {
		return nil, err
	}
	a.placements = w.Placements()
	return a, nil
}

// container is the widget area left after the hero and footer.
func (a *App) container() dynamo.Size {
	return dynamo.Size{
		Width:  float64(max(a.width-2*marginX, 1)),
		Height: float64(max(a.height-heroHeight-footerHeight, 1)),
	}
}

// Run opens a window and blocks until it is closed.
func Run(items []techstack.Item, o Options) error {
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = DefaultWidth, DefaultHeight
	}
	if o.Title == "" {
		o.Title = "techpills"
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	initWindow(o)
	defer rl.CloseWindow()

	app, err := NewApp(items, o)
	if err != nil {
		return err
	}
	defer app.Widget.Unmount()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.width, a.height = int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		if err := a.Widget.Resize(a.container()); err != nil {
			a.log.Error("resize failed", "error", err)
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyK):
		a.kick()
	}

	a.pointer()

	a.Typer.Advance(secondsToDuration(rl.GetFrameTime()))
	if a.Running {
		placements, err := a.Widget.Frame()
		if err != nil {
			a.log.Error("frame failed", "error", err)
			return
		}
		a.placements = placements
	} else {
		a.placements = a.Widget.Placements()
	}

	a.Telemetry = a.Energy.History()
}

// pointer forwards the left mouse button to the widget in page pixels.
func (a *App) pointer() {
	m := rl.GetMousePosition()
	p := dynamo.V(float64(m.X), float64(m.Y))
	size := a.Widget.Size()
	box := rl.NewRectangle(marginX, heroHeight, float32(size.Width), float32(size.Height))
	inside := rl.CheckCollisionPointRec(m, box)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		if inside {
			a.Widget.PointerDown(-1, p)
		}
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Widget.PointerUp()
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		if _, ok := a.Widget.Dragging(); !ok {
			return
		}
		if !inside {
			a.Widget.PointerLeave()
			return
		}
		if err := a.Widget.PointerMove(p); err != nil {
			a.log.Warn("drag failed", "error", err)
		}
	}
}

func (a *App) reset() {
	size := a.Widget.Size()
	a.Widget.Unmount()
	if err := a.Widget.Mount(size); err != nil {
		a.log.Error("remount failed", "error", err)
	}
}

func (a *App) kick() {
	world := a.Widget.World()
	dragged, dragging := a.Widget.Dragging()
	for i := 0; i < world.Len(); i++ {
		if dragging && i == dragged {
			continue
		}
		v := dynamo.V((a.rng.Float64()*2-1)*kickSpeed, (a.rng.Float64()*2-1)*kickSpeed)
		_ = world.SetVelocity(i, v)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawHero()
	a.drawContainer()
	for _, p := range a.placements {
		a.drawPill(p)
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	status := "RUNNING"
	col := ColSelect
	switch {
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	case a.Dragging:
		status, col = "DRAGGING", ColPrompt
	}
	a.drawText(status, a.width-160, 30, 16, col)
	a.drawText(fmt.Sprintf("drags %d", a.Drags), a.width-160, 52, 14, ColText)

	a.DrawTelemetry()
	a.drawLegend()

	a.drawText("[SPACE] PAUSE  [R] RESTACK  [K] KICK  [Q] QUIT", a.width-460, a.height-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), marginX, a.height-24, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
