package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/sim"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

// Drag is a scripted pointer interaction: grab Index at step At, then
// move through Path one point per step, then release.
type Drag struct {
	Index int           `json:"index" yaml:"index"`
	At    int           `json:"at" yaml:"at"`
	Path  []dynamo.Vec2 `json:"path" yaml:"path"`
}

type Config struct {
	Integrator string
	Items      []techstack.Item
	Size       dynamo.Size
	Steps      int
	Seed       int64
	Kick       float64 // max initial speed in px/s; 0 starts at rest
	Drags      []Drag
	Options    []widget.Option
	Record     bool
}

// Result of a headless session.
type Result struct {
	Frames     []sim.Frame
	Final      []dynamo.Body
	Metrics    map[string]float64
	StepsTaken int
	Drags      int
}

type Experiment struct {
	cfg        Config
	registry   *Registry
	widget     *widget.Widget
	randSource *rand.Rand
	log        *slog.Logger
}

func New(cfg Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		cfg:        cfg,
		registry:   registry,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		log:        slog.Default().With("component", "experiment"),
	}
}

// Setup builds and mounts the widget, then applies the initial kick.
func (e *Experiment) Setup() error {
	if e.cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", e.cfg.Steps)
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	opts := append([]widget.Option{widget.WithIntegrator(integ), widget.WithLogger(e.log)}, e.cfg.Options...)
	w, err := widget.New(e.cfg.Items, opts...)
	if err != nil {
		return err
	}
	if err := w.Mount(e.cfg.Size); err != nil {
		return err
	}
	for _, m := range e.registry.DefaultMetrics(w.World().Box()) {
		w.Clock().AddMetric(m)
	}
	e.widget = w

	if e.cfg.Kick > 0 {
		for i := range e.cfg.Items {
			angle := e.randSource.Float64() * 2 * math.Pi
			speed := e.randSource.Float64() * e.cfg.Kick
			v := dynamo.V(math.Cos(angle)*speed, math.Sin(angle)*speed)
			if err := w.World().SetVelocity(i, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.widget == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	w := e.widget
	defer w.Unmount()

	res := &Result{}
	if e.cfg.Record {
		res.Frames = make([]sim.Frame, 0, e.cfg.Steps)
	}

	for step := 0; step < e.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if err := e.script(step, res); err != nil {
			return res, err
		}
		if _, err := w.Frame(); err != nil {
			return res, fmt.Errorf("step %d: %w", step, err)
		}
		res.StepsTaken++
		if e.cfg.Record {
			res.Frames = append(res.Frames, w.Clock().Last())
		}
	}

	res.Final = w.World().Bodies()
	res.Metrics = w.Clock().Metrics()
	e.log.Debug("session finished", "steps", res.StepsTaken, "drags", res.Drags)
	return res, nil
}

func (e *Experiment) script(step int, res *Result) error {
	w := e.widget
	for _, d := range e.cfg.Drags {
		if step == d.At && w.PointerDown(d.Index, dynamo.Vec2{}) {
			res.Drags++
		}
		if i, ok := w.Dragging(); !ok || i != d.Index {
			continue
		}
		k := step - d.At
		switch {
		case k >= 0 && k < len(d.Path):
			if err := w.PointerMove(d.Path[k]); err != nil {
				return err
			}
		case k == len(d.Path):
			w.PointerUp()
		}
	}
	return nil
}

// Widget exposes the mounted widget for observers added before Run.
func (e *Experiment) Widget() *widget.Widget {
	return e.widget
}
