package widget

import (
	"log/slog"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/input"
	"github.com/san-kum/techpills/internal/integrators"
	"github.com/san-kum/techpills/internal/layout"
	"github.com/san-kum/techpills/internal/physics"
	"github.com/san-kum/techpills/internal/sim"
)

// Defaults of the original pill layout.
var (
	DefaultPill = dynamo.Size{Width: 160, Height: 48}
	DefaultGap  = 16.0
)

type options struct {
	pill       dynamo.Size
	gap        float64
	rows       []int
	material   dynamo.Material
	integrator dynamo.Integrator
	gravity    dynamo.Vec2
	thickness  float64
	inset      float64
	dt         float64
	origin     dynamo.Vec2

	notify    input.Notifier
	logger    *slog.Logger
	metrics   []sim.Metric
	observers []sim.Observer
}

func defaults() options {
	return options{
		pill:       DefaultPill,
		gap:        DefaultGap,
		rows:       layout.DefaultRows,
		material:   dynamo.DefaultMaterial(),
		integrator: integrators.NewSemiImplicitEuler(),
		thickness:  physics.DefaultWallThickness,
		dt:         sim.FixedDelta,
	}
}

type Option func(*options)

// WithDragNotifier registers a callback for drag start (true) and end (false).
func WithDragNotifier(fn func(active bool)) Option {
	return func(o *options) { o.notify = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithPill(size dynamo.Size) Option {
	return func(o *options) { o.pill = size }
}

func WithGap(gap float64) Option {
	return func(o *options) { o.gap = gap }
}

func WithRows(rows []int) Option {
	return func(o *options) { o.rows = rows }
}

func WithMaterial(m dynamo.Material) Option {
	return func(o *options) { o.material = m }
}

func WithIntegrator(i dynamo.Integrator) Option {
	return func(o *options) {
		if i != nil {
			o.integrator = i
		}
	}
}

func WithGravity(g dynamo.Vec2) Option {
	return func(o *options) { o.gravity = g }
}

// WithWalls sets boundary thickness and inset margin.
func WithWalls(thickness, inset float64) Option {
	return func(o *options) {
		o.thickness = thickness
		o.inset = inset
	}
}

// WithStep overrides the logical step per frame.
func WithStep(dt float64) Option {
	return func(o *options) { o.dt = dt }
}

// WithOrigin sets the page position of the container's top-left corner.
func WithOrigin(p dynamo.Vec2) Option {
	return func(o *options) { o.origin = p }
}

func WithMetrics(m ...sim.Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, m...) }
}

func WithObservers(obs ...sim.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs...) }
}
