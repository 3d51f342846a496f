package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/input"
	"github.com/san-kum/techpills/internal/layout"
	"github.com/san-kum/techpills/internal/physics"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/sim"
	"github.com/san-kum/techpills/internal/techstack"
)

// ErrNotMounted is returned by frame and resize calls outside Mount/Unmount.
var ErrNotMounted = errors.New("widget: not mounted")

// Widget is one self-contained tech-pill physics toy.
type Widget struct {
	items []techstack.Item
	opts  options
	log   *slog.Logger

	pyramid   layout.Pyramid
	projector *render.Projector
	arbiter   *input.Arbiter

	world *physics.World
	clock *sim.Clock
	size  dynamo.Size

	mounted    bool
	placements []render.Placement
}

func New(items []techstack.Item, opts ...Option) (*Widget, error) {
	if err := techstack.Validate(items); err != nil {
		return nil, err
	}
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	p, err := layout.NewPyramid(o.rows, o.pill, o.gap)
	if err != nil {
		return nil, fmt.Errorf("widget layout: %w", err)
	}

	log := o.logger
	if log == nil {
		log = slog.Default()
	}

	w := &Widget{
		items:     items,
		opts:      o,
		log:       log.With("component", "widget"),
		pyramid:   p,
		projector: render.NewProjector(items, o.pill),
	}
	w.arbiter = input.NewArbiter(nil, w.onDrag)
	w.arbiter.SetOrigin(o.origin)
	return w, nil
}

func (w *Widget) onDrag(active bool) {
	w.log.Debug("drag state changed", "active", active)
	if w.opts.notify != nil {
		w.opts.notify(active)
	}
}

// Mount builds the world for a container of the given size and seeds
// every body from the pyramid layout.
func (w *Widget) Mount(size dynamo.Size) error {
	if w.mounted {
		return w.Resize(size)
	}
	world, err := w.build(size)
	if err != nil {
		return err
	}

	w.world = world
	w.size = size
	w.arbiter.SetTarget(world)

	w.clock = sim.NewClock(world, w.opts.dt, w.opts.observers...)
	for _, m := range w.opts.metrics {
		m.Reset()
		w.clock.AddMetric(m)
	}

	w.mounted = true
	w.reproject()
	w.log.Info("mounted", "width", size.Width, "height", size.Height, "items", len(w.items))
	return nil
}

// Resize cancels any drag, discards the world and reseeds it for the new
// size. A resize to the current size does nothing.
func (w *Widget) Resize(size dynamo.Size) error {
	if !w.mounted {
		return ErrNotMounted
	}
	if size == w.size {
		return nil
	}
	world, err := w.build(size)
	if err != nil {
		return err
	}

	w.arbiter.Cancel()
	w.world.Clear()

	w.world = world
	w.size = size
	w.arbiter.SetTarget(world)
	w.clock.Rebind(world)
	w.reproject()
	w.log.Debug("resized", "width", size.Width, "height", size.Height)
	return nil
}

func (w *Widget) build(size dynamo.Size) (*physics.World, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("container %.0fx%.0f: %w", size.Width, size.Height, dynamo.ErrInvalidSize)
	}
	world := physics.NewWorld(w.opts.integrator,
		physics.WithGravity(w.opts.gravity),
		physics.WithWalls(w.opts.thickness, w.opts.inset),
	)
	if err := world.AddBoundaries(size.Width, size.Height); err != nil {
		return nil, err
	}
	for i, c := range w.pyramid.Centers(size.Width, len(w.items)) {
		if _, err := world.AddBody(c, w.opts.pill, w.opts.material); err != nil {
			return nil, fmt.Errorf("seed %s: %w", w.items[i].Name, err)
		}
	}
	return world, nil
}

// Unmount stops the clock and tears the world down. Safe to call twice.
func (w *Widget) Unmount() {
	if !w.mounted {
		return
	}
	w.clock.Stop()
	w.arbiter.Cancel()
	w.world.Clear()
	w.mounted = false
	w.placements = nil
	w.log.Info("unmounted", "frames", w.clock.Seq())
}

// Frame advances one fixed step and returns the new draw list.
func (w *Widget) Frame() ([]render.Placement, error) {
	if !w.mounted {
		return nil, ErrNotMounted
	}
	f, err := w.clock.Tick()
	if errors.Is(err, sim.ErrStopped) {
		return nil, ErrNotMounted
	}
	if err != nil {
		return nil, err
	}
	w.publish(f)
	return w.placements, nil
}

func (w *Widget) publish(f sim.Frame) {
	w.placements = w.projector.Project(f.Positions, w.draggedIndex())
}

// reproject refreshes placements from the world without stepping it.
func (w *Widget) reproject() {
	pos, err := w.world.Positions()
	if err != nil {
		return
	}
	w.placements = w.projector.Project(pos, w.draggedIndex())
}

func (w *Widget) draggedIndex() int {
	i, _ := w.arbiter.Active()
	return i
}

// Placements is the most recent draw list.
func (w *Widget) Placements() []render.Placement { return w.placements }

// HitTest returns the index of the topmost pill under a container-local point.
func (w *Widget) HitTest(p dynamo.Vec2) (int, bool) {
	pl, ok := render.Top(w.placements, p)
	if !ok {
		return -1, false
	}
	return pl.Index, true
}

// PointerDown grabs item i. A negative i hit-tests the page point p instead.
// It reports whether a drag started.
func (w *Widget) PointerDown(i int, p dynamo.Vec2) bool {
	if !w.mounted {
		return false
	}
	if i < 0 {
		var ok bool
		if i, ok = w.HitTest(w.arbiter.Local(p)); !ok {
			return false
		}
	}
	if i >= len(w.items) {
		return false
	}
	if !w.arbiter.Down(i) {
		return false
	}
	w.reproject()
	return true
}

// PointerMove pins the dragged pill to the page point p.
func (w *Widget) PointerMove(p dynamo.Vec2) error {
	if !w.mounted {
		return nil
	}
	if err := w.arbiter.Move(p); err != nil {
		return err
	}
	if _, ok := w.arbiter.Active(); ok {
		w.reproject()
	}
	return nil
}

func (w *Widget) PointerUp() {
	if w.arbiter.Up() && w.mounted {
		w.reproject()
	}
}

func (w *Widget) PointerLeave() {
	if w.arbiter.Leave() && w.mounted {
		w.reproject()
	}
}

// Dragging returns the dragged index, if any.
func (w *Widget) Dragging() (int, bool) { return w.arbiter.Active() }

// SetOrigin moves the container on the page.
func (w *Widget) SetOrigin(p dynamo.Vec2) { w.arbiter.SetOrigin(p) }

// Run drives frames at interval until ctx ends or the widget unmounts.
// Inbox closures run between frames on the calling goroutine; sink
// receives every draw list.
func (w *Widget) Run(ctx context.Context, interval time.Duration, inbox <-chan func(), sink func([]render.Placement)) error {
	if !w.mounted {
		return ErrNotMounted
	}
	clock := w.clock
	return clock.Run(ctx, interval, inbox, func(f sim.Frame) {
		w.publish(f)
		if sink != nil {
			sink(w.placements)
		}
	})
}

func (w *Widget) Mounted() bool           { return w.mounted }
func (w *Widget) Size() dynamo.Size       { return w.size }
func (w *Widget) Items() []techstack.Item { return w.items }
func (w *Widget) Pill() dynamo.Size       { return w.opts.pill }
func (w *Widget) Layout() layout.Pyramid  { return w.pyramid }
func (w *Widget) World() *physics.World   { return w.world }
func (w *Widget) Clock() *sim.Clock       { return w.clock }
