package widget

import (
	"errors"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/integrators"
	"github.com/san-kum/techpills/internal/sim"
	"github.com/san-kum/techpills/internal/techstack"
)

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		items []techstack.Item
		opts  []Option
	}{
		{"empty catalog", nil, nil},
		{"bad rows", techstack.Default(), []Option{WithRows([]int{0})}},
		{"bad pill", techstack.Default(), []Option{WithPill(dynamo.Size{})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.items, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMount_InvalidSize(t *testing.T) {
	w, err := New(techstack.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Mount(dynamo.Size{Width: 0, Height: 400}); !errors.Is(err, dynamo.ErrInvalidSize) {
		t.Errorf("Mount = %v, want ErrInvalidSize", err)
	}
	if w.Mounted() {
		t.Error("widget should not be mounted")
	}
	if _, err := w.Frame(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Frame = %v, want ErrNotMounted", err)
	}
}

func TestMount_TwiceResizes(t *testing.T) {
	w, _ := New(techstack.Default())
	if err := w.Mount(dynamo.Size{Width: 960, Height: 400}); err != nil {
		t.Fatal(err)
	}
	first := w.World()
	if err := w.Mount(dynamo.Size{Width: 1200, Height: 400}); err != nil {
		t.Fatal(err)
	}
	if !first.Disposed() || w.Size().Width != 1200 {
		t.Error("second Mount should rebuild for the new size")
	}

	same := w.World()
	if err := w.Resize(dynamo.Size{Width: 1200, Height: 400}); err != nil {
		t.Fatal(err)
	}
	if w.World() != same {
		t.Error("resize to the same size should keep the world")
	}
}

func TestHitTestAndOrigin(t *testing.T) {
	w, _ := New(techstack.Default(), WithOrigin(dynamo.V(100, 200)))
	if err := w.Mount(dynamo.Size{Width: 960, Height: 400}); err != nil {
		t.Fatal(err)
	}

	// first pill spans x 48..208, y 0..48 in container space
	if i, ok := w.HitTest(dynamo.V(50, 10)); !ok || i != 0 {
		t.Errorf("HitTest = %d, %v", i, ok)
	}
	if _, ok := w.HitTest(dynamo.V(5, 390)); ok {
		t.Error("expected a miss in the empty corner")
	}

	if !w.PointerDown(-1, dynamo.V(150, 210)) {
		t.Fatal("page-space pointer down should hit pill 0")
	}
	if i, _ := w.Dragging(); i != 0 {
		t.Errorf("dragging %d, want 0", i)
	}

	if err := w.PointerMove(dynamo.V(400, 300)); err != nil {
		t.Fatal(err)
	}
	p, _ := w.World().Position(0)
	if p != dynamo.V(300, 100) {
		t.Errorf("centre = %v, want (300, 100)", p)
	}
	w.PointerUp()

	if w.PointerDown(-1, dynamo.V(105, 590)) {
		t.Error("pointer down on empty space should not drag")
	}
	if w.PointerDown(99, dynamo.Vec2{}) {
		t.Error("out-of-range index should not drag")
	}
}

func TestOptions(t *testing.T) {
	var m energyCount
	w, err := New(techstack.Minimal(),
		WithPill(dynamo.Size{Width: 100, Height: 30}),
		WithGap(10),
		WithRows([]int{3, 2, 1}),
		WithIntegrator(integrators.NewVerlet()),
		WithGravity(dynamo.V(0, 500)),
		WithWalls(20, 4),
		WithStep(1.0/120),
		WithMetrics(&m),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Mount(dynamo.Size{Width: 400, Height: 300}); err != nil {
		t.Fatal(err)
	}

	if w.Clock().Dt() != 1.0/120 {
		t.Errorf("dt = %v", w.Clock().Dt())
	}
	box := w.World().Box()
	if box.Min != dynamo.V(4, 4) {
		t.Errorf("inset not applied: %v", box)
	}
	pl := w.Placements()
	if pl[0].Width != 100 || pl[0].X != (400-320)/2.0 {
		t.Errorf("first placement = %+v", pl[0])
	}

	for i := 0; i < 10; i++ {
		if _, err := w.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if m.n != 10 {
		t.Errorf("metric observed %d frames", m.n)
	}
	if w.Clock().Metrics()["frames"] != 10 {
		t.Error("metric not reported by the clock")
	}
}

type energyCount struct{ n int }

func (e *energyCount) Name() string      { return "frames" }
func (e *energyCount) Observe(sim.Frame) { e.n++ }
func (e *energyCount) Value() float64    { return float64(e.n) }
func (e *energyCount) Reset()            { e.n = 0 }
