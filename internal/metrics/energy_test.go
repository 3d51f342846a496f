package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/sim"
)

var pill = dynamo.Size{Width: 160, Height: 48}

func frame(t float64, bodies ...dynamo.Body) sim.Frame {
	return sim.Frame{Time: t, Bodies: bodies}
}

func moving(x, y, vx, vy float64) dynamo.Body {
	return dynamo.Body{Position: dynamo.V(x, y), Velocity: dynamo.V(vx, vy), Size: pill, InvMass: 1}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy(3)

	m.Observe(frame(0, moving(0, 0, 3, 4), moving(0, 0, 0, 0)))
	if math.Abs(m.Value()-12.5) > 1e-9 {
		t.Errorf("energy = %v, want 12.5", m.Value())
	}

	m.Observe(frame(0, moving(0, 0, 1, 0)))
	m.Observe(frame(0, moving(0, 0, 2, 0)))
	m.Observe(frame(0, moving(0, 0, 0, 0)))

	h := m.History()
	if len(h) != 3 || h[0] != 0.5 || h[2] != 0 {
		t.Errorf("history = %v", h)
	}
	if m.Peak() != 12.5 {
		t.Errorf("peak = %v", m.Peak())
	}

	m.Reset()
	if m.Value() != 0 || len(m.History()) != 0 || m.Peak() != 0 {
		t.Error("reset did not clear state")
	}
}

func TestTotal_IgnoresStatic(t *testing.T) {
	b := moving(0, 0, 100, 0)
	b.InvMass = 0
	if Total([]dynamo.Body{b}) != 0 {
		t.Error("static body should contribute no energy")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	for _, v := range []float64{10, 8, 9, 3} {
		m.Observe(frame(0, moving(0, 0, v, 0)))
	}
	want := 0.5*81 - 0.5*64
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("max gain = %v, want %v", m.Value(), want)
	}
}

func TestPeakAndSettle(t *testing.T) {
	p := NewPeakSpeed()
	s := NewSettleTime(1)

	frames := []sim.Frame{
		frame(0.1, moving(0, 0, 3, 4), moving(0, 0, 1, 0)),
		frame(0.2, moving(0, 0, 0.5, 0), moving(0, 0, 2, 0)),
		frame(0.3, moving(0, 0, 0.5, 0), moving(0, 0, 0.2, 0)),
		frame(0.4, moving(0, 0, 9, 0)),
	}
	for _, f := range frames {
		p.Observe(f)
		s.Observe(f)
	}

	if p.Value() != 9 {
		t.Errorf("peak speed = %v", p.Value())
	}
	if s.Value() != 0.3 {
		t.Errorf("settle time = %v, want 0.3", s.Value())
	}

	s.Reset()
	if s.Value() != -1 {
		t.Errorf("settle time after reset = %v", s.Value())
	}
}

func TestContainment(t *testing.T) {
	box := dynamo.Rect{Max: dynamo.V(800, 400)}
	c := NewContainment(box, 1)

	c.Observe(frame(0, moving(400, 200, 0, 0)))
	c.Observe(frame(0, moving(75, 200, 0, 0)))
	c.Observe(frame(0, moving(79.5, 200, 0, 0)))

	if got := c.Value(); math.Abs(got-2.0/3) > 1e-9 {
		t.Errorf("containment = %v, want 2/3", got)
	}
	if c.Worst() != 5 {
		t.Errorf("worst = %v, want 5", c.Worst())
	}

	c.Reset()
	if c.Value() != 1 {
		t.Error("empty containment should be 1")
	}
}
