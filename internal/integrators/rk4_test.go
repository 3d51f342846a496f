package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
)

func TestRK4ExponentialDecay(t *testing.T) {
	// With no acceleration v(t) = v0 * damping^(t/dt) exactly.
	integ := NewRK4()
	b := &dynamo.Body{Velocity: dynamo.V(100, 0)}
	dt := 1.0 / 60
	damping := 0.92
	steps := 60

	for i := 0; i < steps; i++ {
		integ.Integrate(b, dynamo.Vec2{}, damping, dt)
	}

	want := 100 * math.Pow(damping, float64(steps))
	if math.Abs(b.Velocity.X-want) > 1e-4 {
		t.Errorf("velocity = %.6f, want %.6f", b.Velocity.X, want)
	}

	k := -math.Log(damping) / dt
	wantX := 100 / k * (1 - math.Exp(-k*float64(steps)*dt))
	if math.Abs(b.Position.X-wantX) > 1e-3 {
		t.Errorf("position = %.6f, want %.6f", b.Position.X, wantX)
	}
}

func TestRK4ZeroDamping(t *testing.T) {
	b := &dynamo.Body{Velocity: dynamo.V(5, 5)}
	NewRK4().Integrate(b, dynamo.V(0, 100), 0, 1.0/60)
	if b.Velocity != (dynamo.Vec2{}) || b.Position != (dynamo.Vec2{}) {
		t.Errorf("body moved with zero damping: %+v", b)
	}
}
