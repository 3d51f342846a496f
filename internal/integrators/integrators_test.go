package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
)

func TestFreeFlight(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
	}{
		{"semi-implicit", NewSemiImplicitEuler()},
		{"euler", NewEuler()},
		{"verlet", NewVerlet()},
		{"rk4", NewRK4()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &dynamo.Body{Velocity: dynamo.V(60, -30)}
			for i := 0; i < 60; i++ {
				tt.integ.Integrate(b, dynamo.Vec2{}, 1, 1.0/60)
			}
			if !b.Position.Equal(dynamo.V(60, -30), 1e-9) {
				t.Errorf("position after 1s = %v, want (60, -30)", b.Position)
			}
			if b.Velocity != dynamo.V(60, -30) {
				t.Errorf("velocity changed without drag: %v", b.Velocity)
			}
		})
	}
}

func TestDragDecaysSpeed(t *testing.T) {
	for _, integ := range []dynamo.Integrator{NewSemiImplicitEuler(), NewEuler(), NewVerlet(), NewRK4()} {
		b := &dynamo.Body{Velocity: dynamo.V(300, 120)}
		prev := b.Speed()
		for i := 0; i < 600; i++ {
			integ.Integrate(b, dynamo.Vec2{}, 0.92, 1.0/60)
			if s := b.Speed(); s > prev {
				t.Fatalf("%T: speed grew at step %d: %.6f > %.6f", integ, i, s, prev)
			}
			prev = b.Speed()
		}
		if prev > 1e-6 {
			t.Errorf("%T: speed after 600 steps = %g", integ, prev)
		}
	}
}

func TestConstantAcceleration(t *testing.T) {
	// x = a t^2 / 2; verlet is exact, the Euler pair bracket it.
	a := dynamo.V(0, 100)
	dt := 0.01
	steps := 100

	exact := 0.5 * a.Y * math.Pow(float64(steps)*dt, 2)

	verlet := &dynamo.Body{}
	semi := &dynamo.Body{}
	explicit := &dynamo.Body{}
	for i := 0; i < steps; i++ {
		NewVerlet().Integrate(verlet, a, 1, dt)
		NewSemiImplicitEuler().Integrate(semi, a, 1, dt)
		NewEuler().Integrate(explicit, a, 1, dt)
	}

	if math.Abs(verlet.Position.Y-exact) > 1e-9 {
		t.Errorf("verlet y = %.6f, want %.6f", verlet.Position.Y, exact)
	}
	if !(explicit.Position.Y < exact && exact < semi.Position.Y) {
		t.Errorf("expected explicit %.4f < exact %.4f < semi %.4f", explicit.Position.Y, exact, semi.Position.Y)
	}
}
