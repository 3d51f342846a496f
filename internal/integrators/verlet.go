package integrators

import "github.com/san-kum/techpills/internal/dynamo"

// Verlet is velocity Verlet for constant acceleration, with drag applied to
// the end-of-step velocity.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Integrate(b *dynamo.Body, accel dynamo.Vec2, damping, dt float64) {
	b.Position = b.Position.
		Add(b.Velocity.Scale(dt)).
		Add(accel.Scale(0.5 * dt * dt))
	b.Velocity = b.Velocity.Add(accel.Scale(dt)).Scale(damping)
}
