package integrators

import "github.com/san-kum/techpills/internal/dynamo"

// SemiImplicitEuler updates velocity first, then moves with the new velocity.
// This is the world's default scheme.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Integrate(b *dynamo.Body, accel dynamo.Vec2, damping, dt float64) {
	b.Velocity = b.Velocity.Scale(damping).Add(accel.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// Euler moves with the old velocity, then updates it.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(b *dynamo.Body, accel dynamo.Vec2, damping, dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Velocity = b.Velocity.Scale(damping).Add(accel.Scale(dt))
}
