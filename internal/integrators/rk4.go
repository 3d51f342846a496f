package integrators

import (
	"math"

	"github.com/san-kum/techpills/internal/dynamo"
)

// RK4 integrates x' = v, v' = a - k v with classic fourth-order Runge-Kutta,
// where k is the continuous drag rate matching the per-step damping factor.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

type kinematic struct{ x, v dynamo.Vec2 }

func (r *RK4) Integrate(b *dynamo.Body, accel dynamo.Vec2, damping, dt float64) {
	if damping <= 0 {
		b.Velocity = dynamo.Vec2{}
		return
	}
	k := -math.Log(damping) / dt

	derive := func(s kinematic) kinematic {
		return kinematic{x: s.v, v: accel.Sub(s.v.Scale(k))}
	}
	add := func(s, d kinematic, h float64) kinematic {
		return kinematic{x: s.x.Add(d.x.Scale(h)), v: s.v.Add(d.v.Scale(h))}
	}

	s := kinematic{x: b.Position, v: b.Velocity}
	k1 := derive(s)
	k2 := derive(add(s, k1, dt/2))
	k3 := derive(add(s, k2, dt/2))
	k4 := derive(add(s, k3, dt))

	b.Position = s.x.Add(k1.x.Add(k2.x.Scale(2)).Add(k3.x.Scale(2)).Add(k4.x).Scale(dt / 6))
	b.Velocity = s.v.Add(k1.v.Add(k2.v.Scale(2)).Add(k3.v.Scale(2)).Add(k4.v).Scale(dt / 6))
}
