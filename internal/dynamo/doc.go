// Package dynamo provides the core primitives of the tech-pill simulation.
//
// The package defines the value types and the narrow physics surface every
// other package is written against:
//
//   - [Vec2], [Size], [Rect]: container-space geometry in pixels
//   - [Material]: restitution, friction and air drag of a body
//   - [Body]: one simulated rectangle (centre position, velocity, extent)
//   - [Integrator]: free-motion stepping scheme
//   - [World]: boundaries, bodies, fixed-step advance and direct overrides
//
// # Example
//
//	w := physics.NewWorld(integrators.NewSemiImplicitEuler())
//	_ = w.AddBoundaries(800, 400)
//	id, _ := w.AddBody(dynamo.V(100, 50), dynamo.Size{Width: 160, Height: 48}, dynamo.DefaultMaterial())
//	_ = w.Step(1.0 / 60)
//
// # Thread Safety
//
// World implementations are NOT thread-safe. The widget drives them from a
// single goroutine; see package sim for the loop that serialises pointer
// events with frame steps.
package dynamo
