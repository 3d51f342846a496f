// Package physics implements the rigid-rectangle world behind the pills.
//
// A [World] holds axis-aligned dynamic bodies inside four static walls.
// Each fixed step integrates free motion with the configured
// [dynamo.Integrator], applies air drag, then runs a few iterations of
// pairwise and wall contact resolution. Contacts use the axis of least
// penetration, restitution max(eA, eB) and friction sqrt(fA*fB).
//
// Bodies never rotate and gravity is zero unless [WithGravity] says
// otherwise, so dropped pills drift until drag and contacts settle them.
//
//	w := physics.NewWorld(integrators.NewSemiImplicitEuler())
//	_ = w.AddBoundaries(960, 400)
//	id, _ := w.AddBody(dynamo.V(128, 24), dynamo.Size{Width: 160, Height: 48}, dynamo.DefaultMaterial())
//	_ = w.SetVelocity(id, dynamo.V(300, 0))
//	_ = w.Step(physics.BaseDelta)
package physics
