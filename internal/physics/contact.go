package physics

import (
	"math"

	"github.com/san-kum/techpills/internal/dynamo"
)

// resolvePair handles an AABB contact between two dynamic bodies.
// The normal is the axis of least overlap and points from a to b.
func resolvePair(a, b *dynamo.Body) bool {
	ra, rb := a.Bounds(), b.Bounds()
	ox := math.Min(ra.Max.X, rb.Max.X) - math.Max(ra.Min.X, rb.Min.X)
	oy := math.Min(ra.Max.Y, rb.Max.Y) - math.Max(ra.Min.Y, rb.Min.Y)
	if ox <= 0 || oy <= 0 {
		return false
	}

	var normal dynamo.Vec2
	var penetration float64
	if ox < oy {
		penetration = ox
		normal = dynamo.V(sign(b.Position.X-a.Position.X), 0)
	} else {
		penetration = oy
		normal = dynamo.V(0, sign(b.Position.Y-a.Position.Y))
	}

	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return true
	}

	rel := b.Velocity.Sub(a.Velocity)
	vn := rel.Dot(normal)
	if vn < 0 {
		e := math.Max(a.Material.Restitution, b.Material.Restitution)
		j := -(1 + e) * vn / invSum
		impulse := normal.Scale(j)
		a.Velocity = a.Velocity.Sub(impulse.Scale(a.InvMass))
		b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))

		mu := math.Sqrt(a.Material.Friction * b.Material.Friction)
		applyPairFriction(a, b, normal, j, mu)
	}

	if penetration > slop {
		corr := normal.Scale((penetration - slop) / invSum * pairCorrection)
		a.Position = a.Position.Sub(corr.Scale(a.InvMass))
		b.Position = b.Position.Add(corr.Scale(b.InvMass))
	}
	return true
}

func applyPairFriction(a, b *dynamo.Body, normal dynamo.Vec2, jn, mu float64) {
	rel := b.Velocity.Sub(a.Velocity)
	tangent := rel.Sub(normal.Scale(rel.Dot(normal)))
	if tangent.Dot(tangent) < 1e-12 {
		return
	}
	tangent = tangent.Scale(1 / tangent.Len())

	jt := -rel.Dot(tangent) / (a.InvMass + b.InvMass)
	limit := mu * math.Abs(jn)
	jt = math.Max(-limit, math.Min(limit, jt))

	impulse := tangent.Scale(jt)
	a.Velocity = a.Velocity.Sub(impulse.Scale(a.InvMass))
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))
}

// resolveWall bounces b off a static boundary and pushes it back inside.
func resolveWall(b *dynamo.Body, w Boundary) bool {
	pen := w.penetration(b)
	if pen <= 0 {
		return false
	}

	vn := b.Velocity.Dot(w.Normal)
	if vn < 0 {
		e := math.Max(b.Material.Restitution, wallMaterial.Restitution)
		jn := -(1 + e) * vn
		b.Velocity = b.Velocity.Add(w.Normal.Scale(jn))

		tangent := b.Velocity.Sub(w.Normal.Scale(b.Velocity.Dot(w.Normal)))
		if vt := tangent.Len(); vt > 1e-9 {
			mu := math.Sqrt(b.Material.Friction * wallMaterial.Friction)
			jt := math.Min(vt, mu*jn)
			b.Velocity = b.Velocity.Sub(tangent.Scale(jt / vt))
		}
	}

	if pen > slop {
		b.Position = b.Position.Add(w.Normal.Scale((pen - slop) * wallCorrection))
	}
	return true
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
