package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in container pixels (or pixels per second).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsValid() bool        { return !isBad(v.X) && !isBad(v.Y) }
func (v Vec2) String() string       { return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y) }
func (v Vec2) Equal(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

func isBad(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }

// Size is the pixel extent of a container or a body.
type Size struct {
	Width, Height float64
}

func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) Half() Vec2 { return Vec2{X: s.Width / 2, Y: s.Height / 2} }

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min, Max Vec2
}

// RectAt builds the rectangle of extent size centred on c.
func RectAt(c Vec2, size Size) Rect {
	h := size.Half()
	return Rect{Min: c.Sub(h), Max: c.Add(h)}
}

func (r Rect) Center() Vec2    { return r.Min.Add(r.Max).Scale(0.5) }
func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && r.Max.X > o.Min.X && r.Min.Y < o.Max.Y && r.Max.Y > o.Min.Y
}

// Material holds the per-body contact and damping constants.
type Material struct {
	Restitution float64 `yaml:"restitution" json:"restitution"`
	Friction    float64 `yaml:"friction" json:"friction"`
	AirDrag     float64 `yaml:"air_drag" json:"air_drag"`
}

// DefaultMaterial matches the pill feel: bouncy walls, light friction, noticeable drag.
func DefaultMaterial() Material {
	return Material{Restitution: 0.7, Friction: 0.1, AirDrag: 0.08}
}

// Body is one simulated rigid rectangle. Position is the centre.
type Body struct {
	ID       int
	Position Vec2
	Velocity Vec2
	Size     Size
	Material Material
	InvMass  float64
}

func (b *Body) Bounds() Rect { return RectAt(b.Position, b.Size) }

// TopLeft is the drawing origin of the body.
func (b *Body) TopLeft() Vec2 { return b.Position.Sub(b.Size.Half()) }

func (b *Body) Speed() float64 { return b.Velocity.Len() }

// Integrator advances one body's free motion (no contacts) by dt seconds.
// damping is the multiplicative velocity factor for the step.
type Integrator interface {
	Integrate(b *Body, accel Vec2, damping, dt float64)
}

// World is the minimal 2D physics surface the widget depends on.
type World interface {
	AddBoundaries(width, height float64) error
	AddBody(position Vec2, size Size, m Material) (int, error)
	Step(dt float64) error
	SetPosition(id int, p Vec2) error
	SetVelocity(id int, v Vec2) error
	Positions() ([]Vec2, error)
	Clear()
}
