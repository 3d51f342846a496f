package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/techpills/internal/dynamo"
)

const (
	// BaseDelta is the step length the material drag constants are tuned for.
	BaseDelta = 1.0 / 60

	DefaultWallThickness = 40.0
	DefaultIterations    = 4

	pairCorrection = 0.4
	wallCorrection = 0.8
	slop           = 0.01
)

// wallMaterial is what a pill hits at the container edge.
var wallMaterial = dynamo.Material{Restitution: 0, Friction: 0.1}

// Boundary is one static wall. Contacts are resolved against the half-plane
// beyond its inner face, so a body cannot tunnel through a thin wall.
type Boundary struct {
	Name   string
	Rect   dynamo.Rect
	Normal dynamo.Vec2 // points into the container
	Anchor dynamo.Vec2 // any point on the inner face
}

// penetration is how far b reaches past the inner face; <= 0 means no contact.
func (w Boundary) penetration(b *dynamo.Body) float64 {
	h := b.Size.Half()
	support := b.Position.Sub(dynamo.V(h.X*w.Normal.X, h.Y*w.Normal.Y))
	return w.Anchor.Sub(support).Dot(w.Normal)
}

// World is a zero-gravity box of rectangles with wall bounce and air drag.
type World struct {
	integrator dynamo.Integrator
	gravity    dynamo.Vec2
	thickness  float64
	inset      float64
	iterations int

	bodies   []*dynamo.Body
	walls    []Boundary
	box      dynamo.Rect
	disposed bool

	steps    uint64
	contacts int
}

type Option func(*World)

// WithGravity sets a constant acceleration; the widget runs with none.
func WithGravity(g dynamo.Vec2) Option { return func(w *World) { w.gravity = g } }

// WithWalls sets wall thickness and the inset of their inner faces from the container edge.
func WithWalls(thickness, inset float64) Option {
	return func(w *World) {
		if thickness > 0 {
			w.thickness = thickness
		}
		if inset >= 0 {
			w.inset = inset
		}
	}
}

func WithIterations(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.iterations = n
		}
	}
}

func NewWorld(integrator dynamo.Integrator, opts ...Option) *World {
	w := &World{
		integrator: integrator,
		thickness:  DefaultWallThickness,
		iterations: DefaultIterations,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddBoundaries replaces the walls with a closed box of size width x height.
func (w *World) AddBoundaries(width, height float64) error {
	if w.disposed {
		return dynamo.ErrDisposed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("boundaries %.0fx%.0f: %w", width, height, dynamo.ErrInvalidSize)
	}

	in, th := w.inset, w.thickness
	w.box = dynamo.Rect{Min: dynamo.V(in, in), Max: dynamo.V(width-in, height-in)}
	w.walls = []Boundary{
		{
			Name:   "top",
			Rect:   dynamo.Rect{Min: dynamo.V(0, in-th), Max: dynamo.V(width, in)},
			Normal: dynamo.V(0, 1),
			Anchor: dynamo.V(0, in),
		},
		{
			Name:   "bottom",
			Rect:   dynamo.Rect{Min: dynamo.V(0, height-in), Max: dynamo.V(width, height-in+th)},
			Normal: dynamo.V(0, -1),
			Anchor: dynamo.V(0, height-in),
		},
		{
			Name:   "left",
			Rect:   dynamo.Rect{Min: dynamo.V(in-th, 0), Max: dynamo.V(in, height)},
			Normal: dynamo.V(1, 0),
			Anchor: dynamo.V(in, 0),
		},
		{
			Name:   "right",
			Rect:   dynamo.Rect{Min: dynamo.V(width-in, 0), Max: dynamo.V(width-in+th, height)},
			Normal: dynamo.V(-1, 0),
			Anchor: dynamo.V(width-in, 0),
		},
	}
	return nil
}

// AddBody inserts a dynamic rectangle centred on position and returns its id.
func (w *World) AddBody(position dynamo.Vec2, size dynamo.Size, m dynamo.Material) (int, error) {
	if w.disposed {
		return 0, dynamo.ErrDisposed
	}
	if !size.Valid() {
		return 0, fmt.Errorf("body: %w", dynamo.ErrInvalidSize)
	}
	if !position.IsValid() {
		return 0, fmt.Errorf("body: %w", dynamo.ErrInvalidState)
	}
	id := len(w.bodies)
	w.bodies = append(w.bodies, &dynamo.Body{
		ID:       id,
		Position: position,
		Size:     size,
		Material: m,
		InvMass:  1,
	})
	return id, nil
}

func (w *World) body(id int) (*dynamo.Body, error) {
	if w.disposed {
		return nil, dynamo.ErrDisposed
	}
	if id < 0 || id >= len(w.bodies) {
		return nil, &dynamo.BodyError{ID: id, Wrapped: dynamo.ErrUnknownBody}
	}
	return w.bodies[id], nil
}

// Step advances every body by dt seconds: free motion first, then contacts.
func (w *World) Step(dt float64) error {
	if w.disposed {
		return dynamo.ErrDisposed
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}

	for _, b := range w.bodies {
		w.integrator.Integrate(b, w.gravity, damping(b.Material.AirDrag, dt), dt)
	}

	w.contacts = 0
	for it := 0; it < w.iterations; it++ {
		for i := 0; i < len(w.bodies); i++ {
			for j := i + 1; j < len(w.bodies); j++ {
				if resolvePair(w.bodies[i], w.bodies[j]) && it == 0 {
					w.contacts++
				}
			}
		}
		for _, b := range w.bodies {
			for _, wall := range w.walls {
				if resolveWall(b, wall) && it == 0 {
					w.contacts++
				}
			}
		}
	}

	for _, b := range w.bodies {
		if !b.Position.IsValid() || !b.Velocity.IsValid() {
			return &dynamo.BodyError{ID: b.ID, Wrapped: dynamo.ErrInvalidState}
		}
	}
	w.steps++
	return nil
}

// damping is the per-step velocity factor for an air drag tuned at BaseDelta.
func damping(airDrag, dt float64) float64 {
	f := 1 - airDrag*dt/BaseDelta
	return math.Max(0, math.Min(1, f))
}

func (w *World) SetPosition(id int, p dynamo.Vec2) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	if !p.IsValid() {
		return &dynamo.BodyError{ID: id, Wrapped: dynamo.ErrInvalidState}
	}
	b.Position = p
	return nil
}

func (w *World) SetVelocity(id int, v dynamo.Vec2) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	if !v.IsValid() {
		return &dynamo.BodyError{ID: id, Wrapped: dynamo.ErrInvalidState}
	}
	b.Velocity = v
	return nil
}

// Position returns the centre of a body.
func (w *World) Position(id int) (dynamo.Vec2, error) {
	b, err := w.body(id)
	if err != nil {
		return dynamo.Vec2{}, err
	}
	return b.Position, nil
}

func (w *World) Velocity(id int) (dynamo.Vec2, error) {
	b, err := w.body(id)
	if err != nil {
		return dynamo.Vec2{}, err
	}
	return b.Velocity, nil
}

// Positions returns a fresh snapshot of every body's top-left corner, by id.
func (w *World) Positions() ([]dynamo.Vec2, error) {
	if w.disposed {
		return nil, dynamo.ErrDisposed
	}
	out := make([]dynamo.Vec2, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.TopLeft()
	}
	return out, nil
}

// Bodies returns copies of all bodies.
func (w *World) Bodies() []dynamo.Body {
	out := make([]dynamo.Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = *b
	}
	return out
}

func (w *World) Len() int { return len(w.bodies) }

// Box is the region enclosed by the walls' inner faces.
func (w *World) Box() dynamo.Rect { return w.box }

func (w *World) Boundaries() []Boundary { return w.walls }

func (w *World) Contacts() int { return w.contacts }

func (w *World) Steps() uint64 { return w.steps }

func (w *World) Disposed() bool { return w.disposed }

// Clear drops all bodies and walls; the world is unusable afterwards.
func (w *World) Clear() {
	w.bodies = nil
	w.walls = nil
	w.disposed = true
}
