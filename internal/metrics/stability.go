package metrics

import (
	"math"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/sim"
)

// Containment is the fraction of frames in which every body's bounds
// stay inside box, allowing tolerance pixels of overshoot.
type Containment struct {
	name       string
	box        dynamo.Rect
	tolerance  float64
	violations int
	samples    int
	worst      float64
}

func NewContainment(box dynamo.Rect, tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		box:       box,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

// SetBox follows a resized container.
func (c *Containment) SetBox(box dynamo.Rect) {
	c.box = box
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	out := 0.0
	for _, b := range f.Bodies {
		out = math.Max(out, overshoot(b.Bounds(), c.box))
	}
	c.worst = math.Max(c.worst, out)
	if out > c.tolerance {
		c.violations++
	}
}

func overshoot(r, box dynamo.Rect) float64 {
	return math.Max(
		math.Max(box.Min.X-r.Min.X, box.Min.Y-r.Min.Y),
		math.Max(r.Max.X-box.Max.X, r.Max.Y-box.Max.Y),
	)
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

// Worst is the largest overshoot seen, in pixels.
func (c *Containment) Worst() float64 {
	return c.worst
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
	c.worst = 0
}
