package render

import (
	"sort"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/techstack"
)

const (
	BaseZ    = 10
	DraggedZ = 20

	RestingElevation = 2
	DraggedElevation = 8
)

// Transition names the visual easing a host should apply. Position is
// never eased; only shadow and elevation are.
type Transition string

const (
	TransitionNone   Transition = "none"
	TransitionShadow Transition = "shadow"
)

// Placement is one pill as the host should draw it.
type Placement struct {
	Index      int                `json:"index"`
	ID         string             `json:"id"`
	Category   techstack.Category `json:"category"`
	Badge      string             `json:"badge,omitempty"`
	X          float64            `json:"x"`
	Y          float64            `json:"y"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Z          int                `json:"z"`
	Dragging   bool               `json:"dragging"`
	Transition Transition         `json:"transition"`
	Elevation  int                `json:"elevation"`
}

// Rect is the placement's on-screen rectangle.
func (p Placement) Rect() dynamo.Rect {
	return dynamo.Rect{Min: dynamo.V(p.X, p.Y), Max: dynamo.V(p.X+p.Width, p.Y+p.Height)}
}

// Projector maps a position snapshot to placements.
type Projector struct {
	items []techstack.Item
	size  dynamo.Size
}

func NewProjector(items []techstack.Item, pill dynamo.Size) *Projector {
	return &Projector{items: items, size: pill}
}

// Project returns one placement per position, in draw order: ascending z,
// otherwise by index. dragged is the index under drag or -1.
// Positions beyond the item list are dropped.
func (p *Projector) Project(positions []dynamo.Vec2, dragged int) []Placement {
	n := len(positions)
	if n > len(p.items) {
		n = len(p.items)
	}

	out := make([]Placement, n)
	for i := 0; i < n; i++ {
		it := p.items[i]
		pl := Placement{
			Index:      i,
			ID:         it.Name,
			Category:   it.Category,
			Badge:      it.Badge,
			X:          positions[i].X,
			Y:          positions[i].Y,
			Width:      p.size.Width,
			Height:     p.size.Height,
			Z:          BaseZ,
			Transition: TransitionShadow,
			Elevation:  RestingElevation,
		}
		if i == dragged {
			pl.Z = DraggedZ
			pl.Dragging = true
			pl.Transition = TransitionNone
			pl.Elevation = DraggedElevation
		}
		out[i] = pl
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Z < out[b].Z })
	return out
}

// Top returns the topmost placement containing pt, scanning from the
// last drawn. ok is false when no pill is under pt.
func Top(placements []Placement, pt dynamo.Vec2) (Placement, bool) {
	for i := len(placements) - 1; i >= 0; i-- {
		if placements[i].Rect().Contains(pt) {
			return placements[i], true
		}
	}
	return Placement{}, false
}
