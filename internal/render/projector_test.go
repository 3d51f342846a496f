package render

import (
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/techstack"
)

var pill = dynamo.Size{Width: 160, Height: 48}

func positions(n int) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, n)
	for i := range out {
		out[i] = dynamo.V(float64(i)*10, float64(i)*5)
	}
	return out
}

func TestProject_NoDrag(t *testing.T) {
	items := techstack.Default()
	p := NewProjector(items, pill)
	pos := positions(len(items))

	out := p.Project(pos, -1)
	if len(out) != len(items) {
		t.Fatalf("got %d placements, want %d", len(out), len(items))
	}
	for i, pl := range out {
		if pl.Index != i || pl.ID != items[i].Name {
			t.Errorf("placement %d = %+v", i, pl)
		}
		if pl.X != pos[i].X || pl.Y != pos[i].Y {
			t.Errorf("placement %d moved: (%v,%v) vs %v", i, pl.X, pl.Y, pos[i])
		}
		if pl.Z != BaseZ || pl.Transition != TransitionShadow || pl.Elevation != RestingElevation {
			t.Errorf("placement %d styling = %+v", i, pl)
		}
	}
}

func TestProject_DraggedOnTop(t *testing.T) {
	items := techstack.Default()
	p := NewProjector(items, pill)

	out := p.Project(positions(len(items)), 3)
	last := out[len(out)-1]
	if last.Index != 3 || !last.Dragging || last.Z != DraggedZ {
		t.Fatalf("last placement = %+v, want dragged index 3", last)
	}
	if last.Transition != TransitionNone || last.Elevation != DraggedElevation {
		t.Errorf("dragged styling = %+v", last)
	}

	prev := -1
	for _, pl := range out[:len(out)-1] {
		if pl.Index <= prev {
			t.Fatalf("resting order not stable: %d after %d", pl.Index, prev)
		}
		prev = pl.Index
	}
}

func TestProject_ExactPositions(t *testing.T) {
	items := techstack.Minimal()
	p := NewProjector(items, pill)
	pos := []dynamo.Vec2{dynamo.V(-300.125, 9999)}

	out := p.Project(pos, 0)
	if len(out) != 1 || out[0].X != -300.125 || out[0].Y != 9999 {
		t.Errorf("projector must not clamp or smooth: %+v", out)
	}
}

func TestTop(t *testing.T) {
	items := techstack.Minimal()
	p := NewProjector(items, pill)
	pos := []dynamo.Vec2{dynamo.V(0, 0), dynamo.V(100, 0), dynamo.V(500, 500)}

	out := p.Project(pos, -1)
	got, ok := Top(out, dynamo.V(120, 10))
	if !ok || got.Index != 1 {
		t.Errorf("Top = %+v, %v; want index 1", got, ok)
	}

	out = p.Project(pos, 0)
	got, _ = Top(out, dynamo.V(120, 10))
	if got.Index != 0 {
		t.Errorf("dragged pill should win hit test, got %d", got.Index)
	}

	if _, ok := Top(out, dynamo.V(400, 200)); ok {
		t.Error("expected miss")
	}
}
