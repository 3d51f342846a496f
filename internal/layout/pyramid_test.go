package layout

import (
	"math"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
)

func pillPyramid(t *testing.T) Pyramid {
	t.Helper()
	p, err := NewPyramid(DefaultRows, dynamo.Size{Width: 160, Height: 48}, 16)
	if err != nil {
		t.Fatalf("NewPyramid: %v", err)
	}
	return p
}

func TestSeed_FirstRowOffset(t *testing.T) {
	p := pillPyramid(t)

	tests := []struct {
		width float64
		want  float64
	}{
		{800, (800 - (5*160 + 4*16)) / 2.0},
		{960, 48},
		{1200, 168},
	}

	for _, tt := range tests {
		pos := p.Seed(tt.width, 15)
		if pos[0].X != tt.want || pos[0].Y != 0 {
			t.Errorf("W=%.0f: first item at %v, want (%.0f, 0)", tt.width, pos[0], tt.want)
		}
	}
}

func TestSeed_CountAndCentering(t *testing.T) {
	p := pillPyramid(t)

	for _, w := range []float64{1, 320, 799, 800, 1024, 2560} {
		pos := p.Seed(w, 15)
		if len(pos) != 15 {
			t.Fatalf("W=%.0f: expected 15 positions, got %d", w, len(pos))
		}

		for r, row := range p.Partition(15) {
			first, last := pos[row[0]], pos[row[len(row)-1]]
			left := first.X
			right := w - (last.X + p.Item.Width)
			if math.Abs(left-right) > 1e-9 {
				t.Errorf("W=%.0f row %d not centred: left %.2f right %.2f", w, r, left, right)
			}
			for k := 1; k < len(row); k++ {
				prev, cur := pos[row[k-1]], pos[row[k]]
				if cur.X < prev.X+p.Item.Width {
					t.Errorf("W=%.0f row %d: items %d and %d overlap", w, r, row[k-1], row[k])
				}
				if cur.Y != prev.Y {
					t.Errorf("W=%.0f row %d: items not on one line", w, r)
				}
			}
		}
	}
}

func TestSeed_RowSpacing(t *testing.T) {
	p := pillPyramid(t)
	pos := p.Seed(800, 15)

	wantY := []float64{0, 64, 128, 192, 256}
	firsts := []int{0, 5, 9, 12, 14}
	for i, idx := range firsts {
		if pos[idx].Y != wantY[i] {
			t.Errorf("row %d y = %.0f, want %.0f", i, pos[idx].Y, wantY[i])
		}
	}
}

func TestSeed_Deterministic(t *testing.T) {
	p := pillPyramid(t)
	a := p.Seed(777, 15)
	b := p.Seed(777, 15)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPartition_Overflow(t *testing.T) {
	p, err := NewPyramid([]int{3, 2}, dynamo.Size{Width: 10, Height: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}

	rows := p.Partition(8)
	want := []int{3, 2, 2, 1}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		if len(rows[i]) != want[i] {
			t.Errorf("row %d has %d items, want %d", i, len(rows[i]), want[i])
		}
	}

	if got := len(p.Partition(2)); got != 1 {
		t.Errorf("expected 1 partial row, got %d", got)
	}
}

func TestCenters(t *testing.T) {
	p := pillPyramid(t)
	tl := p.Seed(960, 15)
	c := p.Centers(960, 15)
	for i := range tl {
		if c[i] != tl[i].Add(dynamo.V(80, 24)) {
			t.Errorf("center %d = %v, top-left %v", i, c[i], tl[i])
		}
	}
}

func TestHeight(t *testing.T) {
	p := pillPyramid(t)
	if h := p.Height(15); h != 5*48+4*16 {
		t.Errorf("Height = %.0f", h)
	}
	if h := p.Height(0); h != 0 {
		t.Errorf("Height(0) = %.0f", h)
	}
}

func TestNewPyramid_Invalid(t *testing.T) {
	item := dynamo.Size{Width: 160, Height: 48}
	tests := []struct {
		name string
		rows []int
		item dynamo.Size
		gap  float64
	}{
		{"no rows", nil, item, 16},
		{"empty row", []int{3, 0}, item, 16},
		{"zero item", []int{1}, dynamo.Size{}, 16},
		{"negative gap", []int{1}, item, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPyramid(tt.rows, tt.item, tt.gap); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
