// Package layout computes the deterministic starting positions of the pills.
package layout

import (
	"fmt"

	"github.com/san-kum/techpills/internal/dynamo"
)

// DefaultRows is the 5/4/3/2/1 pyramid used for the fifteen-item stack.
var DefaultRows = []int{5, 4, 3, 2, 1}

// Pyramid partitions items into fixed-size rows, each centred in the container.
type Pyramid struct {
	Rows []int
	Item dynamo.Size
	Gap  float64
}

func NewPyramid(rows []int, item dynamo.Size, gap float64) (Pyramid, error) {
	if len(rows) == 0 {
		return Pyramid{}, fmt.Errorf("layout: no rows")
	}
	for i, n := range rows {
		if n <= 0 {
			return Pyramid{}, fmt.Errorf("layout: row %d has %d items", i, n)
		}
	}
	if !item.Valid() {
		return Pyramid{}, fmt.Errorf("layout: item %w", dynamo.ErrInvalidSize)
	}
	if gap < 0 {
		return Pyramid{}, fmt.Errorf("layout: negative gap %.1f", gap)
	}
	return Pyramid{Rows: append([]int(nil), rows...), Item: item, Gap: gap}, nil
}

// RowWidth is the rendered width of a row holding count items.
func (p Pyramid) RowWidth(count int) float64 {
	if count <= 0 {
		return 0
	}
	return p.Item.Width*float64(count) + p.Gap*float64(count-1)
}

// Partition splits n item indices into rows. Items beyond the configured
// rows continue in extra rows as long as the last configured row.
func (p Pyramid) Partition(n int) [][]int {
	rows := make([][]int, 0, len(p.Rows))
	next := 0
	for r := 0; next < n; r++ {
		size := p.Rows[len(p.Rows)-1]
		if r < len(p.Rows) {
			size = p.Rows[r]
		}
		row := make([]int, 0, size)
		for k := 0; k < size && next < n; k++ {
			row = append(row, next)
			next++
		}
		rows = append(rows, row)
	}
	return rows
}

// Seed returns the top-left corner of each of n items for container width w.
func (p Pyramid) Seed(w float64, n int) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, n)
	y := 0.0
	for _, row := range p.Partition(n) {
		x := (w - p.RowWidth(len(row))) / 2
		for _, idx := range row {
			out[idx] = dynamo.V(x, y)
			x += p.Item.Width + p.Gap
		}
		y += p.Item.Height + p.Gap
	}
	return out
}

// Centers is Seed shifted by half an item, i.e. body positions.
func (p Pyramid) Centers(w float64, n int) []dynamo.Vec2 {
	tl := p.Seed(w, n)
	h := p.Item.Half()
	for i := range tl {
		tl[i] = tl[i].Add(h)
	}
	return tl
}

// Height is the total height of the seeded block for n items.
func (p Pyramid) Height(n int) float64 {
	rows := len(p.Partition(n))
	if rows == 0 {
		return 0
	}
	return float64(rows)*p.Item.Height + float64(rows-1)*p.Gap
}
