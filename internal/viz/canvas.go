package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
)

// Cell size in container pixels. A 160x48 pill covers 16x3 cells.
const (
	CellWidth  = 10.0
	CellHeight = 16.0
)

type cell struct {
	r     rune
	color lipgloss.Color
	bold  bool
}

// Surface is a character grid the pills are rasterised onto, in draw order.
type Surface struct {
	Width, Height int
	grid          [][]cell
}

func NewSurface(w, h int) *Surface {
	s := &Surface{Width: w, Height: h, grid: make([][]cell, h)}
	for i := range s.grid {
		s.grid[i] = make([]cell, w)
	}
	s.Clear()
	return s
}

func (s *Surface) Clear() {
	for i := range s.grid {
		for j := range s.grid[i] {
			s.grid[i][j] = cell{r: ' '}
		}
	}
}

func (s *Surface) set(col, row int, c cell) {
	if col < 0 || row < 0 || col >= s.Width || row >= s.Height {
		return
	}
	s.grid[row][col] = c
}

// ToCells converts a pixel rectangle to cell coordinates.
func ToCells(x, y, w, h float64) (col, row, cols, rows int) {
	col = int(math.Round(x / CellWidth))
	row = int(math.Round(y / CellHeight))
	cols = int(math.Max(3, math.Round(w/CellWidth)))
	rows = int(math.Max(1, math.Round(h/CellHeight)))
	return
}

// DrawPill rasterises one placement. Later calls paint over earlier ones.
func (s *Surface) DrawPill(p render.Placement, theme Theme) {
	col, row, cols, rows := ToCells(p.X, p.Y, p.Width, p.Height)
	pal := techstack.PaletteFor(p.Category)
	border := lipgloss.Color(pal.Border)
	text := theme.Text
	if p.Dragging {
		border = theme.Accent
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ch := ' '
			switch {
			case rows == 1 && c == 0:
				ch = '('
			case rows == 1 && c == cols-1:
				ch = ')'
			case r == 0 && c == 0:
				ch = '╭'
			case r == 0 && c == cols-1:
				ch = '╮'
			case r == rows-1 && c == 0:
				ch = '╰'
			case r == rows-1 && c == cols-1:
				ch = '╯'
			case r == 0 || r == rows-1:
				ch = '─'
			case c == 0 || c == cols-1:
				ch = '│'
			}
			s.set(col+c, row+r, cell{r: ch, color: border, bold: p.Dragging})
		}
	}

	label := p.ID
	if p.Badge != "" {
		label += " *"
	}
	runes := []rune(label)
	if len(runes) > cols-2 {
		runes = runes[:cols-2]
	}
	start := col + (cols-len(runes))/2
	mid := row + rows/2
	for i, ch := range runes {
		s.set(start+i, mid, cell{r: ch, color: text, bold: p.Dragging})
	}
}

// String renders the grid, merging runs of equally styled cells.
func (s *Surface) String() string {
	var b strings.Builder
	for _, row := range s.grid {
		i := 0
		for i < len(row) {
			j := i
			var run strings.Builder
			for j < len(row) && row[j].color == row[i].color && row[j].bold == row[i].bold {
				run.WriteRune(row[j].r)
				j++
			}
			if row[i].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(row[i].color).Bold(row[i].bold).Render(run.String()))
			}
			i = j
		}
		b.WriteString("\n")
	}
	return b.String()
}
