package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/techpills/internal/techstack"
)

// Styles are the lipgloss styles derived from one Theme.
type Styles struct {
	Title    lipgloss.Style
	Prompt   lipgloss.Style
	Frame    lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Running  lipgloss.Style
	Dragging lipgloss.Style
	Paused   lipgloss.Style
	Hint     lipgloss.Style
	Graph    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Prompt:   lipgloss.NewStyle().Foreground(t.Success),
		Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Frame),
		Panel:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Frame).Padding(0, 1).Width(sidebarWidth - 1),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text),
		Running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Dragging: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Graph:    lipgloss.NewStyle().Foreground(t.Secondary),
	}
}

// GradientText colours each rune of text along a start-to-end ramp.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b))).Render(string(c)))
	}
	return result.String()
}

// Legend renders one swatch line per category with its item count.
func Legend(items []techstack.Item, st Styles) string {
	var b strings.Builder
	for _, e := range techstack.Legend(items) {
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Palette.Border)).Render("●")
		line := fmt.Sprintf("%s %-10s %d", sw, e.Category, e.Count)
		if e.Count == 0 {
			line = st.Hint.Render(fmt.Sprintf("○ %-10s %d", e.Category, e.Count))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	// keep the newest samples
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return b.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
