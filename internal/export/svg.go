package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
)

const background = "#0a0a0a"

// PlacementsToSVG draws one frame of pills inside a container of size.
// Placements are drawn in slice order, so pass them as projected.
func PlacementsToSVG(placements []render.Placement, size dynamo.Size) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g font-family="monospace" font-size="14" text-anchor="middle" dominant-baseline="central">
`, size.Width, size.Height, size.Width, size.Height, background)

	for _, p := range placements {
		pal := techstack.PaletteFor(p.Category)
		r := p.Height / 2
		if p.Elevation > 0 {
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="#000" opacity="0.35"/>
`, p.X, p.Y+float64(p.Elevation), p.Width, p.Height, r)
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="2"/>
`, p.X, p.Y, p.Width, p.Height, r, pal.Fill, pal.Border)

		label := html.EscapeString(p.ID)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s">%s</text>
`, p.X+p.Width/2, p.Y+p.Height/2, pal.Accent, label)

		if p.Badge != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="10" fill="%s">%s</text>
`, p.X+p.Width-6, p.Y-4, pal.Border, html.EscapeString(p.Badge))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailToSVG draws the path of one point through container space, for
// example a pill's top-left corner over a recorded session.
func TrailToSVG(points []dynamo.Vec2, size dynamo.Size, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		size.Width, size.Height, size.Width, size.Height, background, strokeColor)

	for i, p := range points {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
