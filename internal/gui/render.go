package gui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
)

const (
	pillFontSize  = 18
	roundness     = 1.0
	pillSegments  = 12
	shadowOpacity = 90
)

func secondsToDuration(s float32) time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// colorOf parses a #rrggbb palette entry.
func colorOf(hex string, alpha uint8) rl.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return rl.NewColor(128, 128, 128, alpha)
	}
	return rl.NewColor(r, g, b, alpha)
}

func (a *App) drawHero() {
	lines := strings.SplitN(a.Typer.View(), "\n", 2)
	a.drawText("tech stack", marginX, 24, 28, ColSelect)
	a.drawText(lines[0], marginX, 62, 18, ColPrompt)
	if len(lines) > 1 {
		a.drawText(lines[1], marginX, 86, 16, ColText)
	}
}

func (a *App) drawContainer() {
	size := a.Widget.Size()
	box := rl.NewRectangle(marginX, heroHeight, float32(size.Width), float32(size.Height))
	rl.DrawRectangleLinesEx(box, 1, ColGrid)
}

// drawPill draws one placement; the dragged pill gets a deeper shadow.
func (a *App) drawPill(p render.Placement) {
	pal := techstack.PaletteFor(p.Category)
	rect := rl.NewRectangle(float32(marginX+p.X), float32(heroHeight+p.Y), float32(p.Width), float32(p.Height))

	if p.Transition == render.TransitionShadow {
		e := float32(p.Elevation)
		shadow := rl.NewRectangle(rect.X+e/2, rect.Y+e, rect.Width, rect.Height)
		rl.DrawRectangleRounded(shadow, roundness, pillSegments, rl.NewColor(0, 0, 0, shadowOpacity))
	}

	rl.DrawRectangleRounded(rect, roundness, pillSegments, colorOf(pal.Fill, 255))
	border := colorOf(pal.Border, 255)
	if p.Dragging {
		border = colorOf(pal.Accent, 255)
	}
	rl.DrawRectangleRoundedLinesEx(rect, roundness, pillSegments, 2, border)

	sz := rl.MeasureTextEx(a.Font, p.ID, pillFontSize, 1)
	tx := rect.X + (rect.Width-sz.X)/2
	ty := rect.Y + (rect.Height-sz.Y)/2
	rl.DrawTextEx(a.Font, p.ID, rl.NewVector2(tx, ty), pillFontSize, 1, ColSelect)

	if p.Badge != "" {
		bs := rl.MeasureTextEx(a.Font, p.Badge, 11, 1)
		badge := rl.NewRectangle(rect.X+rect.Width-bs.X-14, rect.Y-8, bs.X+10, bs.Y+4)
		rl.DrawRectangleRounded(badge, roundness, pillSegments, colorOf(pal.Accent, 255))
		rl.DrawTextEx(a.Font, p.Badge, rl.NewVector2(badge.X+5, badge.Y+2), 11, 1, ColBg)
	}
}

func (a *App) drawLegend() {
	x := marginX
	y := a.height - footerHeight + 12
	for _, e := range techstack.Legend(a.Widget.Items()) {
		col := colorOf(e.Palette.Border, 255)
		if e.Count == 0 {
			col = ColTextDim
		}
		rl.DrawCircle(int32(x+6), int32(y+8), 6, col)
		label := fmt.Sprintf("%s %d", e.Category, e.Count)
		a.drawText(label, x+18, y, 14, ColText)
		x += 28 + int(rl.MeasureTextEx(a.Font, label, 14, 1).X)
	}
}

// DrawTelemetry plots the kinetic energy history as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := a.width-460, 30
	width, height := 260, 50

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX, rectY+height+6, 14, ColText)
}
