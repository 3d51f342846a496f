package export

import (
	"strings"
	"testing"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
)

func TestPlacementsToSVG(t *testing.T) {
	items := []techstack.Item{
		{Name: "Go", Category: techstack.Language},
		{Name: "<Three.js>", Category: techstack.Design, Badge: "learning"},
	}
	proj := render.NewProjector(items, dynamo.Size{Width: 160, Height: 48})
	placements := proj.Project([]dynamo.Vec2{dynamo.V(10, 20), dynamo.V(200, 20)}, 1)

	svg := PlacementsToSVG(placements, dynamo.Size{Width: 400, Height: 100})

	for _, want := range []string{
		`width="400" height="100"`,
		`<rect x="10.0" y="20.0" width="160.0" height="48.0" rx="24.0" fill="#0f1a30" stroke="#3b82f6"`,
		`>Go</text>`,
		`&lt;Three.js&gt;`,
		`>learning</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
	if strings.Index(svg, ">Go<") > strings.Index(svg, "&lt;Three.js&gt;") {
		t.Error("dragged pill must be drawn last")
	}
}

func TestTrailToSVG(t *testing.T) {
	size := dynamo.Size{Width: 100, Height: 100}
	if TrailToSVG([]dynamo.Vec2{dynamo.V(1, 1)}, size, "#fff") != "" {
		t.Error("a single point has no trail")
	}

	svg := TrailToSVG([]dynamo.Vec2{dynamo.V(0, 0), dynamo.V(10, 5), dynamo.V(20, 5)}, size, "#22d3ee")
	if !strings.Contains(svg, `d="M0.0,0.0 L10.0,5.0 L20.0,5.0"`) {
		t.Errorf("unexpected path in %s", svg)
	}
	if !strings.Contains(svg, `stroke="#22d3ee"`) {
		t.Error("stroke colour not applied")
	}
}
