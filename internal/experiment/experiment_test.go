package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/techstack"
)

func baseConfig() Config {
	return Config{
		Integrator: "semi-implicit",
		Items:      techstack.Default(),
		Size:       dynamo.Size{Width: 960, Height: 400},
		Steps:      300,
		Seed:       7,
		Kick:       500,
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"semi-implicit", "euler", "verlet", "rk4"} {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("GetIntegrator(%s): %v", name, err)
		}
	}
	if _, err := r.GetIntegrator("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	items, err := r.GetCatalog("default")
	if err != nil || len(items) != 15 {
		t.Errorf("default catalog = %d items, %v", len(items), err)
	}
	r.RegisterCatalog("one", []techstack.Item{{Name: "Go", Category: techstack.Language}})
	if got := r.ListCatalogs(); len(got) != 3 || got[2] != "one" {
		t.Errorf("catalogs = %v", got)
	}
	if got := r.ListIntegrators(); len(got) != 4 || got[0] != "euler" {
		t.Errorf("integrators = %v", got)
	}
}

func TestExperiment_Deterministic(t *testing.T) {
	run := func() *Result {
		cfg := baseConfig()
		cfg.Record = true
		e := New(cfg, nil)
		if err := e.Setup(); err != nil {
			t.Fatal(err)
		}
		res, err := e.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	if a.StepsTaken != 300 || len(a.Frames) != 300 {
		t.Fatalf("steps = %d, frames = %d", a.StepsTaken, len(a.Frames))
	}
	for i := range a.Final {
		if a.Final[i].Position != b.Final[i].Position {
			t.Fatalf("body %d differs between identical seeds", i)
		}
	}
	if a.Metrics["energy_gain"] > 1e-6 {
		t.Errorf("kinetic energy grew by %v", a.Metrics["energy_gain"])
	}
	if a.Metrics["peak_speed"] <= 0 {
		t.Error("peak speed not recorded")
	}
}

func TestExperiment_ScriptedDrag(t *testing.T) {
	cfg := baseConfig()
	cfg.Kick = 0
	cfg.Steps = 20
	cfg.Drags = []Drag{{
		Index: 3,
		At:    5,
		Path:  []dynamo.Vec2{dynamo.V(200, 200), dynamo.V(250, 220), dynamo.V(300, 250)},
	}}

	e := New(cfg, nil)
	if err := e.Setup(); err != nil {
		t.Fatal(err)
	}
	w := e.Widget()

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Drags != 1 {
		t.Errorf("drags = %d, want 1", res.Drags)
	}
	if _, ok := w.Dragging(); ok {
		t.Error("drag should have been released")
	}
	if !res.Final[3].Position.Equal(dynamo.V(300, 250), 60) {
		t.Errorf("dragged body ended at %v", res.Final[3].Position)
	}
}

func TestExperiment_Errors(t *testing.T) {
	cfg := baseConfig()
	cfg.Integrator = "nope"
	if err := New(cfg, nil).Setup(); err == nil {
		t.Error("expected unknown integrator error")
	}

	cfg = baseConfig()
	cfg.Steps = 0
	if err := New(cfg, nil).Setup(); err == nil {
		t.Error("expected steps error")
	}

	if _, err := New(baseConfig(), nil).Run(context.Background()); err == nil {
		t.Error("expected error running without setup")
	}
}

func TestExperiment_Cancelled(t *testing.T) {
	e := New(baseConfig(), nil)
	if err := e.Setup(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := e.Run(ctx)
	if err != context.Canceled || res.StepsTaken != 0 {
		t.Errorf("Run = %d steps, %v", res.StepsTaken, err)
	}
}

func TestBatch(t *testing.T) {
	cfg := baseConfig()
	cfg.Steps = 60
	results, err := NewBatch(cfg, 4, 100, nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Final[0].Position == results[1].Final[0].Position {
		t.Error("different seeds should diverge")
	}
}

func TestRegistry_FromConfig(t *testing.T) {
	r := NewRegistry()
	cfg := config.GetPreset("mobile")
	cfg.Run.Steps = 120

	ec, err := r.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ec.Size != (dynamo.Size{Width: 360, Height: 640}) || ec.Steps != 120 || len(ec.Items) != 15 {
		t.Fatalf("unexpected session config %+v", ec)
	}

	e := New(ec, r)
	if err := e.Setup(); err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 120 {
		t.Errorf("steps taken = %d", res.StepsTaken)
	}
	if got := res.Final[0].Size; got != (dynamo.Size{Width: 120, Height: 40}) {
		t.Errorf("mobile pill size not applied: %v", got)
	}

	cfg.Integrator = "leapfrog"
	if _, err := r.FromConfig(cfg); err == nil {
		t.Error("expected unknown integrator error")
	}
}
