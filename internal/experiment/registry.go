package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/integrators"
	"github.com/san-kum/techpills/internal/metrics"
	"github.com/san-kum/techpills/internal/sim"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	catalogs    map[string]func() []techstack.Item
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		catalogs:    make(map[string]func() []techstack.Item),
	}

	r.integrators["semi-implicit"] = func() dynamo.Integrator { return integrators.NewSemiImplicitEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	for _, name := range techstack.Names() {
		name := name
		r.catalogs[name] = func() []techstack.Item {
			items, _ := techstack.Named(name)
			return items
		}
	}
	return r
}

// RegisterCatalog adds or replaces a named item list.
func (r *Registry) RegisterCatalog(name string, items []techstack.Item) {
	r.catalogs[name] = func() []techstack.Item { return items }
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetCatalog(name string) ([]techstack.Item, error) {
	fn, ok := r.catalogs[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string { return keys(r.integrators) }

func (r *Registry) ListCatalogs() []string { return keys(r.catalogs) }

func keys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are attached to every headless session.
func (r *Registry) DefaultMetrics(box dynamo.Rect) []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(0),
		metrics.NewEnergyDrift(),
		metrics.NewPeakSpeed(),
		metrics.NewSettleTime(1),
		metrics.NewContainment(box, 1),
	}
}

// WidgetOptions translates a validated config into widget options. Hosts
// append their own notifier, logger and metrics.
func (r *Registry) WidgetOptions(cfg *config.Config) ([]widget.Option, error) {
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return []widget.Option{
		widget.WithPill(cfg.Pill.Size()),
		widget.WithGap(cfg.Gap),
		widget.WithRows(cfg.Rows),
		widget.WithMaterial(cfg.Material),
		widget.WithIntegrator(integ),
		widget.WithGravity(cfg.Gravity.Vec()),
		widget.WithWalls(cfg.Boundary.Thickness, cfg.Boundary.Inset),
		widget.WithStep(cfg.Step),
	}, nil
}

// FromConfig builds a headless session description from cfg.
func (r *Registry) FromConfig(cfg *config.Config) (Config, error) {
	items, err := cfg.ResolveItems()
	if err != nil {
		return Config{}, err
	}
	opts, err := r.WidgetOptions(cfg)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Integrator: cfg.Integrator,
		Items:      items,
		Size:       cfg.Container.Size(),
		Steps:      cfg.Run.Steps,
		Seed:       cfg.Run.Seed,
		Kick:       cfg.Run.Kick,
		Options:    opts,
	}, nil
}
