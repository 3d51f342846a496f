package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/experiment"
	"github.com/san-kum/techpills/internal/export"
	"github.com/san-kum/techpills/internal/layout"
	"github.com/san-kum/techpills/internal/logger"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/sim"
	"github.com/san-kum/techpills/internal/storage"
	"github.com/san-kum/techpills/internal/techstack"
)

func loadDrags(path string) ([]experiment.Drag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var drags []experiment.Drag
	if err := yaml.Unmarshal(data, &drags); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return drags, nil
}

func itemNames(items []techstack.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	registry := experiment.NewRegistry()
	ecfg, err := registry.FromConfig(cfg)
	if err != nil {
		return err
	}
	ecfg.Record = true
	if dragsFile != "" {
		if ecfg.Drags, err = loadDrags(dragsFile); err != nil {
			return err
		}
	}

	exp := experiment.New(ecfg, registry)
	if err := exp.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	elapsed := time.Since(start)

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.Save(storage.SessionMetadata{
		Preset:     preset,
		Catalog:    cfg.Catalog,
		Timestamp:  time.Now(),
		Seed:       cfg.Run.Seed,
		Dt:         cfg.Step,
		Steps:      result.StepsTaken,
		Integrator: cfg.Integrator,
		Width:      cfg.Container.Width,
		Height:     cfg.Container.Height,
		Items:      itemNames(ecfg.Items),
		Drags:      result.Drags,
		Metrics:    result.Metrics,
	}, result.Frames)
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}

	fmt.Printf("session %s: %d steps in %s\n", id, result.StepsTaken, elapsed.Round(time.Millisecond))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-14s %.3f\n", name, m[name])
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	registry := experiment.NewRegistry()
	base, err := registry.FromConfig(cfg)
	if err != nil {
		return err
	}
	results, err := experiment.NewBatch(base, runs, cfg.Run.Seed, registry).Run(context.Background())
	if err != nil {
		return err
	}

	var names []string
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED\tSTEPS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d", cfg.Run.Seed+int64(i), r.StepsTaken)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.3f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func printLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	items, err := cfg.ResolveItems()
	if err != nil {
		return err
	}
	p, err := layout.NewPyramid(cfg.Rows, cfg.Pill.Size(), cfg.Gap)
	if err != nil {
		return err
	}
	seed := p.Seed(cfg.Container.Width, len(items))

	fmt.Printf("container %.0fx%.0f, block height %.0f\n", cfg.Container.Width, cfg.Container.Height, p.Height(len(items)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tCATEGORY\tX\tY")
	for i, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.0f\n", i, it.Name, it.Category, seed[i].X, seed[i].Y)
	}
	return w.Flush()
}

func listSessions(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	sessions, err := store.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATALOG\tINTEGRATOR\tSTEPS\tDRAGS\tTIMESTAMP")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, s.Catalog, s.Integrator, s.Steps, s.Drags, s.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// meanSpeeds derives the mean pill speed per frame from consecutive positions.
func meanSpeeds(frames []sim.Frame, dt float64) []float64 {
	if dt <= 0 {
		dt = config.DefaultStep
	}
	if len(frames) < 2 {
		return nil
	}
	out := make([]float64, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1].Positions, frames[i].Positions
		n := min(len(prev), len(cur))
		if n == 0 {
			out = append(out, 0)
			continue
		}
		sum := 0.0
		for k := 0; k < n; k++ {
			sum += cur[k].Sub(prev[k]).Len() / dt
		}
		out = append(out, sum/float64(n))
	}
	return out
}

func plotSession(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}

	speeds := meanSpeeds(frames, meta.Dt)
	if len(speeds) == 0 {
		return fmt.Errorf("session %s has too few frames to plot", args[0])
	}
	graph := asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean speed (px/s) - %s", meta.ID)),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

// sessionItems rebuilds the item list of a stored session from its catalog,
// keeping the recorded order.
func sessionItems(meta *storage.SessionMetadata) []techstack.Item {
	byName := make(map[string]techstack.Item)
	if catalog, err := techstack.Named(meta.Catalog); err == nil {
		for _, it := range catalog {
			byName[it.Name] = it
		}
	}
	out := make([]techstack.Item, len(meta.Items))
	for i, name := range meta.Items {
		it, ok := byName[name]
		if !ok {
			it = techstack.Item{Name: name}
		}
		out[i] = it
	}
	return out
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := store.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("session %s has no frames", args[0])
	}
	size := dynamo.Size{Width: meta.Width, Height: meta.Height}
	items := sessionItems(meta)

	if trail >= 0 {
		if trail >= len(items) {
			return fmt.Errorf("pill %d out of range [0, %d)", trail, len(items))
		}
		points := make([]dynamo.Vec2, 0, len(frames))
		for _, f := range frames {
			if trail < len(f.Positions) {
				points = append(points, f.Positions[trail])
			}
		}
		pal := techstack.PaletteFor(items[trail].Category)
		fmt.Println(export.TrailToSVG(points, size, pal.Accent))
		return nil
	}

	last := frames[len(frames)-1]
	placements := render.NewProjector(items, cfg.Pill.Size()).Project(last.Positions, -1)
	fmt.Println(export.PlacementsToSVG(placements, size))
	return nil
}
