package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/experiment"
	"github.com/san-kum/techpills/internal/gui"
	"github.com/san-kum/techpills/internal/logger"
	"github.com/san-kum/techpills/internal/server"
	"github.com/san-kum/techpills/internal/stats"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	envFile    string
	logLevel   string
	logJSON    bool
	logFile    string

	catalog    string
	integrator string
	width      float64
	height     float64
	steps      int
	seed       int64
	kick       float64
	dragsFile  string
	runs       int
	trail      int
	top        int
	theme      string
	addr       string
	statsDB    string
)

// main registers the commands and runs the terminal preset picker when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "techpills",
		Short:        "draggable tech-stack pills with 2D physics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, closeLog := tuiLogger(cfg)
			defer closeLog()
			return viz.RunInteractive(experiment.NewRegistry(), viz.Options{Theme: theme, Logger: log})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".techpills", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&envFile, "env-file", "", "dotenv file (default .env)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&logFile, "log-file", "", "log file for full-screen modes")
	pf.StringVar(&theme, "theme", "midnight", "terminal theme")

	addWidgetFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&catalog, "catalog", config.DefaultCatalog, "item catalog")
		cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
		cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "container width in px")
		cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "container height in px")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drag the pills in the terminal",
		RunE:  runLive,
	}
	addWidgetFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "drag the pills in a desktop window",
		RunE:  runGUI,
	}
	addWidgetFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the widget to browsers over websocket",
		RunE:  runServe,
	}
	addWidgetFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&statsDB, "stats-db", "", "sqlite file for the interaction log")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "summarise the network host's interaction log",
		RunE:  printStats,
	}
	statsCmd.Flags().StringVar(&statsDB, "stats-db", "", "sqlite file for the interaction log")
	statsCmd.Flags().IntVar(&top, "top", 10, "number of pills to rank")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session and record it",
		RunE:  runSession,
	}
	addWidgetFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "frames to simulate")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the initial kick")
	runCmd.Flags().Float64Var(&kick, "kick", 600, "max initial speed in px/s")
	runCmd.Flags().StringVar(&dragsFile, "drags", "", "yaml file of scripted drags")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run many seeds concurrently and summarise",
		RunE:  runBatch,
	}
	addWidgetFlags(batchCmd)
	batchCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "frames per session")
	batchCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	batchCmd.Flags().Float64Var(&kick, "kick", 600, "max initial speed in px/s")
	batchCmd.Flags().IntVar(&runs, "runs", 8, "number of sessions")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "print the seeded pyramid for a container width",
		RunE:  printLayout,
	}
	addWidgetFlags(layoutCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot mean pill speed over a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [session_id]",
		Short: "export a session to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [session_id]",
		Short: "export session frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [session_id]",
		Short: "draw the final frame of a session, or one pill's trail, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&trail, "trail", -1, "draw the path of this pill index instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, catalogs, integrators and themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "presets\t%v\n", config.ListPresets())
			fmt.Fprintf(w, "catalogs\t%v\n", r.ListCatalogs())
			fmt.Fprintf(w, "integrators\t%v\n", r.ListIntegrators())
			fmt.Fprintf(w, "themes\t%v\n", viz.ThemeNames())
			return w.Flush()
		},
	}

	legendCmd := &cobra.Command{
		Use:   "legend",
		Short: "print the category legend for the configured items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			items, err := cfg.ResolveItems()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tBORDER\tITEMS")
			for _, e := range techstack.Legend(items) {
				fmt.Fprintf(w, "%s\t%s\t%d\n", e.Category, e.Palette.Border, e.Count)
			}
			return w.Flush()
		},
	}
	legendCmd.Flags().StringVar(&catalog, "catalog", config.DefaultCatalog, "item catalog")

	rootCmd.AddCommand(liveCmd, guiCmd, serveCmd, runCmd, batchCmd, layoutCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, legendCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file, environment and flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if envFile != "" {
		config.LoadEnv(envFile)
	} else {
		config.LoadEnv()
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = logJSON
	}
	if flags.Changed("catalog") {
		cfg.Catalog = catalog
		cfg.Items = nil
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("width") {
		cfg.Container.Width = width
	}
	if flags.Changed("height") {
		cfg.Container.Height = height
	}
	if flags.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("kick") {
		cfg.Run.Kick = kick
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("stats-db") {
		cfg.Server.StatsDB = statsDB
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// tuiLogger keeps log output off a full-screen terminal.
func tuiLogger(cfg *config.Config) (*slog.Logger, func()) {
	if logFile == "" {
		return logger.Discard(), func() {}
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return logger.Discard(), func() {}
	}
	return logger.InitWriter(f, cfg.Log.Level, cfg.Log.JSON), func() { f.Close() }
}

// resolve loads config and returns items plus widget options for hosts.
func resolve(cmd *cobra.Command) (*config.Config, []techstack.Item, *experiment.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := cfg.ResolveItems()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, items, experiment.NewRegistry(), nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, items, registry, err := resolve(cmd)
	if err != nil {
		return err
	}
	opts, err := registry.WidgetOptions(cfg)
	if err != nil {
		return err
	}
	log, closeLog := tuiLogger(cfg)
	defer closeLog()

	m, err := viz.NewModel(items, viz.Options{
		Theme:    theme,
		Interval: cfg.Interval(),
		Seed:     cfg.Run.Seed,
		Logger:   log,
		Widget:   opts,
	})
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, items, registry, err := resolve(cmd)
	if err != nil {
		return err
	}
	opts, err := registry.WidgetOptions(cfg)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.JSON)
	return gui.Run(items, gui.Options{
		Width:  int(cfg.Container.Width) + 80,
		Height: int(cfg.Container.Height) + 190,
		FPS:    int32(cfg.FrameRate),
		Logger: log,
		Widget: opts,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, items, registry, err := resolve(cmd)
	if err != nil {
		return err
	}
	opts, err := registry.WidgetOptions(cfg)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.JSON)

	srv, err := server.New(cfg, items, opts, log)
	if err != nil {
		return err
	}
	defer srv.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

func printStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Server.StatsDB == "" {
		return fmt.Errorf("no interaction log configured (use --stats-db or TECHPILLS_STATS_DB)")
	}
	st, err := stats.Open(cfg.Server.StatsDB, cfg.Server.StatsSalt)
	if err != nil {
		return err
	}
	defer st.Close()

	sum, err := st.Summarize(cmd.Context(), top)
	if err != nil {
		return err
	}
	fmt.Printf("sessions %d (today %d), unique visitors %d, drags %d\n",
		sum.Sessions, sum.SessionsToday, sum.UniqueVisitors, sum.Drags)
	if len(sum.TopItems) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPILL\tDRAGS")
	for _, ic := range sum.TopItems {
		fmt.Fprintf(w, "%s\t%d\n", ic.Item, ic.Drags)
	}
	return w.Flush()
}
