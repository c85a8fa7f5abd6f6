package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	// Run configuration
	configFile  string
	preset      string
	gridN       int
	dx          float64
	courant     float64
	boundary    string
	steps       int
	dumpEvery   int
	workers     int
	probe       int
	sourceIndex int
	runMetrics  []string
	// Plotting
	snapshotIdx int
	field       string
	plotWidth   int
	plotHeight  int
	plotTheme   string
	svgPath     string
	// Live view
	speed     int
	liveTheme string
	// Analysis
	window bool
	bins   int
	// Benchmark
	benchSteps int
	// Sweep
	sweepParams []string
	sweepMetric string
	// Batch
	batchSave bool
)

// main registers the commands and flags and executes the root command. It
// exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "yee1d",
		Short:         "1D FDTD electromagnetic wave lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".yee1d", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringSliceVar(&runMetrics, "metric", nil, "metrics to record (default: all that apply)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored snapshot (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&snapshotIdx, "step", -1, "snapshot index (default: last)")
	plotCmd.Flags().StringVar(&field, "field", "e", "field to plot (e, h, both)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	plotCmd.Flags().StringVar(&plotTheme, "theme", "minimal", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write E and eta*H to this SVG file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and probe series as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step a solver with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&speed, "speed", 2, "steps per frame")
	liveCmd.Flags().StringVar(&liveTheme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run reflective and mur1 boundaries side by side",
		Args:  cobra.NoArgs,
		RunE:  compareBoundaries,
	}
	addConfigFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of a run's probe series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&window, "hann", true, "apply a Hann window")
	analyzeCmd.Flags().IntVar(&bins, "bins", 80, "frequency bins to plot")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark grid sizes and worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over run parameters",
		Long:  "Runs every combination of the --param values and reports the one minimising --metric.",
		Args:  cobra.NoArgs,
		RunE:  sweepParameters,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter values, name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy", "metric to minimise")

	batchCmd := &cobra.Command{
		Use:   "batch <scenario.yaml>",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&batchSave, "save-all", false, "store every step, not only those marked save")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-18s N=%-5d S=%.2f %-10s %d steps\n", name, p.Grid.N, p.Grid.Courant, p.Boundary, p.Steps)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, compareCmd, analyzeCmd, benchCmd, sweepCmd, batchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&gridN, "n", def.Grid.N, "number of E nodes")
	cmd.Flags().Float64Var(&dx, "dx", def.Grid.Dx, "cell size (m)")
	cmd.Flags().Float64Var(&courant, "courant", def.Grid.Courant, "Courant number S")
	cmd.Flags().StringVar(&boundary, "boundary", def.Boundary, "boundary (reflective, mur1)")
	cmd.Flags().IntVar(&steps, "steps", def.Steps, "number of steps")
	cmd.Flags().IntVar(&dumpEvery, "dump-every", def.DumpEvery, "snapshot cadence (0 disables)")
	cmd.Flags().IntVar(&workers, "workers", def.Workers, "goroutines for the update loops")
	cmd.Flags().IntVar(&probe, "probe", def.Probe, "E index sampled every step (-1 disables)")
	cmd.Flags().IntVar(&sourceIndex, "source-index", def.Source.Index, "source node (-1 means N/4)")
}

// buildConfig layers preset, then config file, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Overlay(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.Grid.N = gridN
	}
	if flags.Changed("dx") {
		cfg.Grid.Dx = dx
	}
	if flags.Changed("courant") {
		cfg.Grid.Courant = courant
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dump-every") {
		cfg.DumpEvery = dumpEvery
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("probe") {
		cfg.Probe = probe
	}
	if flags.Changed("source-index") {
		cfg.Source.Index = sourceIndex
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
