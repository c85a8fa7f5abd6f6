package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/yee1d/internal/analysis"
	"github.com/san-kum/yee1d/internal/automation"
	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/experiment"
	"github.com/san-kum/yee1d/internal/export"
	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/metrics"
	"github.com/san-kum/yee1d/internal/optim"
	"github.com/san-kum/yee1d/internal/sim"
	"github.com/san-kum/yee1d/internal/storage"
	"github.com/san-kum/yee1d/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	name := preset
	if name == "" {
		name = cfg.Boundary
	}
	selected, err := selectMetrics(cfg, runMetrics)
	if err != nil {
		return err
	}
	exp := experiment.New(name, cfg)
	if err := exp.Setup(selected...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: N=%d, %d steps...\n", exp.Solver().Config().Boundary, cfg.Grid.N, cfg.Steps)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.StorageRun(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("snapshots: %d\n", len(result.Snapshots))
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	// The partial run is stored before the error is reported.
	return runErr
}

// selectMetrics builds the named metrics; no names leaves the choice to
// the registry defaults.
func selectMetrics(cfg *config.Config, names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return nil, nil
	}
	grid, err := cfg.GridConfig()
	if err != nil {
		return nil, err
	}
	reg := experiment.NewRegistry()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := reg.GetMetric(name, cfg, grid)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(reg.ListMetrics(), ", "))
		}
		out = append(out, m)
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBOUNDARY\tN\tS\tSTEPS\tSNAPSHOTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d/%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Boundary,
			run.N,
			run.Courant,
			run.StepsTaken,
			run.Steps,
			len(run.Snapshots),
		)
	}

	return w.Flush()
}

// resolveRun loads the named run, or the latest one without arguments.
func resolveRun(st *storage.Store, args []string) (*storage.RunMetadata, error) {
	if len(args) == 0 {
		return st.Latest()
	}
	return st.Load(args[0])
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	if len(meta.Snapshots) == 0 {
		return fmt.Errorf("run %s has no snapshots", meta.ID)
	}

	index := snapshotIdx
	if index < 0 {
		index = meta.Snapshots[len(meta.Snapshots)-1]
	}
	x, e, h, err := st.LoadSnapshot(meta.ID, index)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("boundary: %s\n", meta.Boundary)
	fmt.Printf("nodes: %d\n\n", len(e))

	t := float64(index+1) * meta.Dt
	opts := viz.PlotOptions{Width: plotWidth, Height: plotHeight, Theme: viz.GetTheme(plotTheme)}
	switch strings.ToLower(field) {
	case "e":
		opts.Caption = viz.FieldCaption("E (V/m)", index, t)
		fmt.Println(viz.PlotField(e, opts))
	case "h":
		opts.Caption = viz.FieldCaption("H (A/m)", index, t)
		opts.Theme.EPlot = opts.Theme.HPlot
		fmt.Println(viz.PlotField(h, opts))
	case "both":
		opts.Caption = viz.FieldCaption("E and eta*H (V/m)", index, t)
		fmt.Println(viz.PlotFields(e, h, viz.Impedance(meta.Eps, meta.Mu), opts))
	default:
		return fmt.Errorf("unknown field: %s (want e, h or both)", field)
	}
	fmt.Println()

	if svgPath != "" {
		o := export.DefaultSVGOptions()
		o.Theme = opts.Theme
		o.Title = fmt.Sprintf("%s  snapshot %d  t=%.4es", meta.ID, index, t)
		svg, err := export.FieldsToSVG(x, e, h, viz.Impedance(meta.Eps, meta.Mu), o)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	return st.Export(os.Stdout, meta.ID)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	maxSteps := 0
	if cmd.Flags().Changed("steps") || preset != "" || configFile != "" {
		maxSteps = cfg.Steps
	}
	m, err := viz.NewLiveModel(cfg.NewSolver, viz.LiveOptions{
		Theme:    liveTheme,
		Speed:    speed,
		MaxSteps: maxSteps,
		Probe:    cfg.Probe,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func compareBoundaries(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	kinds := []fdtd.BoundaryKind{fdtd.Reflective, fdtd.Mur1}
	exps := make([]*experiment.Experiment, len(kinds))
	energies := make([]*metrics.Energy, len(kinds))
	ens := sim.NewEnsemble(0)
	for i, kind := range kinds {
		cfg := base.Clone()
		cfg.Boundary = kind.String()
		cfg.DumpEvery = 0

		exps[i] = experiment.New(kind.String(), cfg)
		grid, err := cfg.GridConfig()
		if err != nil {
			return err
		}
		energies[i] = metrics.NewEnergy(grid)
		if err := exps[i].Setup(energies[i], metrics.NewBoundaryPeak()); err != nil {
			return err
		}
		ens.Add(kind.String(), exps[i].Runner())
	}

	fmt.Printf("comparing boundaries: N=%d, S=%.2f, %d steps\n\n", base.Grid.N, base.Grid.Courant, base.Steps)
	start := time.Now()
	results, err := ens.Run(context.Background(), base.RunConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOUNDARY\tPEAK ENERGY\tFINAL ENERGY\tBOUNDARY PEAK")
	for i, kind := range kinds {
		res := results[kind.String()]
		fmt.Fprintf(w, "%s\t%.6e\t%.6e\t%.6e\n", kind, energies[i].Peak(), res.Metrics["energy"], res.Metrics["boundary_peak"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ratio, err := analysis.ReflectionRatio(exps[1].Solver().E(), exps[0].Solver().E())
	switch {
	case errors.Is(err, analysis.ErrZeroReference):
		fmt.Println("\nreflection ratio: undefined (reflective field is zero)")
	case err != nil:
		return err
	default:
		fmt.Printf("\nreflection ratio (mur1/reflective, final E): %.3e\n", ratio)
	}
	fmt.Printf("elapsed: %v\n", elapsed)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	_, values, err := st.LoadProbe(meta.ID)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return fmt.Errorf("run %s has no probe series; rerun with --probe", meta.ID)
		}
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("probe: E[%d], %d samples\n\n", meta.Probe, len(values))

	if window {
		values = analysis.Hann(values)
	}
	spec, err := analysis.ComputeSpectrum(values, meta.Dt)
	if err != nil {
		return err
	}

	plotData := spec.Magnitude
	if bins > 0 && len(plotData) > bins {
		plotData = plotData[:bins]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|E(f)|, %.3e Hz per bin", spec.Freqs[1])),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := spec.Dominant()
	fmt.Printf("dominant frequency: %.4e hz\n", freq)
	if freq > 0 {
		c := 1 / math.Sqrt(meta.Eps*meta.Mu)
		fmt.Printf("wavelength: %.4e m (%.1f cells)\n", c/freq, c/freq/meta.Dx)
	}
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	sizes := []int{800, 8000, 80000}
	workerCounts := []int{1, 2, 4, runtime.NumCPU()}

	fmt.Printf("benchmarking %d steps per run\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC\tCELLS/SEC")

	for _, n := range sizes {
		for _, wc := range workerCounts {
			grid := fdtd.GridConfig{N: n, Dx: 1e-3, S: 0.99, Eps: fdtd.Eps0, Mu: fdtd.Mu0, Boundary: fdtd.Mur1}
			s, err := fdtd.New(grid, fdtd.WithWorkers(wc))
			if err != nil {
				return err
			}

			start := time.Now()
			s.Run(benchSteps)
			elapsed := time.Since(start)

			stepsPerSec := float64(benchSteps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3e\n",
				n, wc, benchSteps, elapsed, stepsPerSec, stepsPerSec*float64(n))
		}
	}

	return w.Flush()
}

func sweepParameters(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	params := make([]optim.Param, 0, len(sweepParams))
	for _, raw := range sweepParams {
		p, err := optim.ParseParam(raw)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	// Sweeps only read metrics.
	base.DumpEvery = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(params...)
	fmt.Printf("sweeping %d points, minimising %s\n\n", gs.Size(), sweepMetric)

	best, trials, err := gs.Search(ctx, optim.ConfigBuilder(base), sweepMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(params)+1)
	for _, p := range params {
		header = append(header, strings.ToUpper(p.Name))
	}
	fmt.Fprintln(w, strings.Join(append(header, strings.ToUpper(sweepMetric)), "\t"))
	for _, trial := range trials {
		row := make([]string, 0, len(params)+1)
		for _, p := range params {
			row = append(row, fmt.Sprintf("%g", trial.Params[p.Name]))
		}
		if trial.Err != nil {
			row = append(row, "error: "+trial.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.6e", trial.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: %v  %s=%.6e\n", best.Params, sweepMetric, best.Value)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if batchSave {
		for i := range scenario.Runs {
			scenario.Runs[i].Save = true
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Runs))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	outcomes, runErr := automation.RunScenario(ctx, scenario, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tSNAPSHOTS\tENERGY\tRUN ID")
	for _, out := range outcomes {
		runID := out.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6e\t%s\n",
			out.Name, out.Result.StepsTaken, len(out.Result.Snapshots), out.Result.Metrics["energy"], runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
