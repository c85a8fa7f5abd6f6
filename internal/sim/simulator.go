package sim

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Runner drives a Stepper for a fixed number of steps, feeding every
// completed step to its metrics and observers.
type Runner struct {
	solver    Stepper
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(solver Stepper) *Runner {
	return &Runner{
		solver:    solver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default().With(slog.String("component", "sim")),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetLogger replaces the default component logger.
func (r *Runner) SetLogger(l *slog.Logger) { r.logger = l }

// Solver returns the driven stepper.
func (r *Runner) Solver() Stepper { return r.solver }

// Run steps the solver cfg.Steps times. Cancellation is checked between
// steps. On cancellation or instability the partial result is returned
// together with a *RunError.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, ErrNoSteps
	}

	e := r.solver.ReadE(nil)
	h := r.solver.ReadH(nil)
	if cfg.Probe >= len(e) {
		return nil, ErrProbeRange
	}

	result := &Result{
		Metrics: make(map[string]float64),
	}
	if cfg.DumpEvery > 0 {
		result.Snapshots = make([]Snapshot, 0, cfg.Steps/cfg.DumpEvery+1)
	}
	if cfg.Probe >= 0 {
		result.ProbeTimes = make([]float64, 0, cfg.Steps)
		result.ProbeE = make([]float64, 0, cfg.Steps)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.logger.Debug("run started", slog.Int("steps", cfg.Steps), slog.Int("dump_every", cfg.DumpEvery))

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = &RunError{Step: r.solver.Steps(), Time: r.solver.Time(), Wrapped: err}
			break
		}

		r.solver.Step()
		result.StepsTaken++

		e = r.solver.ReadE(e)
		h = r.solver.ReadH(h)
		f := Frame{Step: r.solver.Steps(), Time: r.solver.Time(), E: e, H: h}

		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnStep(f)
		}

		if cfg.Probe >= 0 {
			result.ProbeTimes = append(result.ProbeTimes, f.Time)
			result.ProbeE = append(result.ProbeE, e[cfg.Probe])
		}
		if cfg.DumpEvery > 0 && i%cfg.DumpEvery == 0 {
			result.Snapshots = append(result.Snapshots, Snapshot{
				Index: i,
				Time:  f.Time,
				E:     cloneField(e),
				H:     cloneField(h),
			})
		}

		if cfg.StabilityThreshold > 0 && !stable(e, h, cfg.StabilityThreshold) {
			runErr = &RunError{Step: f.Step, Time: f.Time, Wrapped: ErrUnstable}
			r.logger.Warn("run unstable", slog.Int("step", f.Step), slog.Float64("threshold", cfg.StabilityThreshold))
			break
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.logger.Debug("run finished", slog.Int("steps_taken", result.StepsTaken), slog.Int("snapshots", len(result.Snapshots)))
	return result, runErr
}

// RunWithCallback steps until cfg.Steps is reached or callback returns false.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if cfg.Steps <= 0 {
		return ErrNoSteps
	}

	e := r.solver.ReadE(nil)
	h := r.solver.ReadH(nil)
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return &RunError{Step: r.solver.Steps(), Time: r.solver.Time(), Wrapped: ctx.Err()}
		default:
		}

		r.solver.Step()
		e = r.solver.ReadE(e)
		h = r.solver.ReadH(h)
		if !callback(Frame{Step: r.solver.Steps(), Time: r.solver.Time(), E: e, H: h}) {
			return nil
		}
		if cfg.StabilityThreshold > 0 && !stable(e, h, cfg.StabilityThreshold) {
			return &RunError{Step: r.solver.Steps(), Time: r.solver.Time(), Wrapped: ErrUnstable}
		}
	}
	return nil
}

func stable(e, h []float64, threshold float64) bool {
	if floats.HasNaN(e) || floats.HasNaN(h) {
		return false
	}
	return floats.Norm(e, math.Inf(1)) <= threshold
}

func cloneField(s []float64) []float64 {
	c := make([]float64, len(s))
	copy(c, s)
	return c
}
