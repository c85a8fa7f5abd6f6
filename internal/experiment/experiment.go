package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/sim"
	"github.com/san-kum/yee1d/internal/storage"
)

// Experiment wires a run configuration to a solver, a runner and its
// metrics.
type Experiment struct {
	name   string
	cfg    *config.Config
	solver *fdtd.Solver
	runner *sim.Runner
}

func New(name string, cfg *config.Config) *Experiment {
	return &Experiment{name: name, cfg: cfg}
}

// Setup validates the configuration and builds the solver. With no metrics
// the registry defaults are attached.
func (e *Experiment) Setup(metrics ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	s, err := e.cfg.NewSolver()
	if err != nil {
		return err
	}
	e.solver = s
	e.runner = sim.New(s)

	if len(metrics) == 0 {
		metrics = NewRegistry().DefaultMetrics(e.cfg, s.Config())
	}
	for _, m := range metrics {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, e.cfg.RunConfig())
}

func (e *Experiment) Solver() *fdtd.Solver { return e.solver }

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner { return e.runner }

// StorageRun describes the experiment for storage.Store.Save.
func (e *Experiment) StorageRun() storage.Run {
	return storage.Run{
		Name:        e.name,
		Grid:        e.solver.Config(),
		Dt:          e.solver.Params().Dt,
		Pulse:       e.cfg.Pulse(),
		SourceIndex: e.solver.SourceIndex(),
		Config:      e.cfg.RunConfig(),
	}
}
