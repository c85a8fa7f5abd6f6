package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/metrics"
	"github.com/san-kum/yee1d/internal/sim"
)

// MetricFactory builds a metric for one run.
type MetricFactory func(cfg *config.Config, grid fdtd.GridConfig) sim.Metric

type Registry struct {
	metrics map[string]MetricFactory
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]MetricFactory)}

	r.metrics["energy"] = func(_ *config.Config, grid fdtd.GridConfig) sim.Metric {
		return metrics.NewEnergy(grid)
	}
	r.metrics["energy_drift"] = func(cfg *config.Config, grid fdtd.GridConfig) sim.Metric {
		return metrics.NewEnergyDrift(grid, SourceSettled(cfg))
	}
	r.metrics["stability"] = func(cfg *config.Config, _ fdtd.GridConfig) sim.Metric {
		return metrics.NewStability(cfg.StabilityThreshold)
	}
	r.metrics["boundary_peak"] = func(_ *config.Config, _ fdtd.GridConfig) sim.Metric {
		return metrics.NewBoundaryPeak()
	}
	return r
}

func (r *Registry) GetMetric(name string, cfg *config.Config, grid fdtd.GridConfig) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg, grid), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns every registered metric. Energy drift only makes
// sense between reflective walls, so absorbing runs leave it out.
func (r *Registry) DefaultMetrics(cfg *config.Config, grid fdtd.GridConfig) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		if name == "energy_drift" && grid.Boundary != fdtd.Reflective {
			continue
		}
		out = append(out, r.metrics[name](cfg, grid))
	}
	return out
}

// SourceSettled is the first step at which the Gaussian source term is
// below 1e-15 of its amplitude, Delay + 6*Spread rounded up.
func SourceSettled(cfg *config.Config) int {
	return int(math.Ceil(cfg.Source.Delay + 6*cfg.Source.Spread))
}
