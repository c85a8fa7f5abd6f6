package optim

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/experiment"
)

// Param is one swept configuration value.
type Param struct {
	Name   string
	Values []float64
}

// ParseParam reads name=v1,v2,... as used on the command line.
func ParseParam(s string) (Param, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return Param{}, fmt.Errorf("parameter %q: want name=v1,v2,...", s)
	}
	p := Param{Name: strings.TrimSpace(name)}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Param{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// ApplyParam sets a named numeric field of cfg.
func ApplyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "courant":
		cfg.Grid.Courant = v
	case "dx":
		cfg.Grid.Dx = v
	case "n":
		cfg.Grid.N = int(v)
	case "amplitude":
		cfg.Source.Amplitude = v
	case "delay":
		cfg.Source.Delay = v
	case "spread":
		cfg.Source.Spread = v
	case "steps":
		cfg.Steps = int(v)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Search runs every grid point and returns the one minimising metricName,
// along with all trials in grid order. Failed trials are kept with Err
// set; only context cancellation stops the search early.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	trials := make([]Trial, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		trial := Trial{Params: params}
		trial.Value, trial.Err = evaluate(ctx, buildExperiment, params, metricName)
		trials = append(trials, trial)
		if trial.Err == nil && trial.Value < best.Value {
			best = trial
		}
	})
	if err != nil {
		return best, trials, err
	}
	if best.Params == nil {
		return best, trials, fmt.Errorf("no successful trial")
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.params) {
		visit(maps.Clone(current))
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}

func evaluate(
	ctx context.Context,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	params map[string]float64,
	metricName string,
) (float64, error) {
	exp, err := buildExperiment(params)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("metric %s not recorded", metricName)
	}
	return val, nil
}

// ConfigBuilder returns a buildExperiment function that applies each grid
// point to a copy of base and sets the experiment up with its default
// metrics.
func ConfigBuilder(base *config.Config) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := ApplyParam(cfg, name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New("sweep", cfg)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
