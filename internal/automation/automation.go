package automation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/san-kum/yee1d/internal/config"
	"github.com/san-kum/yee1d/internal/experiment"
	"github.com/san-kum/yee1d/internal/optim"
	"github.com/san-kum/yee1d/internal/sim"
	"github.com/san-kum/yee1d/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Runs        []ScenarioStep `yaml:"runs"`

	dir string // directory of the scenario file; config paths resolve against it
}

// ScenarioStep is one run: a preset or config file, then overrides.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Boundary string             `yaml:"boundary"`
	Set      map[string]float64 `yaml:"set"`
	Save     bool               `yaml:"save"`
}

// Outcome is the result of one scenario step. RunID is empty unless the
// step was saved.
type Outcome struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %s: no runs", path)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Build resolves a step into a validated run configuration.
func (s *Scenario) Build(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.Config != "" {
		path := step.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.Overlay(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if step.Boundary != "" {
		cfg.Boundary = step.Boundary
	}
	for _, name := range slices.Sorted(maps.Keys(step.Set)) {
		if err := optim.ApplyParam(cfg, name, step.Set[name]); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Steps marked save are written to
// st, which may be nil when nothing is saved. The first failing step stops
// the scenario; outcomes of earlier steps are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]Outcome, error) {
	logger := slog.Default().With(slog.String("component", "automation"), slog.String("scenario", scenario.Name))
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, step := range scenario.Runs {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		logger.Info("running step", slog.Int("index", i+1), slog.Int("total", len(scenario.Runs)), slog.String("name", name))

		cfg, err := scenario.Build(step)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		exp := experiment.New(name, cfg)
		if err := exp.Setup(); err != nil {
			return outcomes, fmt.Errorf("step %d (%s) setup: %w", i+1, name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		out := Outcome{Name: name, Result: result}
		if step.Save {
			if st == nil {
				return outcomes, fmt.Errorf("step %d (%s): save requested without a store", i+1, name)
			}
			if out.RunID, err = st.Save(exp.StorageRun(), result); err != nil {
				return outcomes, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}
