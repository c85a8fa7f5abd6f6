package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/sim"
	"gopkg.in/yaml.v3"
)

// Defaults reproduce the fixed-parameter driver.
const (
	DefaultN                  = 800
	DefaultDx                 = 1e-3
	DefaultCourant            = 0.99
	DefaultSteps              = 1200
	DefaultDumpEvery          = 5
	DefaultStabilityThreshold = 1e6
	DefaultBoundary           = "reflective"
)

var ErrInvalid = errors.New("config: invalid run configuration")

type Config struct {
	Grid               GridConfig   `yaml:"grid"`
	Boundary           string       `yaml:"boundary"`
	Steps              int          `yaml:"steps"`
	DumpEvery          int          `yaml:"dump_every"`
	Workers            int          `yaml:"workers"`
	Source             SourceConfig `yaml:"source"`
	Probe              int          `yaml:"probe"`
	StabilityThreshold float64      `yaml:"stability_threshold"`
}

type GridConfig struct {
	N       int     `yaml:"n"`
	Dx      float64 `yaml:"dx"`
	Courant float64 `yaml:"courant"`
	Eps     float64 `yaml:"eps"`
	Mu      float64 `yaml:"mu"`
}

// SourceConfig describes a Gaussian pulse. Index -1 places it at N/4.
type SourceConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Delay     float64 `yaml:"delay"`
	Spread    float64 `yaml:"spread"`
	Index     int     `yaml:"index"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			N:       DefaultN,
			Dx:      DefaultDx,
			Courant: DefaultCourant,
			Eps:     fdtd.Eps0,
			Mu:      fdtd.Mu0,
		},
		Boundary:  DefaultBoundary,
		Steps:     DefaultSteps,
		DumpEvery: DefaultDumpEvery,
		Workers:   1,
		Source: SourceConfig{
			Amplitude: fdtd.DefaultPulse.Amplitude,
			Delay:     fdtd.DefaultPulse.Delay,
			Spread:    fdtd.DefaultPulse.Spread,
			Index:     -1,
		},
		Probe:              -1,
		StabilityThreshold: DefaultStabilityThreshold,
	}
}

// Load overlays the YAML file at path onto DefaultConfig.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay decodes the YAML file at path over a copy of base. Keys missing
// from the file keep base's values.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// GridConfig converts the file form into the solver's configuration. Only
// the boundary name is checked here; bounds are left to fdtd.
func (c *Config) GridConfig() (fdtd.GridConfig, error) {
	kind, err := fdtd.ParseBoundaryKind(c.Boundary)
	if err != nil {
		return fdtd.GridConfig{}, err
	}
	return fdtd.GridConfig{
		N:        c.Grid.N,
		Dx:       c.Grid.Dx,
		S:        c.Grid.Courant,
		Eps:      c.Grid.Eps,
		Mu:       c.Grid.Mu,
		Boundary: kind,
	}, nil
}

func (c *Config) Pulse() fdtd.GaussianPulse {
	return fdtd.GaussianPulse{
		Amplitude: c.Source.Amplitude,
		Delay:     c.Source.Delay,
		Spread:    c.Source.Spread,
	}
}

func (c *Config) SolverOptions() []fdtd.Option {
	return []fdtd.Option{
		fdtd.WithSource(c.Pulse()),
		fdtd.WithSourceIndex(c.Source.Index),
		fdtd.WithWorkers(c.Workers),
	}
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		Steps:              c.Steps,
		DumpEvery:          c.DumpEvery,
		Probe:              c.Probe,
		StabilityThreshold: c.StabilityThreshold,
	}
}

// NewSolver builds the grid config and constructs a solver from it.
func (c *Config) NewSolver() (*fdtd.Solver, error) {
	gc, err := c.GridConfig()
	if err != nil {
		return nil, err
	}
	return fdtd.New(gc, c.SolverOptions()...)
}

// Validate checks the run settings and then the grid through fdtd.
func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", c.Steps, ErrInvalid)
	}
	if c.DumpEvery < 0 {
		return fmt.Errorf("dump_every must not be negative, got %d: %w", c.DumpEvery, ErrInvalid)
	}
	if c.Probe < -1 || c.Probe >= c.Grid.N {
		return fmt.Errorf("probe %d outside [-1, %d): %w", c.Probe, c.Grid.N, ErrInvalid)
	}
	if !(c.Source.Spread > 0) {
		return fmt.Errorf("source spread must be positive, got %g: %w", c.Source.Spread, ErrInvalid)
	}
	gc, err := c.GridConfig()
	if err != nil {
		return err
	}
	return gc.Validate()
}
