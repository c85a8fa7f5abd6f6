package config

import (
	"maps"
	"slices"
)

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"vacuum-reflective": DefaultConfig(),
	"vacuum-mur": preset(func(c *Config) {
		c.Boundary = "mur1"
	}),
	// Mur1 is exact at S=1: the coefficient vanishes and the boundary
	// copies the neighbour's previous value.
	"courant-limit": preset(func(c *Config) {
		c.Grid.Courant = 1.0
		c.Boundary = "mur1"
	}),
	"coarse": preset(func(c *Config) {
		c.Grid.N = 200
		c.Grid.Dx = 4e-3
		c.Steps = 600
		c.DumpEvery = 10
		c.Boundary = "mur1"
	}),
	"degenerate": preset(func(c *Config) {
		c.Grid.N = 3
		c.Steps = 20
		c.DumpEvery = 1
		c.Boundary = "mur1"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
