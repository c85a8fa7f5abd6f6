package metrics

import (
	"math"

	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// FieldEnergy is the discrete electromagnetic energy per unit area,
// dx/2 * (eps*sum(E^2) + mu*sum(H^2)).
func FieldEnergy(cfg fdtd.GridConfig, e, h []float64) float64 {
	return 0.5 * cfg.Dx * (cfg.Eps*floats.Dot(e, e) + cfg.Mu*floats.Dot(h, h))
}

// Energy reports the field energy of the last observed frame.
type Energy struct {
	name    string
	cfg     fdtd.GridConfig
	current float64
	peak    float64
}

func NewEnergy(cfg fdtd.GridConfig) *Energy {
	return &Energy{
		name: "energy",
		cfg:  cfg,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.current = FieldEnergy(e.cfg, f.E, f.H)
	e.peak = math.Max(e.peak, e.current)
}

func (e *Energy) Value() float64 { return e.current }

// Peak is the largest energy seen since the last reset.
func (e *Energy) Peak() float64 { return e.peak }

func (e *Energy) Reset() {
	e.current = 0
	e.peak = 0
}

// EnergyDrift tracks the largest relative departure of the field energy
// from its value at step From. Frames before From are ignored, which lets
// the source finish injecting before the reference is taken.
type EnergyDrift struct {
	name      string
	cfg       fdtd.GridConfig
	from      int
	reference float64
	maxDrift  float64
	seen      bool
}

func NewEnergyDrift(cfg fdtd.GridConfig, from int) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		cfg:  cfg,
		from: from,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	if f.Step < e.from {
		return
	}
	energy := FieldEnergy(e.cfg, f.E, f.H)

	if !e.seen {
		e.reference = energy
		e.seen = true
	}

	if e.reference != 0 {
		drift := math.Abs(energy-e.reference) / e.reference
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.reference = 0
	e.maxDrift = 0
	e.seen = false
}
