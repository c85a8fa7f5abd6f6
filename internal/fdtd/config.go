package fdtd

import (
	"fmt"
	"math"
	"strings"
)

// Vacuum constants.
const (
	Eps0 = 8.854187817e-12  // F/m
	Mu0  = 1.25663706212e-6 // H/m
)

// BoundaryKind selects how the two end nodes of E are updated.
type BoundaryKind uint8

const (
	// Reflective pins both end nodes to zero (PEC wall).
	Reflective BoundaryKind = iota
	// Mur1 is the first-order Mur absorbing boundary.
	Mur1
)

var boundaryNames = []string{"reflective", "mur1"}

func (k BoundaryKind) String() string {
	if int(k) < len(boundaryNames) {
		return boundaryNames[k]
	}
	return fmt.Sprintf("BoundaryKind(%d)", uint8(k))
}

func (k BoundaryKind) valid() bool { return int(k) < len(boundaryNames) }

// ParseBoundaryKind accepts the names produced by String, case-insensitively.
func ParseBoundaryKind(name string) (BoundaryKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reflective", "pec":
		return Reflective, nil
	case "mur1", "mur":
		return Mur1, nil
	}
	return 0, &ConfigError{Field: "boundary", Value: name, Reason: "unknown boundary kind (want reflective or mur1)"}
}

// GridConfig is the immutable input of a Solver.
type GridConfig struct {
	N        int     // number of E nodes; H has N-1. Must be >= 3
	Dx       float64 // spatial step [m]
	S        float64 // Courant number c*dt/dx, 0 < S <= 1
	Eps      float64 // permittivity [F/m]
	Mu       float64 // permeability [H/m]
	Boundary BoundaryKind
}

// Validate checks the bounds in the order N, dx, eps, mu, S, boundary and
// reports the first violation. NaN fails every bound.
func (c GridConfig) Validate() error {
	if c.N < 3 {
		return &ConfigError{Field: "N", Value: c.N, Reason: "must be at least 3"}
	}
	if !(c.Dx > 0) {
		return &ConfigError{Field: "dx", Value: c.Dx, Reason: "must be greater than 0"}
	}
	if !(c.Eps > 0) {
		return &ConfigError{Field: "eps", Value: c.Eps, Reason: "must be greater than 0"}
	}
	if !(c.Mu > 0) {
		return &ConfigError{Field: "mu", Value: c.Mu, Reason: "must be greater than 0"}
	}
	if !(c.S > 0 && c.S <= 1) {
		return &ConfigError{Field: "S", Value: c.S, Reason: "must satisfy 0 < S <= 1"}
	}
	if !c.Boundary.valid() {
		return &ConfigError{Field: "boundary", Value: c.Boundary, Reason: "unknown boundary kind"}
	}
	return nil
}

// Params are derived once from a GridConfig.
type Params struct {
	C    float64 // wave speed 1/sqrt(eps*mu)
	Dt   float64 // time step S*dx/c
	Ce   float64 // dt/(eps*dx)
	Ch   float64 // dt/(mu*dx)
	MurK float64 // (c*dt - dx)/(c*dt + dx); zero unless Mur1
}

func deriveParams(c GridConfig) Params {
	p := Params{C: 1.0 / math.Sqrt(c.Eps*c.Mu)}
	p.Dt = c.S * c.Dx / p.C
	p.Ce = p.Dt / (c.Eps * c.Dx)
	p.Ch = p.Dt / (c.Mu * c.Dx)
	if c.Boundary == Mur1 {
		p.MurK = (p.C*p.Dt - c.Dx) / (p.C*p.Dt + c.Dx)
	}
	return p
}
