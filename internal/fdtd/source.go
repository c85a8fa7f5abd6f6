package fdtd

import "math"

// Source yields the amount added to E at the source node during step n,
// where n is the step counter before it is incremented.
type Source interface {
	Value(n int) float64
}

// SourceFunc adapts an ordinary function to Source.
type SourceFunc func(n int) float64

func (f SourceFunc) Value(n int) float64 { return f(n) }

// GaussianPulse is A*exp(-((n-Delay)/Spread)^2), time measured in steps.
type GaussianPulse struct {
	Amplitude float64
	Delay     float64
	Spread    float64
}

// DefaultPulse peaks at step 60 with unit amplitude.
var DefaultPulse = GaussianPulse{Amplitude: 1.0, Delay: 60.0, Spread: 18.0}

func (g GaussianPulse) Value(n int) float64 {
	arg := (float64(n) - g.Delay) / g.Spread
	return g.Amplitude * math.Exp(-(arg * arg))
}

// DefaultSourceIndex is N/4 with integer division.
func DefaultSourceIndex(n int) int { return n / 4 }

// applySource adds the source term at the source node. Soft source: the
// existing field value is kept.
func (s *Solver) applySource() {
	s.e[s.srcIdx] += s.src.Value(s.n)
}
