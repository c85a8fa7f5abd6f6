package metrics

import (
	"math"

	"github.com/san-kum/yee1d/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// Stability is the fraction of frames whose E field stayed finite and
// within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if floats.HasNaN(f.E) || floats.Norm(f.E, math.Inf(1)) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// BoundaryPeak is the largest |E| seen on either end node. It is zero for
// a reflective boundary and measures what an absorbing boundary lets
// through.
type BoundaryPeak struct {
	name string
	peak float64
}

func NewBoundaryPeak() *BoundaryPeak {
	return &BoundaryPeak{name: "boundary_peak"}
}

func (b *BoundaryPeak) Name() string { return b.name }

func (b *BoundaryPeak) Observe(f sim.Frame) {
	if len(f.E) == 0 {
		return
	}
	b.peak = math.Max(b.peak, math.Max(math.Abs(f.E[0]), math.Abs(f.E[len(f.E)-1])))
}

func (b *BoundaryPeak) Value() float64 { return b.peak }

func (b *BoundaryPeak) Reset() { b.peak = 0 }
