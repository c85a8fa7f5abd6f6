package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrTooShort       = errors.New("analysis: need at least two samples")
	ErrBadInterval    = errors.New("analysis: sample interval must be positive")
	ErrZeroReference  = errors.New("analysis: reference field is zero")
	ErrLengthMismatch = errors.New("analysis: series lengths differ")
)

// Spectrum is the one-sided magnitude spectrum of a real series. Bin k
// holds frequency k/(n*dt) for k = 0..n/2.
type Spectrum struct {
	Freqs     []float64
	Magnitude []float64
}

// ComputeSpectrum transforms samples taken every dt seconds. Any length is
// accepted; go-dsp falls back to Bluestein for non powers of two.
func ComputeSpectrum(samples []float64, dt float64) (*Spectrum, error) {
	n := len(samples)
	if n < 2 {
		return nil, ErrTooShort
	}
	if !(dt > 0) {
		return nil, ErrBadInterval
	}

	coeffs := fft.FFTReal(samples)
	bins := n/2 + 1
	spec := &Spectrum{
		Freqs:     make([]float64, bins),
		Magnitude: make([]float64, bins),
	}
	df := 1 / (float64(n) * dt)
	for k := 0; k < bins; k++ {
		spec.Freqs[k] = float64(k) * df
		spec.Magnitude[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return spec, nil
}

// Dominant returns the frequency of the largest bin above DC, or 0 when
// the spectrum has no such bin.
func (s *Spectrum) Dominant() float64 {
	if len(s.Magnitude) < 2 {
		return 0
	}
	return s.Freqs[1+floats.MaxIdx(s.Magnitude[1:])]
}

// Hann applies a Hann window to a copy of samples.
func Hann(samples []float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	if n == 1 {
		out[0] = samples[0]
		return out
	}
	for i, v := range samples {
		out[i] = v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return out
}

// ReflectionRatio is the L2 norm of test over that of reference. With the
// fields of an absorbing run as test and a reflective run as reference,
// both taken after the pulse has reached the walls, it measures how much
// of the wave the absorbing boundary sent back.
func ReflectionRatio(test, reference []float64) (float64, error) {
	if len(test) != len(reference) {
		return 0, ErrLengthMismatch
	}
	ref := floats.Norm(reference, 2)
	if ref == 0 {
		return 0, ErrZeroReference
	}
	return floats.Norm(test, 2) / ref, nil
}
