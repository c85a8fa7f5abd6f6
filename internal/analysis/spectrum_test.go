package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, freq, dt float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}
	return out
}

func TestComputeSpectrumPeak(t *testing.T) {
	spec, err := ComputeSpectrum(sine(200, 5, 0.01), 0.01)
	require.NoError(t, err)

	require.Len(t, spec.Freqs, 101)
	require.Len(t, spec.Magnitude, 101)
	assert.InDelta(t, 0.5, spec.Freqs[1], 1e-12)
	assert.InDelta(t, 5.0, spec.Dominant(), 1e-9)
	// a unit sine splits its amplitude over the two mirrored bins
	assert.InDelta(t, 0.5, spec.Magnitude[10], 1e-9)
}

func TestComputeSpectrumPowerOfTwo(t *testing.T) {
	spec, err := ComputeSpectrum(sine(256, 12.5, 1.0/200), 1.0/200)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, spec.Dominant(), 200.0/256)
}

func TestComputeSpectrumErrors(t *testing.T) {
	_, err := ComputeSpectrum([]float64{1}, 0.1)
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = ComputeSpectrum([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrBadInterval)

	_, err = ComputeSpectrum([]float64{1, 2}, math.NaN())
	assert.ErrorIs(t, err, ErrBadInterval)
}

func TestDominantIgnoresDC(t *testing.T) {
	data := sine(100, 10, 0.01)
	for i := range data {
		data[i] += 50
	}
	spec, err := ComputeSpectrum(data, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, spec.Dominant(), 1e-9)
}

func TestHann(t *testing.T) {
	w := Hann([]float64{1, 1, 1, 1, 1})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5, 0}, w, 1e-12)
	assert.Equal(t, []float64{3}, Hann([]float64{3}))
	assert.Empty(t, Hann(nil))
}

func TestReflectionRatio(t *testing.T) {
	ratio, err := ReflectionRatio([]float64{0.3, 0.4}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, ratio, 1e-12)

	_, err = ReflectionRatio([]float64{1}, []float64{0})
	assert.ErrorIs(t, err, ErrZeroReference)

	_, err = ReflectionRatio([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
