package sim

import (
	"errors"
	"fmt"
)

// Stepper is the solver surface the runner drives. *fdtd.Solver satisfies it.
type Stepper interface {
	Step()
	Steps() int
	Time() float64
	ReadE(dst []float64) []float64
	ReadH(dst []float64) []float64
}

// Frame is the field state after a completed step. E and H are only valid
// until the next step; observers that keep data must copy it.
type Frame struct {
	Step int     // completed steps
	Time float64 // simulated seconds
	E, H []float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

type Config struct {
	Steps int
	// DumpEvery records a snapshot after loop index i when i%DumpEvery == 0.
	// Zero disables snapshots.
	DumpEvery int
	// Probe is an E index sampled after every step; negative disables it.
	Probe int
	// StabilityThreshold stops the run once max|E| exceeds it or a NaN
	// appears. Zero disables the check.
	StabilityThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Steps:              1200,
		DumpEvery:          5,
		Probe:              -1,
		StabilityThreshold: 1e6,
	}
}

// Snapshot is a copy of the fields taken after loop index Index, that is
// after Index+1 completed steps.
type Snapshot struct {
	Index int
	Time  float64
	E, H  []float64
}

type Result struct {
	Snapshots  []Snapshot
	ProbeTimes []float64
	ProbeE     []float64
	Metrics    map[string]float64
	StepsTaken int
}

// Domain errors for runs.
var (
	// ErrUnstable indicates the fields diverged or became NaN.
	ErrUnstable = errors.New("sim: fields unstable (NaN or above threshold)")

	// ErrNoSteps indicates a run with a non-positive step count.
	ErrNoSteps = errors.New("sim: step count must be positive")

	// ErrProbeRange indicates a probe index outside the E array.
	ErrProbeRange = errors.New("sim: probe index outside the grid")
)

// RunError wraps an error with the step at which the run stopped.
type RunError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4es): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
