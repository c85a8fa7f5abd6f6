package fdtd

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every error returned from New.
var ErrInvalidConfig = errors.New("fdtd: invalid grid configuration")

// ConfigError reports the first precondition a GridConfig violates.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fdtd: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// InvariantError signals a programming defect inside the solver. It is
// raised with panic, never returned.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("fdtd: invariant violated in %s: %s", e.Op, e.Detail)
}
