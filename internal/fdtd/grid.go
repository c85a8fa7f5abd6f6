package fdtd

import "gonum.org/v1/gonum/floats"

// Coordinates returns the E node positions x[i] = i*dx, len N.
func Coordinates(cfg GridConfig) []float64 {
	if cfg.N <= 0 {
		return nil
	}
	x := make([]float64, cfg.N)
	if cfg.N == 1 {
		return x
	}
	return floats.Span(x, 0, float64(cfg.N-1)*cfg.Dx)
}

// HalfCoordinates returns the H node positions (i+1/2)*dx, len N-1.
func HalfCoordinates(cfg GridConfig) []float64 {
	if cfg.N < 2 {
		return nil
	}
	x := make([]float64, cfg.N-1)
	if cfg.N == 2 {
		x[0] = 0.5 * cfg.Dx
		return x
	}
	return floats.Span(x, 0.5*cfg.Dx, (float64(cfg.N)-1.5)*cfg.Dx)
}
