// Package fdtd implements a one-dimensional finite-difference time-domain
// solver for Maxwell's equations on a staggered (Yee) grid.
//
// The solver owns two field arrays:
//
//   - E: N samples at integer grid positions 0..N-1
//   - H: N-1 samples at the half-integer positions between E nodes
//
// Each call to [Solver.Step] advances both fields by one leapfrog step:
// H from E, then the interior of E from H, then a soft source is added and
// the two boundary E nodes are set by the selected [BoundaryKind].
//
// # Example
//
//	cfg := fdtd.GridConfig{N: 800, Dx: 1e-3, S: 0.99, Eps: fdtd.Eps0, Mu: fdtd.Mu0, Boundary: fdtd.Mur1}
//	s, err := fdtd.New(cfg)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 1200; i++ {
//	    s.Step()
//	}
//	e := s.E()
//
// # Thread Safety
//
// A Solver is NOT safe for concurrent use. [WithWorkers] parallelises the
// two stencil loops inside a step; callers still drive Step from one
// goroutine and read fields between steps.
package fdtd
