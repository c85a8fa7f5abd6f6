package fdtd

// murHistory is the Mur1 payload: the reflection coefficient and the
// previous-step E samples at each boundary node and its inward neighbour.
type murHistory struct {
	k                 float64
	leftPrev          float64
	leftNeighborPrev  float64
	rightPrev         float64
	rightNeighborPrev float64
}

// applyBoundary sets E[0] and E[N-1] for the configured boundary kind.
func (s *Solver) applyBoundary() {
	e := s.e
	last := len(e) - 1

	switch s.cfg.Boundary {
	case Reflective:
		e[0] = 0
		e[last] = 0

	case Mur1:
		m := s.mur
		// All four snapshots are taken before either end node is written.
		e0Old, e1Old := e[0], e[1]
		eNOld, eNm1Old := e[last], e[last-1]

		e[0] = m.leftNeighborPrev + m.k*(e[1]-m.leftPrev)
		e[last] = m.rightNeighborPrev + m.k*(e[last-1]-m.rightPrev)

		m.leftPrev, m.leftNeighborPrev = e0Old, e1Old
		m.rightPrev, m.rightNeighborPrev = eNOld, eNm1Old

	default:
		panic(&InvariantError{Op: "applyBoundary", Detail: "unknown boundary kind " + s.cfg.Boundary.String()})
	}
}
