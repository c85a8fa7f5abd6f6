package fdtd

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFDTD(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FDTD Suite")
}

func vacuum(n int, kind BoundaryKind) GridConfig {
	return GridConfig{N: n, Dx: 1e-3, S: 0.99, Eps: Eps0, Mu: Mu0, Boundary: kind}
}

func mustNew(cfg GridConfig, opts ...Option) *Solver {
	s, err := New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// fieldEnergy is sum(eps*E^2 + mu*H^2)*dx/2.
func fieldEnergy(s *Solver) float64 {
	cfg := s.Config()
	var we, wh float64
	for _, v := range s.e {
		we += v * v
	}
	for _, v := range s.h {
		wh += v * v
	}
	return 0.5 * cfg.Dx * (cfg.Eps*we + cfg.Mu*wh)
}
