package fdtd

import (
	"fmt"
	"testing"
)

func BenchmarkStep(b *testing.B) {
	for _, n := range []int{800, 10000, 100000} {
		for _, workers := range []int{1, 4} {
			b.Run(fmt.Sprintf("N=%d/workers=%d", n, workers), func(b *testing.B) {
				s, err := New(GridConfig{N: n, Dx: 1e-3, S: 0.99, Eps: Eps0, Mu: Mu0, Boundary: Mur1}, WithWorkers(workers))
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					s.Step()
				}
			})
		}
	}
}

func BenchmarkReadE(b *testing.B) {
	s, err := New(GridConfig{N: 800, Dx: 1e-3, S: 0.99, Eps: Eps0, Mu: Mu0})
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]float64, 800)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = s.ReadE(buf)
	}
}
