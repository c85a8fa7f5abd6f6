package fdtd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reflective boundary", func() {
	It("holds both end nodes at exactly zero every step", func() {
		s := mustNew(vacuum(120, Reflective))
		for i := 0; i < 1000; i++ {
			s.Step()
			Expect(s.e[0]).To(Equal(0.0), "step %d", i)
			Expect(s.e[len(s.e)-1]).To(Equal(0.0), "step %d", i)
		}
		Expect(fieldEnergy(s)).To(BeNumerically(">", 0))
	})

	It("erases the default source on the minimum grid, where N/4 is the wall", func() {
		s := mustNew(vacuum(3, Reflective))
		Expect(s.SourceIndex()).To(Equal(0))
		s.Run(200)
		Expect(s.E()).To(HaveEach(0.0))
		Expect(s.H()).To(HaveEach(0.0))
	})
})

var _ = Describe("Mur1 boundary", func() {
	It("leaves far less energy in the domain than Reflective once the pulse has left", func() {
		const n, steps = 200, 600
		refl := mustNew(vacuum(n, Reflective))
		mur := mustNew(vacuum(n, Mur1))
		refl.Run(steps)
		mur.Run(steps)

		re, me := fieldEnergy(refl), fieldEnergy(mur)
		Expect(re).To(BeNumerically(">", 0))
		Expect(me).To(BeNumerically("<", 1e-2*re))

		peak := func(e []float64) float64 {
			m := 0.0
			for _, v := range e {
				if v < 0 {
					v = -v
				}
				if v > m {
					m = v
				}
			}
			return m
		}
		Expect(peak(mur.E())).To(BeNumerically("<", 0.1*peak(refl.E())))
	})

	It("writes history from the pre-update snapshot", func() {
		s := mustNew(vacuum(10, Mur1))
		s.e = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		s.mur.leftPrev, s.mur.leftNeighborPrev = 0.5, 0.25
		s.mur.rightPrev, s.mur.rightNeighborPrev = -0.5, -0.25
		k := s.mur.k

		s.applyBoundary()

		Expect(s.e[0]).To(Equal(0.25 + k*(2-0.5)))
		Expect(s.e[9]).To(Equal(-0.25 + k*(9-(-0.5))))
		Expect(s.mur.leftPrev).To(Equal(1.0))
		Expect(s.mur.leftNeighborPrev).To(Equal(2.0))
		Expect(s.mur.rightPrev).To(Equal(10.0))
		Expect(s.mur.rightNeighborPrev).To(Equal(9.0))
		Expect(s.e[1:9]).To(Equal([]float64{2, 3, 4, 5, 6, 7, 8, 9}))
	})

	DescribeTable("on the minimum grid both sides read the shared node 1 without aliasing",
		func(srcIdx int) {
			cfg := vacuum(3, Mur1)
			s := mustNew(cfg, WithSourceIndex(srcIdx))
			p := s.Params()

			// Independent replay of one step on three nodes.
			var (
				e                [3]float64
				h                [2]float64
				lp, lnp, rp, rnp float64
			)
			for n := 0; n < 150; n++ {
				h[0] += p.Ch * (e[1] - e[0])
				h[1] += p.Ch * (e[2] - e[1])
				e[1] += p.Ce * (h[1] - h[0])
				e[srcIdx] += DefaultPulse.Value(n)

				e0, e1, e2 := e[0], e[1], e[2]
				e[0] = lnp + p.MurK*(e1-lp)
				e[2] = rnp + p.MurK*(e1-rp)
				lp, lnp, rp, rnp = e0, e1, e2, e1

				s.Step()
				Expect(s.E()).To(Equal(e[:]), "step %d", n)
				Expect(s.H()).To(Equal(h[:]), "step %d", n)
				Expect(s.mur.leftNeighborPrev).To(Equal(s.mur.rightNeighborPrev))
			}
		},
		Entry("default source on the left wall", 0),
		Entry("source on the shared interior node", 1),
		Entry("source on the right wall", 2),
	)
})

var _ = Describe("boundary dispatch", func() {
	It("panics with an InvariantError on an unknown kind", func() {
		s := &Solver{cfg: GridConfig{N: 3, Boundary: BoundaryKind(42)}, e: make([]float64, 3)}
		Expect(s.applyBoundary).To(PanicWith(BeAssignableToTypeOf(&InvariantError{})))
	})
})
