package fdtd

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	DescribeTable("rejects configurations outside the stable bounds",
		func(mutate func(*GridConfig), field string) {
			cfg := vacuum(10, Reflective)
			mutate(&cfg)

			s, err := New(cfg)
			Expect(s).To(BeNil())
			Expect(err).To(MatchError(ErrInvalidConfig))

			var ce *ConfigError
			Expect(err).To(BeAssignableToTypeOf(ce))
			Expect(err.(*ConfigError).Field).To(Equal(field))
		},
		Entry("N = 2", func(c *GridConfig) { c.N = 2 }, "N"),
		Entry("N = 0", func(c *GridConfig) { c.N = 0 }, "N"),
		Entry("N negative", func(c *GridConfig) { c.N = -5 }, "N"),
		Entry("dx = 0", func(c *GridConfig) { c.Dx = 0 }, "dx"),
		Entry("dx negative", func(c *GridConfig) { c.Dx = -1e-3 }, "dx"),
		Entry("dx NaN", func(c *GridConfig) { c.Dx = math.NaN() }, "dx"),
		Entry("eps = 0", func(c *GridConfig) { c.Eps = 0 }, "eps"),
		Entry("eps negative", func(c *GridConfig) { c.Eps = -Eps0 }, "eps"),
		Entry("mu = 0", func(c *GridConfig) { c.Mu = 0 }, "mu"),
		Entry("mu negative", func(c *GridConfig) { c.Mu = -Mu0 }, "mu"),
		Entry("S = 0", func(c *GridConfig) { c.S = 0 }, "S"),
		Entry("S negative", func(c *GridConfig) { c.S = -0.5 }, "S"),
		Entry("S just above 1", func(c *GridConfig) { c.S = math.Nextafter(1, 2) }, "S"),
		Entry("S = 2", func(c *GridConfig) { c.S = 2 }, "S"),
		Entry("S NaN", func(c *GridConfig) { c.S = math.NaN() }, "S"),
		Entry("unknown boundary", func(c *GridConfig) { c.Boundary = BoundaryKind(9) }, "boundary"),
	)

	It("reports the first violated bound in N, dx, eps, mu, S order", func() {
		_, err := New(GridConfig{N: 1, Dx: -1, S: 5, Eps: 0, Mu: 0})
		Expect(err.(*ConfigError).Field).To(Equal("N"))

		_, err = New(GridConfig{N: 3, Dx: 1, S: 5, Eps: 0, Mu: 0})
		Expect(err.(*ConfigError).Field).To(Equal("eps"))
	})

	DescribeTable("allocates zeroed fields for valid configurations",
		func(cfg GridConfig) {
			s := mustNew(cfg)
			Expect(s.E()).To(HaveLen(cfg.N))
			Expect(s.H()).To(HaveLen(cfg.N - 1))
			Expect(s.E()).To(HaveEach(0.0))
			Expect(s.H()).To(HaveEach(0.0))
			Expect(s.Steps()).To(Equal(0))
			Expect(s.Config()).To(Equal(cfg))
		},
		Entry("minimum grid", vacuum(3, Reflective)),
		Entry("minimum grid, Mur1", vacuum(3, Mur1)),
		Entry("reference grid", vacuum(800, Reflective)),
		Entry("Courant limit", GridConfig{N: 50, Dx: 0.5, S: 1, Eps: 1, Mu: 1, Boundary: Mur1}),
		Entry("tiny Courant number", GridConfig{N: 4, Dx: 1, S: 1e-9, Eps: 2, Mu: 3}),
	)

	It("allocates Mur history only for Mur1", func() {
		Expect(mustNew(vacuum(10, Reflective)).mur).To(BeNil())

		m := mustNew(vacuum(10, Mur1)).mur
		Expect(m).NotTo(BeNil())
		Expect([]float64{m.leftPrev, m.leftNeighborPrev, m.rightPrev, m.rightNeighborPrev}).To(HaveEach(0.0))
	})

	It("rejects a source index outside the grid", func() {
		_, err := New(vacuum(10, Reflective), WithSourceIndex(10))
		Expect(err).To(MatchError(ErrInvalidConfig))
		_, err = New(vacuum(10, Reflective), WithSourceIndex(-2))
		Expect(err).To(MatchError(ErrInvalidConfig))
		_, err = New(vacuum(10, Reflective), WithSource(nil))
		Expect(err).To(MatchError(ErrInvalidConfig))
	})
})

var _ = Describe("Params", func() {
	It("derives wave speed, time step and coefficients from vacuum constants", func() {
		cfg := vacuum(800, Mur1)
		p := mustNew(cfg).Params()

		c := 1 / math.Sqrt(Eps0*Mu0)
		dt := cfg.S * cfg.Dx / c
		Expect(p.C).To(BeNumerically("~", c, c*1e-15))
		Expect(p.C).To(BeNumerically("~", 299792458.0, 1.0))
		Expect(p.Dt).To(BeNumerically("~", dt, dt*1e-15))
		Expect(p.Ce).To(BeNumerically("~", dt/(Eps0*cfg.Dx), dt/(Eps0*cfg.Dx)*1e-12))
		Expect(p.Ch).To(BeNumerically("~", dt/(Mu0*cfg.Dx), dt/(Mu0*cfg.Dx)*1e-12))
		Expect(p.MurK).To(BeNumerically("~", (cfg.S-1)/(cfg.S+1), 1e-12))
	})

	It("keeps ce*ch equal to S squared", func() {
		for _, s := range []float64{0.1, 0.5, 0.99, 1} {
			cfg := GridConfig{N: 5, Dx: 2e-3, S: s, Eps: 4 * Eps0, Mu: Mu0}
			p := mustNew(cfg).Params()
			Expect(p.Ce * p.Ch).To(BeNumerically("~", s*s, 1e-12))
		}
	})

	It("leaves MurK at zero for Reflective", func() {
		Expect(mustNew(vacuum(10, Reflective)).Params().MurK).To(BeZero())
	})

	It("gives a zero Mur coefficient at the magic time step", func() {
		p := mustNew(GridConfig{N: 10, Dx: 1, S: 1, Eps: 1, Mu: 1, Boundary: Mur1}).Params()
		Expect(p.MurK).To(BeNumerically("~", 0, 1e-15))
	})
})

var _ = Describe("Step", func() {
	It("advances the step counter and simulated time", func() {
		s := mustNew(vacuum(100, Reflective))
		s.Run(7)
		Expect(s.Steps()).To(Equal(7))
		Expect(s.Time()).To(BeNumerically("~", 7*s.Params().Dt, 1e-24))
	})

	It("returns copies of the field arrays", func() {
		s := mustNew(vacuum(100, Reflective))
		s.Run(80)
		e := s.E()
		want := e[s.SourceIndex()]
		e[s.SourceIndex()] = 1e9
		Expect(s.E()[s.SourceIndex()]).To(Equal(want))

		buf := make([]float64, 0, 200)
		out := s.ReadH(buf)
		Expect(out).To(HaveLen(99))
		Expect(&out[0]).To(BeIdenticalTo(&buf[:1][0]))
	})

	It("injects the pulse peak at the source node during step n = 60", func() {
		s := mustNew(vacuum(800, Reflective))
		Expect(s.SourceIndex()).To(Equal(200))
		s.Run(60)
		Expect(s.Steps()).To(Equal(60))

		s.updateH()
		s.updateE()
		before := s.e[200]
		s.applySource()
		Expect(s.e[200] - before).To(BeNumerically("~", 1.0, 1e-12))
		s.applyBoundary()
		s.n++

		Expect(DefaultPulse.Value(60)).To(Equal(1.0))
		Expect(DefaultPulse.Value(59)).To(BeNumerically("<", 1.0))
		Expect(DefaultPulse.Value(61)).To(Equal(DefaultPulse.Value(59)))
	})

	It("uses a custom source at a custom index", func() {
		calls := 0
		src := SourceFunc(func(n int) float64 {
			calls++
			if n == 0 {
				return 2.5
			}
			return 0
		})
		s := mustNew(vacuum(20, Reflective), WithSource(src), WithSourceIndex(7))
		s.Step()
		Expect(calls).To(Equal(1))
		e := s.E()
		Expect(e[7]).To(Equal(2.5))
		for i, v := range e {
			if i != 7 {
				Expect(v).To(BeZero())
			}
		}
	})

	It("propagates only within the light cone each step", func() {
		s := mustNew(vacuum(400, Reflective), WithSource(SourceFunc(func(n int) float64 {
			if n == 0 {
				return 1
			}
			return 0
		})), WithSourceIndex(200))
		s.Run(10)
		e := s.E()
		for i := range e {
			if i < 190 || i > 210 {
				Expect(e[i]).To(BeZero(), "index %d", i)
			}
		}
	})

	It("is deterministic", func() {
		for _, kind := range []BoundaryKind{Reflective, Mur1} {
			a, b := mustNew(vacuum(300, kind)), mustNew(vacuum(300, kind))
			a.Run(500)
			b.Run(500)
			Expect(a.E()).To(Equal(b.E()))
			Expect(a.H()).To(Equal(b.H()))
		}
	})

	It("gives bit-identical fields with parallel stencils", func() {
		for _, workers := range []int{2, 3, 8} {
			seq := mustNew(vacuum(5000, Mur1))
			par := mustNew(vacuum(5000, Mur1), WithWorkers(workers))
			seq.Run(300)
			par.Run(300)
			Expect(par.E()).To(Equal(seq.E()))
			Expect(par.H()).To(Equal(seq.H()))
		}
	})
})

var _ = Describe("Coordinates", func() {
	It("places E on integer and H on half-integer positions", func() {
		cfg := vacuum(5, Reflective)
		x := Coordinates(cfg)
		Expect(x).To(HaveLen(5))
		for i, v := range x {
			Expect(v).To(BeNumerically("~", float64(i)*cfg.Dx, 1e-15))
		}
		xh := HalfCoordinates(cfg)
		Expect(xh).To(HaveLen(4))
		for i, v := range xh {
			Expect(v).To(BeNumerically("~", (float64(i)+0.5)*cfg.Dx, 1e-15))
		}
	})
})

var _ = Describe("ParseBoundaryKind", func() {
	It("round-trips String", func() {
		for _, k := range []BoundaryKind{Reflective, Mur1} {
			got, err := ParseBoundaryKind(k.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(k))
		}
		got, err := ParseBoundaryKind("  MUR ")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(Mur1))
	})

	It("rejects unknown names", func() {
		_, err := ParseBoundaryKind("pml")
		Expect(err).To(MatchError(ErrInvalidConfig))
		Expect(BoundaryKind(7).String()).To(Equal("BoundaryKind(7)"))
	})
})
