package fdtd

// Solver advances E and H on a 1D Yee grid. The zero value is not usable;
// construct one with New.
type Solver struct {
	cfg GridConfig
	p   Params

	e []float64 // len N
	h []float64 // len N-1

	mur *murHistory // nil unless cfg.Boundary == Mur1

	src     Source
	srcIdx  int
	workers int

	n int // completed steps
}

// Option customises a Solver at construction.
type Option func(*options)

type options struct {
	src     Source
	srcIdx  int
	workers int
}

// WithSource replaces DefaultPulse.
func WithSource(src Source) Option {
	return func(o *options) { o.src = src }
}

// WithSourceIndex moves the source off DefaultSourceIndex. The index must
// lie in [0, N-1].
func WithSourceIndex(i int) Option {
	return func(o *options) { o.srcIdx = i }
}

// WithWorkers splits the H and interior E loops across n goroutines.
// n <= 1 keeps the sequential loops.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// New validates cfg, allocates zeroed fields and derives the update
// coefficients. On error no Solver is returned.
func New(cfg GridConfig, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{src: DefaultPulse, srcIdx: -1, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.srcIdx == -1 {
		o.srcIdx = DefaultSourceIndex(cfg.N)
	}
	if o.srcIdx < 0 || o.srcIdx >= cfg.N {
		return nil, &ConfigError{Field: "source index", Value: o.srcIdx, Reason: "must lie in [0, N-1]"}
	}
	if o.src == nil {
		return nil, &ConfigError{Field: "source", Value: nil, Reason: "must not be nil"}
	}

	s := &Solver{
		cfg:     cfg,
		p:       deriveParams(cfg),
		e:       make([]float64, cfg.N),
		h:       make([]float64, cfg.N-1),
		src:     o.src,
		srcIdx:  o.srcIdx,
		workers: o.workers,
	}
	if cfg.Boundary == Mur1 {
		s.mur = &murHistory{k: s.p.MurK}
	}
	return s, nil
}

// Step advances the fields by one time step: H update, interior E update,
// source injection, boundary pass, then the step counter.
func (s *Solver) Step() {
	s.updateH()
	s.updateE()
	s.applySource()
	s.applyBoundary()
	s.n++
}

// Run calls Step n times.
func (s *Solver) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// E returns a copy of the electric field (len N).
func (s *Solver) E() []float64 { return s.ReadE(nil) }

// H returns a copy of the magnetic field (len N-1).
func (s *Solver) H() []float64 { return s.ReadH(nil) }

// ReadE copies E into dst, growing it if needed, and returns it.
func (s *Solver) ReadE(dst []float64) []float64 { return copyInto(dst, s.e) }

// ReadH copies H into dst, growing it if needed, and returns it.
func (s *Solver) ReadH(dst []float64) []float64 { return copyInto(dst, s.h) }

func (s *Solver) Config() GridConfig { return s.cfg }
func (s *Solver) Params() Params     { return s.p }
func (s *Solver) Steps() int         { return s.n }
func (s *Solver) SourceIndex() int   { return s.srcIdx }

// Time is the simulated time after the completed steps, Steps()*dt.
func (s *Solver) Time() float64 { return float64(s.n) * s.p.Dt }

func copyInto(dst, src []float64) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	copy(dst, src)
	return dst
}
