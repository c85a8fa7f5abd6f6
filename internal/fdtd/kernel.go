package fdtd

import "sync"

// minChunk is the smallest index range worth handing to a goroutine.
const minChunk = 256

// updateH advances H[i] for i in [0, N-2] from the current E.
func (s *Solver) updateH() {
	s.parallelFor(len(s.h), func(lo, hi int) {
		e, h, ch := s.e, s.h, s.p.Ch
		for i := lo; i < hi; i++ {
			h[i] += ch * (e[i+1] - e[i])
		}
	})
}

// updateE advances the interior E[i], i in [1, N-2], from the updated H.
// The end nodes belong to applyBoundary.
func (s *Solver) updateE() {
	interior := len(s.e) - 2
	s.parallelFor(interior, func(lo, hi int) {
		e, h, ce := s.e, s.h, s.p.Ce
		for i := lo + 1; i < hi+1; i++ {
			e[i] += ce * (h[i] - h[i-1])
		}
	})
}

// parallelFor runs fn over [0, n) split into at most s.workers chunks and
// returns once every chunk is done.
func (s *Solver) parallelFor(n int, fn func(lo, hi int)) {
	workers := s.workers
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
