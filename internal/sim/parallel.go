package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent runners concurrently, one goroutine per
// runner. Each runner, and therefore each solver, is touched by exactly
// one goroutine.
type Ensemble struct {
	names   []string
	runners []*Runner
	limit   int
}

// NewEnsemble returns an ensemble running at most limit runners at a time;
// limit <= 0 means no limit.
func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{limit: limit}
}

func (e *Ensemble) Add(name string, r *Runner) {
	e.names = append(e.names, name)
	e.runners = append(e.runners, r)
}

func (e *Ensemble) Len() int { return len(e.runners) }

// Run executes every runner with cfg. The first error cancels the others
// and is returned; results are keyed by the names given to Add.
func (e *Ensemble) Run(ctx context.Context, cfg Config) (map[string]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	results := make([]*Result, len(e.runners))
	for i, r := range e.runners {
		g.Go(func() error {
			res, err := r.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", e.names[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Result, len(results))
	for i, res := range results {
		out[e.names[i]] = res
	}
	return out, nil
}
