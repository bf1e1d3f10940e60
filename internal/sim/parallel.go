package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Build constructs an independent stepper and its metrics for one member of
// an ensemble.
type Build func(seed int64) (Stepper, []Metric, error)

type Ensemble struct {
	build     Build
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Build, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every member concurrently with consecutive seeds. The first
// failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			st, metrics, err := e.build(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			r := New(st)
			for _, m := range metrics {
				r.AddMetric(m)
			}
			results[i], err = r.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeanMetrics averages each named metric across results.
func MeanMetrics(results []*Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r.Metrics {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
