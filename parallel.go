package lensz

import (
	"context"

	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
)

// ParallelKeep is Keep with predicate evaluation spread over up to workers
// goroutines. The output order matches the input order regardless of which
// worker finishes first.
//
// Predicates must be free of side effects. A panicking predicate or a
// canceled context stops the remaining work and the error is returned as
// an *Error[T]. workers < 1 is treated as 1.
func ParallelKeep[T any](ctx context.Context, items []T, pred Predicate[T], workers int) ([]T, error) {
	if workers < 1 {
		workers = 1
	}

	verdicts := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return contextError(err, "parallel-keep", i, item, clockz.RealClock.Now())
			}
			ok, err := safeTest(pred, item)
			if err != nil {
				return &Error[T]{
					Timestamp: clockz.RealClock.Now(),
					InputData: item,
					Err:       err,
					Path:      []Name{"parallel-keep"},
					Index:     i,
				}
			}
			verdicts[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, ok := range verdicts {
		if ok {
			out = append(out, items[i])
		}
	}
	return out, nil
}
