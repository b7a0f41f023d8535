package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchItem pairs a request with its outcome.
type BatchItem struct {
	Request Request
	Result  *Result
	Err     error
}

// RunBatch runs independent requests with at most concurrency in flight.
// Items come back in input order. A failed run does not stop the others.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []Request, concurrency int) []BatchItem {
	if concurrency <= 0 {
		concurrency = 1
	}

	items := make([]BatchItem, len(reqs))
	startTime := time.Now()

	o.logger.Info("starting batch",
		"requests", len(reqs),
		"concurrency", concurrency)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		items[i].Request = req
		g.Go(func() error {
			result, err := o.Run(ctx, req)
			items[i].Result = result
			items[i].Err = err
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}

	o.logger.Log(ctx, levelFor(failed), "batch finished",
		"requests", len(reqs),
		"failed", failed,
		"duration_ms", time.Since(startTime).Milliseconds())

	return items
}

func levelFor(failed int) slog.Level {
	if failed > 0 {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
