package worker

import (
	"context"
	"time"
)

// ChunkedProcessor executes jobs in fixed-size groups with an inter-group
// delay. The delay is deliberate backpressure against upstream rate limits,
// not an incidental sleep. Results come back in input order; a per-item
// failure occupies its slot and never aborts the batch.
type ChunkedProcessor struct {
	chunkSize int
	delay     time.Duration
	limiter   *Limiter
	backend   string
}

// NewChunkedProcessor creates a chunked processor. limiter may be nil when
// no rate limiting is wanted (tests, local backends).
func NewChunkedProcessor(chunkSize int, delay time.Duration, limiter *Limiter, backend string) *ChunkedProcessor {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &ChunkedProcessor{
		chunkSize: chunkSize,
		delay:     delay,
		limiter:   limiter,
		backend:   backend,
	}
}

// Process runs all jobs and returns their results in input order plus the
// number of groups issued. Stops early only on context cancellation.
func (p *ChunkedProcessor) Process(ctx context.Context, jobs []Job) ([]Result, int, error) {
	results := make([]Result, 0, len(jobs))
	groups := 0

	for start := 0; start < len(jobs); start += p.chunkSize {
		if groups > 0 && p.delay > 0 {
			select {
			case <-ctx.Done():
				return results, groups, ctx.Err()
			case <-time.After(p.delay):
			}
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx, p.backend); err != nil {
				return results, groups, err
			}
		}

		end := start + p.chunkSize
		if end > len(jobs) {
			end = len(jobs)
		}
		chunk := jobs[start:end]

		// Items within a group run concurrently, bounded by the group size
		results = append(results, RunAll(ctx, len(chunk), chunk)...)
		groups++

		if ctx.Err() != nil {
			return results, groups, ctx.Err()
		}
	}

	return results, groups, nil
}
