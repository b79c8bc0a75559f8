package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// RunAll executes jobs with at most workers goroutines and returns results
// in input order. A failed job occupies its original slot, never reordered.
func RunAll(ctx context.Context, workers int, jobs []Job) []Result {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Result, len(jobs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = job.Execute(ctx)
		}(i, job)
	}

	wg.Wait()
	return results
}
