package criteria

import (
	"context"
	"fmt"
	"os"

	"github.com/clipsight/clipsight/internal/model"
	"github.com/clipsight/clipsight/internal/worker"
)

// BatchExtractor processes many ratings in fixed-size groups with an
// inter-group delay, respecting upstream rate limits
type BatchExtractor struct {
	extractor *Extractor
	processor *worker.ChunkedProcessor
}

// NewBatchExtractor creates a batch extractor. limiter may be nil.
func NewBatchExtractor(extractor *Extractor, cfg model.BatchConfig, limiter *worker.Limiter, backend string) *BatchExtractor {
	return &BatchExtractor{
		extractor: extractor,
		processor: worker.NewChunkedProcessor(cfg.ChunkSize, cfg.ChunkDelay, limiter, backend),
	}
}

// extractJob runs the extraction chain for one rating
type extractJob struct {
	rating    model.Rating
	extractor *Extractor
}

// extractResult pairs a rating id with its outcome
type extractResult struct {
	id     string
	result *model.ExtractionResult
	err    error
}

// GetError returns the error from the extraction
func (r *extractResult) GetError() error { return r.err }

func (j *extractJob) Execute(ctx context.Context) worker.Result {
	result, err := j.extractor.Extract(ctx, j.rating)
	return &extractResult{id: j.rating.ID, result: result, err: err}
}

// BatchResult holds the outcome of a batch extraction run
type BatchResult struct {
	// Results maps rating id to its extraction result. LLM failures never
	// surface here; the extractor recovers them via the keyword fallback.
	Results map[string]*model.ExtractionResult

	// Failed lists ids whose extraction failed outright (invalid input such
	// as empty notes); these ids have no entry in Results.
	Failed []string

	// Groups is the number of processing groups issued
	Groups int
}

// Extract processes all ratings. A failure on one item never aborts the
// batch: its id is recorded in Failed and processing continues. Successful
// results keep input order through the returned ordering of ids.
func (b *BatchExtractor) Extract(ctx context.Context, ratings []model.Rating) (*BatchResult, error) {
	jobs := make([]worker.Job, len(ratings))
	for i, rating := range ratings {
		jobs[i] = &extractJob{rating: rating, extractor: b.extractor}
	}

	results, groups, err := b.processor.Process(ctx, jobs)

	batch := &BatchResult{
		Results: make(map[string]*model.ExtractionResult, len(results)),
		Groups:  groups,
	}

	// Partial results already computed are preserved even when the run was
	// cut short by cancellation.
	for _, r := range results {
		er := r.(*extractResult)
		if er.err != nil {
			fmt.Fprintf(os.Stderr, "Warning: extraction failed for %s: %v\n", er.id, er.err)
			batch.Failed = append(batch.Failed, er.id)
			continue
		}
		batch.Results[er.id] = er.result
	}

	if err != nil {
		return batch, fmt.Errorf("batch extraction interrupted: %w", err)
	}
	return batch, nil
}
