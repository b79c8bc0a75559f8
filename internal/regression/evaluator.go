package regression

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/clipsight/clipsight/internal/embedding"
	"github.com/clipsight/clipsight/internal/model"
	"github.com/clipsight/clipsight/internal/similarity"
	"github.com/clipsight/clipsight/internal/worker"
)

// Strategy produces candidate analysis text for a historical example. The
// evaluator scores that text against the human correction, so a strategy is
// anything that can re-analyze a video summary.
type Strategy interface {
	// Name identifies the strategy in reports
	Name() string

	// Analyze returns the candidate interpretation text for one example
	Analyze(ctx context.Context, example model.TeachingExample) (string, error)
}

// ItemScore is the per-example outcome of an evaluation run
type ItemScore struct {
	ExampleID string `json:"example_id"`

	// NewScore is the agreement score of the candidate output, cosine x 100
	// rounded to the nearest integer.
	NewScore int `json:"new_score"`

	// Baseline is the previously recorded score, if any
	Baseline *int `json:"baseline,omitempty"`

	// Delta is NewScore minus Baseline; nil when no baseline exists
	Delta *int `json:"delta,omitempty"`
}

// Improved reports whether this item beat its baseline
func (s *ItemScore) Improved() bool {
	return s.Delta != nil && *s.Delta > 0
}

// Report aggregates an evaluation run
type Report struct {
	Strategy string `json:"strategy"`

	// Evaluated counts items that produced a new score
	Evaluated int `json:"evaluated"`

	// Compared counts items with both a new score and a baseline
	Compared int `json:"compared"`

	// Improved counts compared items with delta > 0
	Improved int `json:"improved"`

	// ImprovedPercent is Improved over Compared
	ImprovedPercent float64 `json:"improved_percent"`

	MeanBaseline float64 `json:"mean_baseline"`
	MeanNew      float64 `json:"mean_new"`
	MeanDelta    float64 `json:"mean_delta"`

	Items []ItemScore `json:"items"`

	// Failed lists example ids excluded from the aggregate
	Failed []string `json:"failed,omitempty"`
}

// Evaluator scores a candidate strategy against human-corrected examples.
// Items run in fixed-size groups with an inter-group delay, same backpressure
// discipline as batch criteria extraction.
type Evaluator struct {
	provider  embedding.Provider
	strategy  Strategy
	processor *worker.ChunkedProcessor
}

// NewEvaluator creates an evaluator. limiter may be nil.
func NewEvaluator(provider embedding.Provider, strategy Strategy, cfg model.BatchConfig, limiter *worker.Limiter, backend string) *Evaluator {
	return &Evaluator{
		provider:  provider,
		strategy:  strategy,
		processor: worker.NewChunkedProcessor(cfg.ChunkSize, cfg.ChunkDelay, limiter, backend),
	}
}

// ComparisonText builds the ground-truth text an example is scored against:
// the human interpretation plus any explanation and structured reasoning
func ComparisonText(example model.TeachingExample) string {
	parts := []string{example.CorrectInterpretation}
	if example.Explanation != "" {
		parts = append(parts, example.Explanation)
	}
	if !example.DeepReasoning.Empty() {
		d := example.DeepReasoning
		for _, field := range []string{d.CharacterDynamic, d.UnderlyingTension, d.FormatParticipation, d.WhyItWorks} {
			if field != "" {
				parts = append(parts, field)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// AgreementScore embeds both texts and returns cosine similarity x 100
// rounded to the nearest integer
func (e *Evaluator) AgreementScore(ctx context.Context, candidate, groundTruth string) (int, error) {
	vectors, err := e.provider.EmbedBatch(ctx, []string{candidate, groundTruth})
	if err != nil {
		return 0, fmt.Errorf("embed for scoring: %w", err)
	}
	score, err := similarity.Cosine(vectors[0], vectors[1])
	if err != nil {
		return 0, err
	}
	return int(math.Round(score * 100)), nil
}

type evalJob struct {
	example   model.TeachingExample
	evaluator *Evaluator
}

type evalResult struct {
	id    string
	score ItemScore
	err   error
}

func (r *evalResult) GetError() error { return r.err }

func (j *evalJob) Execute(ctx context.Context) worker.Result {
	example := j.example
	res := &evalResult{id: example.ID}

	candidate, err := j.evaluator.strategy.Analyze(ctx, example)
	if err != nil {
		res.err = fmt.Errorf("strategy: %w", err)
		return res
	}
	if strings.TrimSpace(candidate) == "" {
		res.err = fmt.Errorf("strategy: %w: empty candidate output", model.ErrExtractionFailure)
		return res
	}

	newScore, err := j.evaluator.AgreementScore(ctx, candidate, ComparisonText(example))
	if err != nil {
		res.err = err
		return res
	}

	res.score = ItemScore{ExampleID: example.ID, NewScore: newScore}
	if example.BaselineScore != nil {
		baseline := *example.BaselineScore
		delta := newScore - baseline
		res.score.Baseline = &baseline
		res.score.Delta = &delta
	}
	return res
}

// Evaluate runs the strategy over all examples. A per-item failure is logged
// and excluded from the aggregate, never aborting the run.
func (e *Evaluator) Evaluate(ctx context.Context, examples []model.TeachingExample) (*Report, error) {
	jobs := make([]worker.Job, len(examples))
	for i, example := range examples {
		jobs[i] = &evalJob{example: example, evaluator: e}
	}

	results, _, err := e.processor.Process(ctx, jobs)

	report := &Report{Strategy: e.strategy.Name()}
	var sumBaseline, sumNew, sumDelta int

	for _, r := range results {
		er := r.(*evalResult)
		if er.err != nil {
			fmt.Fprintf(os.Stderr, "Warning: evaluation failed for %s: %v\n", er.id, er.err)
			report.Failed = append(report.Failed, er.id)
			continue
		}

		report.Items = append(report.Items, er.score)
		report.Evaluated++
		sumNew += er.score.NewScore

		if er.score.Delta != nil {
			report.Compared++
			sumBaseline += *er.score.Baseline
			sumDelta += *er.score.Delta
			if er.score.Improved() {
				report.Improved++
			}
		}
	}

	if report.Evaluated > 0 {
		report.MeanNew = float64(sumNew) / float64(report.Evaluated)
	}
	if report.Compared > 0 {
		report.MeanBaseline = float64(sumBaseline) / float64(report.Compared)
		report.MeanDelta = float64(sumDelta) / float64(report.Compared)
		report.ImprovedPercent = float64(report.Improved) / float64(report.Compared) * 100
	}

	if err != nil {
		return report, fmt.Errorf("evaluation interrupted: %w", err)
	}
	return report, nil
}
