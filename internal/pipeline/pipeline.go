package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clipsight/clipsight/internal/cache"
	"github.com/clipsight/clipsight/internal/criteria"
	"github.com/clipsight/clipsight/internal/embedding"
	"github.com/clipsight/clipsight/internal/examples"
	"github.com/clipsight/clipsight/internal/llm"
	"github.com/clipsight/clipsight/internal/model"
	"github.com/clipsight/clipsight/internal/regression"
	"github.com/clipsight/clipsight/internal/signals"
	"github.com/clipsight/clipsight/internal/worker"
)

// Backend names used for rate limiting
const (
	backendEmbedding = "embedding"
	backendLLM       = "llm"
)

// Pipeline wires the engine together: embedding provider behind a vector
// cache, criteria and signal extractors, the teaching-example store, and the
// regression evaluator, all built from one Config.
type Pipeline struct {
	config *model.Config

	embedder  embedding.Provider
	llm       llm.Provider // nil when disabled; keyword fallback only
	limiter   *worker.Limiter
	extractor *criteria.Extractor
	batch     *criteria.BatchExtractor
	signals   *signals.Extractor
	store     *examples.Store
}

// NewPipeline builds a pipeline from configuration. The LLM provider is
// optional; the embedding provider is not, since retrieval and evaluation
// cannot run without it.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	embedder, err := embedding.NewProvider(embedding.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if cfg.Cache.Enabled {
		vc := cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		embedder = embedding.NewCachedProvider(embedder, vc, cfg.Embedding.Model, cfg.Cache.TTL)
	}

	llmProvider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		// A broken LLM config degrades to the keyword fallback rather than
		// blocking signal extraction and retrieval
		fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable, using keyword fallback: %v\n", err)
		llmProvider = nil
	}

	limiter := worker.NewLimiter(cfg.Batch.RequestsPerSecond, cfg.Batch.Burst)
	extractor := criteria.NewExtractor(llmProvider, cfg.Extraction)

	return &Pipeline{
		config:    cfg,
		embedder:  embedder,
		llm:       llmProvider,
		limiter:   limiter,
		extractor: extractor,
		batch:     criteria.NewBatchExtractor(extractor, cfg.Batch, limiter, backendLLM),
		signals:   signals.NewExtractor(),
		store:     examples.NewStore(embedder),
	}, nil
}

// Store exposes the teaching-example corpus
func (p *Pipeline) Store() *examples.Store {
	return p.store
}

// LoadCorpus restores the corpus from the configured path
func (p *Pipeline) LoadCorpus() error {
	return p.store.LoadFile(p.config.Store.Path)
}

// SaveCorpus persists the corpus to the configured path
func (p *Pipeline) SaveCorpus() error {
	return p.store.SaveFile(p.config.Store.Path)
}

// ExtractReport is the output of a single-video extraction run
type ExtractReport struct {
	VideoID  string                  `json:"video_id"`
	Signals  *model.VideoSignals     `json:"signals,omitempty"`
	Coverage float64                 `json:"coverage"`
	Errors   []string                `json:"errors,omitempty"`
	Criteria *model.ExtractionResult `json:"criteria,omitempty"`
}

// ProcessRating runs signal extraction over the raw analysis and criteria
// extraction over the reviewer notes for one video. Either half may be absent
// from the input; at least one must be present.
func (p *Pipeline) ProcessRating(ctx context.Context, doc *RatingDocument) (*ExtractReport, error) {
	report := &ExtractReport{VideoID: doc.VideoID}

	hasRaw := len(doc.RawAnalysis) > 0
	hasNotes := strings.TrimSpace(doc.Rating.Notes) != ""
	if !hasRaw && !hasNotes {
		return nil, fmt.Errorf("%w: input has neither raw_analysis nor rating notes", model.ErrInvalidInput)
	}

	if hasRaw {
		result, err := p.signals.Extract(doc.RawAnalysis, doc.SchemaVersion, doc.VideoID)
		if err != nil {
			return nil, fmt.Errorf("signal extraction: %w", err)
		}
		report.Signals = result.Signals
		report.Coverage = result.Coverage
		report.Errors = result.Errors
	}

	if hasNotes {
		result, err := p.extractor.Extract(ctx, doc.Rating)
		if err != nil {
			return nil, fmt.Errorf("criteria extraction: %w", err)
		}
		report.Criteria = result
	}

	return report, nil
}

// BatchExtract runs chunked criteria extraction over many ratings
func (p *Pipeline) BatchExtract(ctx context.Context, ratings []model.Rating) (*criteria.BatchResult, error) {
	return p.batch.Extract(ctx, ratings)
}

// FindSimilar retrieves corpus examples most similar to the query text using
// the configured retrieval defaults
func (p *Pipeline) FindSimilar(ctx context.Context, query string) ([]model.SimilarExample, error) {
	return p.store.FindSimilar(ctx, query, p.config.Retrieval.Threshold, p.config.Retrieval.Count)
}

// Promote turns a corrected analysis into a teaching example, appends it to
// the corpus and persists the corpus
func (p *Pipeline) Promote(ctx context.Context, corrected *CorrectedAnalysis) (*model.TeachingExample, error) {
	example, err := p.store.Add(ctx, model.TeachingExample{
		ID:                    corrected.ID,
		VideoSummary:          corrected.VideoSummary,
		CorrectInterpretation: corrected.CorrectInterpretation,
		Explanation:           corrected.Explanation,
		Tags:                  corrected.Tags,
		HumorTypes:            corrected.HumorTypes,
		DeepReasoning:         corrected.DeepReasoning,
	})
	if err != nil {
		return nil, err
	}

	if err := p.SaveCorpus(); err != nil {
		return nil, fmt.Errorf("persist corpus: %w", err)
	}
	return example, nil
}

// Evaluate runs the regression evaluator over the whole corpus using the
// configured LLM as the candidate strategy, with retrieval-augmented prompts
func (p *Pipeline) Evaluate(ctx context.Context) (*regression.Report, error) {
	if p.llm == nil {
		return nil, fmt.Errorf("%w: evaluation requires an LLM provider", model.ErrInvalidInput)
	}
	if p.store.Len() == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", model.ErrInvalidInput)
	}

	strategy := regression.NewLLMStrategy(p.llm, p.config.LLM.Model, p.config.LLM.MaxTokens).
		WithRetrieval(p.store, examples.PromptBlock, p.config.Retrieval.Threshold, p.config.Retrieval.Count)

	evaluator := regression.NewEvaluator(p.embedder, strategy, p.config.Batch, p.limiter, backendEmbedding)
	return evaluator.Evaluate(ctx, p.store.All())
}
