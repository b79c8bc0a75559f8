package criteria

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/clipsight/clipsight/internal/llm"
	"github.com/clipsight/clipsight/internal/model"
)

// Extractor converts free-text reviewer notes into structured criteria.
// Two-stage chain: the LLM extractor runs first; on any failure to obtain or
// parse structured output, the deterministic keyword fallback takes over.
// The selected stage is recorded in the result's Model field.
type Extractor struct {
	provider llm.Provider // nil disables the LLM path
	fallback *KeywordExtractor
	config   model.ExtractionConfig
}

// NewExtractor creates an extractor. provider may be nil, in which case every
// extraction uses the keyword fallback.
func NewExtractor(provider llm.Provider, cfg model.ExtractionConfig) *Extractor {
	return &Extractor{
		provider: provider,
		fallback: NewKeywordExtractor(cfg),
		config:   cfg,
	}
}

// Extract runs the extraction chain over one rating. Empty notes fail with
// ErrInvalidInput; an LLM failure is recovered via the fallback and never
// surfaced to the caller.
func (e *Extractor) Extract(ctx context.Context, rating model.Rating) (*model.ExtractionResult, error) {
	if strings.TrimSpace(rating.Notes) == "" {
		return nil, fmt.Errorf("%w: empty notes for rating %s", model.ErrInvalidInput, rating.ID)
	}

	if e.provider != nil {
		result, err := e.extractLLM(ctx, rating)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			// Cancellation propagates; the fallback must not mask it
			return nil, ctx.Err()
		}
	}

	return e.fallback.Extract(rating), nil
}

// llmEnvelope is the expected response shape. Fields outside this set are
// discarded by decoding, never passed through.
type llmEnvelope struct {
	Criteria    map[string]interface{} `json:"criteria"`
	Confidence  *float64               `json:"confidence"`
	Sentiment   string                 `json:"sentiment"`
	KeyInsights []string               `json:"key_insights"`
}

func (e *Extractor) extractLLM(ctx context.Context, rating model.Rating) (*model.ExtractionResult, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:   systemPrompt,
		User:     BuildPrompt(rating),
		JSONOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtractionFailure, err)
	}

	envelope, err := parseEnvelope(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtractionFailure, err)
	}

	result := &model.ExtractionResult{
		Confidence:  0.7,
		Sentiment:   model.SentimentNeutral,
		KeyInsights: envelope.KeyInsights,
		Model:       resp.Model,
	}
	if envelope.Confidence != nil {
		result.Confidence = model.Clamp01(*envelope.Confidence)
	}
	if model.ValidSentiment(model.Sentiment(envelope.Sentiment)) {
		result.Sentiment = model.Sentiment(envelope.Sentiment)
	}

	// Null and non-representable values are dropped here, never persisted,
	// so presence of a key always means "observed". Numerics come back
	// clamped to [0,1] from the Value constructor.
	for _, name := range orderedCriteriaKeys(envelope.Criteria) {
		value, ok := model.ValueFromAny(envelope.Criteria[name])
		if !ok {
			continue
		}
		result.Set(name, value)
	}

	if len(result.Criteria) == 0 {
		return nil, fmt.Errorf("%w: no grounded criteria in response", model.ErrExtractionFailure)
	}

	return result, nil
}

// parseEnvelope decodes the model response, tolerating markdown code fences
func parseEnvelope(content string) (*llmEnvelope, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var envelope llmEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &envelope, nil
}

// orderedCriteriaKeys yields known-vocabulary criteria in canonical order
// first, then novel criteria alphabetically, so results are reproducible.
func orderedCriteriaKeys(criteria map[string]interface{}) []string {
	var keys []string
	for _, c := range KnownVocabulary {
		if _, ok := criteria[c.Name]; ok {
			keys = append(keys, c.Name)
		}
	}

	var novel []string
	for name := range criteria {
		if _, known := KnownCriterion(name); !known {
			novel = append(novel, name)
		}
	}
	sort.Strings(novel)

	return append(keys, novel...)
}
