package criteria

import (
	"context"
	"errors"
	"testing"

	"github.com/clipsight/clipsight/internal/llm"
	"github.com/clipsight/clipsight/internal/model"
)

// mockProvider implements llm.Provider with a canned response
type mockProvider struct {
	content     string
	shouldError bool
	calls       int
}

func (m *mockProvider) Name() string                         { return "mock" }
func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.calls++
	if m.shouldError {
		return nil, errors.New("backend down")
	}
	return &llm.CompletionResponse{Content: m.content, Model: "mock-model"}, nil
}

func TestExtractor_LLMPath(t *testing.T) {
	provider := &mockProvider{content: `{
		"criteria": {
			"replicability": 0.2,
			"acting_barrier": 0.8,
			"humor_style": "deadpan",
			"props_dependency": false
		},
		"confidence": 0.85,
		"sentiment": "positive",
		"key_insights": ["timing carries the joke"]
	}`}

	extractor := NewExtractor(provider, model.DefaultConfig().Extraction)
	result, err := extractor.Extract(context.Background(), model.Rating{
		ID:    "r1",
		Notes: "very hard to replicate, needs a trained actor",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Model != "mock-model" {
		t.Errorf("Expected LLM provenance, got %s", result.Model)
	}
	if result.Confidence < 0.6 {
		t.Errorf("Expected LLM-path confidence >= 0.6, got %f", result.Confidence)
	}
	if replicability, ok := result.Number("replicability"); !ok || replicability > 0.4 {
		t.Errorf("Expected replicability <= 0.4, got %f (present=%v)", replicability, ok)
	}
	if actingBarrier, ok := result.Number("acting_barrier"); !ok || actingBarrier < 0.6 {
		t.Errorf("Expected acting_barrier >= 0.6, got %f (present=%v)", actingBarrier, ok)
	}
	if result.Sentiment != model.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %s", result.Sentiment)
	}
	if len(result.KeyInsights) != 1 {
		t.Errorf("Expected 1 insight, got %d", len(result.KeyInsights))
	}
}

func TestExtractor_FallbackOnLLMFailure(t *testing.T) {
	provider := &mockProvider{shouldError: true}

	cfg := model.DefaultConfig().Extraction
	extractor := NewExtractor(provider, cfg)
	result, err := extractor.Extract(context.Background(), model.Rating{
		ID:    "r1",
		Notes: "very hard to replicate, needs a trained actor",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("Expected 1 LLM attempt before fallback, got %d", provider.calls)
	}
	if result.Model != FallbackModelID {
		t.Errorf("Expected fallback provenance, got %s", result.Model)
	}
	if result.Confidence != cfg.FallbackConfidence {
		t.Errorf("Expected fallback confidence %f, got %f", cfg.FallbackConfidence, result.Confidence)
	}
	if replicability, ok := result.Number("replicability"); !ok || replicability > 0.4 {
		t.Errorf("Expected replicability <= 0.4, got %f (present=%v)", replicability, ok)
	}
	if actingBarrier, ok := result.Number("acting_barrier"); !ok || actingBarrier < 0.6 {
		t.Errorf("Expected acting_barrier >= 0.6, got %f (present=%v)", actingBarrier, ok)
	}
}

func TestExtractor_FallbackOnMalformedResponse(t *testing.T) {
	provider := &mockProvider{content: "I think this video is quite funny overall."}

	extractor := NewExtractor(provider, model.DefaultConfig().Extraction)
	result, err := extractor.Extract(context.Background(), model.Rating{
		ID:    "r1",
		Notes: "easy to copy at home",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Model != FallbackModelID {
		t.Errorf("Expected fallback provenance, got %s", result.Model)
	}
}

func TestExtractor_NullAndUnknownFieldsDropped(t *testing.T) {
	provider := &mockProvider{content: `{
		"criteria": {
			"replicability": 0.5,
			"relatability": null,
			"weird_nested": {"not": "representable"}
		},
		"confidence": 0.9,
		"sentiment": "neutral",
		"unexpected_envelope_key": "discarded"
	}`}

	extractor := NewExtractor(provider, model.DefaultConfig().Extraction)
	result, err := extractor.Extract(context.Background(), model.Rating{ID: "r1", Notes: "some notes"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if _, ok := result.Criteria["relatability"]; ok {
		t.Error("Null criterion must be dropped, not stored")
	}
	if _, ok := result.Criteria["weird_nested"]; ok {
		t.Error("Non-representable criterion must be dropped")
	}
	if len(result.Criteria) != 1 {
		t.Errorf("Expected exactly 1 criterion, got %d", len(result.Criteria))
	}
}

func TestExtractor_NumericClamping(t *testing.T) {
	provider := &mockProvider{content: `{
		"criteria": {"replicability": 1.7, "acting_barrier": -0.3},
		"confidence": 0.9,
		"sentiment": "neutral"
	}`}

	extractor := NewExtractor(provider, model.DefaultConfig().Extraction)
	result, err := extractor.Extract(context.Background(), model.Rating{ID: "r1", Notes: "some notes"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if v, _ := result.Number("replicability"); v != 1.0 {
		t.Errorf("Expected replicability clamped to 1.0, got %f", v)
	}
	if v, _ := result.Number("acting_barrier"); v != 0.0 {
		t.Errorf("Expected acting_barrier clamped to 0.0, got %f", v)
	}
}

func TestExtractor_NovelCriteriaKept(t *testing.T) {
	provider := &mockProvider{content: `{
		"criteria": {"replicability": 0.5, "pet_appeal": 0.9},
		"confidence": 0.8,
		"sentiment": "positive"
	}`}

	extractor := NewExtractor(provider, model.DefaultConfig().Extraction)
	result, err := extractor.Extract(context.Background(), model.Rating{ID: "r1", Notes: "dog content"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if _, ok := result.Number("pet_appeal"); !ok {
		t.Error("Expected novel criterion pet_appeal to be kept")
	}
	// Known vocabulary entries come first in the canonical ordering
	if len(result.CriteriaOrder) != 2 || result.CriteriaOrder[0] != "replicability" {
		t.Errorf("Unexpected criteria order: %v", result.CriteriaOrder)
	}
}

func TestExtractor_EmptyNotes(t *testing.T) {
	extractor := NewExtractor(nil, model.DefaultConfig().Extraction)

	_, err := extractor.Extract(context.Background(), model.Rating{ID: "r1", Notes: "   "})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractor_NoProviderUsesFallback(t *testing.T) {
	extractor := NewExtractor(nil, model.DefaultConfig().Extraction)

	result, err := extractor.Extract(context.Background(), model.Rating{
		ID:    "r1",
		Notes: "easy to replicate at home",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if result.Model != FallbackModelID {
		t.Errorf("Expected fallback provenance, got %s", result.Model)
	}
	if v, ok := result.Number("replicability"); !ok || v != 0.7 {
		t.Errorf("Expected replicability 0.7 without difficulty qualifier, got %f (present=%v)", v, ok)
	}
}
