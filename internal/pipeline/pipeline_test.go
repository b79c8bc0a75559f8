package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clipsight/clipsight/internal/criteria"
	"github.com/clipsight/clipsight/internal/model"
	"github.com/clipsight/clipsight/internal/signals"
)

// newFallbackPipeline builds a pipeline with no remote backends: keyword
// fallback for criteria, no embedding provider
func newFallbackPipeline() *Pipeline {
	cfg := model.DefaultConfig()
	return &Pipeline{
		config:    cfg,
		extractor: criteria.NewExtractor(nil, cfg.Extraction),
		signals:   signals.NewExtractor(),
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadRatingDocument(t *testing.T) {
	path := writeTemp(t, "rating.json", `{
		"video_id": "vid-1",
		"schema_version": 1,
		"raw_analysis": {"replication": {"difficulty": 0.8}},
		"rating": {"id": "r-1", "notes": "easy to copy"}
	}`)

	doc, err := LoadRatingDocument(path)
	if err != nil {
		t.Fatalf("LoadRatingDocument failed: %v", err)
	}
	if doc.VideoID != "vid-1" || doc.Rating.Notes != "easy to copy" {
		t.Errorf("Unexpected document: %+v", doc)
	}
}

func TestLoadRatingDocument_Defaults(t *testing.T) {
	path := writeTemp(t, "rating.json", `{"video_id": "vid-1", "rating": {"notes": "n"}}`)

	doc, err := LoadRatingDocument(path)
	if err != nil {
		t.Fatalf("LoadRatingDocument failed: %v", err)
	}
	if doc.SchemaVersion != 1 {
		t.Errorf("Expected schema version defaulted to 1, got %d", doc.SchemaVersion)
	}
	if doc.Rating.ID != "vid-1" {
		t.Errorf("Expected rating id defaulted to video id, got %q", doc.Rating.ID)
	}
}

func TestLoadRatingDocument_MissingVideoID(t *testing.T) {
	path := writeTemp(t, "rating.json", `{"rating": {"notes": "n"}}`)

	_, err := LoadRatingDocument(path)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadRatings(t *testing.T) {
	path := writeTemp(t, "ratings.json", `[
		{"id": "r-1", "notes": "hard to replicate"},
		{"id": "r-2", "notes": "funny cat"}
	]`)

	ratings, err := LoadRatings(path)
	if err != nil {
		t.Fatalf("LoadRatings failed: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("Expected 2 ratings, got %d", len(ratings))
	}
}

func TestLoadRatings_RejectsMissingIDs(t *testing.T) {
	path := writeTemp(t, "ratings.json", `[{"notes": "no id"}]`)

	_, err := LoadRatings(path)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessRating_SignalsAndCriteria(t *testing.T) {
	p := newFallbackPipeline()

	report, err := p.ProcessRating(context.Background(), &RatingDocument{
		VideoID:       "vid-1",
		SchemaVersion: 1,
		RawAnalysis: map[string]interface{}{
			"replication": map[string]interface{}{"difficulty": 0.8},
		},
		Rating: model.Rating{ID: "vid-1", Notes: "very hard to replicate"},
	})
	if err != nil {
		t.Fatalf("ProcessRating failed: %v", err)
	}

	if report.Signals == nil {
		t.Fatal("Expected signals in report")
	}
	if report.Coverage <= 0 {
		t.Errorf("Expected nonzero coverage, got %f", report.Coverage)
	}
	if report.Criteria == nil {
		t.Fatal("Expected criteria in report")
	}
	if report.Criteria.Model != criteria.FallbackModelID {
		t.Errorf("Expected keyword fallback without an LLM, got %q", report.Criteria.Model)
	}
}

func TestProcessRating_NotesOnly(t *testing.T) {
	p := newFallbackPipeline()

	report, err := p.ProcessRating(context.Background(), &RatingDocument{
		VideoID: "vid-1",
		Rating:  model.Rating{ID: "vid-1", Notes: "uses props and costumes"},
	})
	if err != nil {
		t.Fatalf("ProcessRating failed: %v", err)
	}
	if report.Signals != nil {
		t.Error("Expected no signals without raw analysis")
	}
	if report.Criteria == nil {
		t.Error("Expected criteria from notes")
	}
}

func TestProcessRating_WhitespaceNotesTreatedAsAbsent(t *testing.T) {
	p := newFallbackPipeline()

	report, err := p.ProcessRating(context.Background(), &RatingDocument{
		VideoID:       "vid-1",
		SchemaVersion: 1,
		RawAnalysis: map[string]interface{}{
			"replication": map[string]interface{}{"difficulty": 0.8},
		},
		Rating: model.Rating{ID: "vid-1", Notes: "   "},
	})
	if err != nil {
		t.Fatalf("Whitespace notes must not abort signal extraction: %v", err)
	}
	if report.Signals == nil {
		t.Fatal("Expected signals despite blank notes")
	}
	if report.Criteria != nil {
		t.Error("Expected no criteria for blank notes")
	}
}

func TestProcessRating_EmptyInput(t *testing.T) {
	p := newFallbackPipeline()

	_, err := p.ProcessRating(context.Background(), &RatingDocument{VideoID: "vid-1"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
