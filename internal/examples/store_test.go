package examples

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/clipsight/clipsight/internal/model"
)

// wordProvider embeds text as counts of a tiny fixed vocabulary, so tests
// get predictable similarity without a backend
type wordProvider struct {
	words []string
}

func newWordProvider() *wordProvider {
	return &wordProvider{words: []string{"cooking", "dance", "cat", "office"}}
}

func (p *wordProvider) Name() string                         { return "word" }
func (p *wordProvider) Dimension() int                       { return len(p.words) }
func (p *wordProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *wordProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrInvalidInput
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(p.words))
	for i, w := range p.words {
		vec[i] = float32(strings.Count(lower, w))
	}
	return vec, nil
}

func (p *wordProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := p.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func addExample(t *testing.T, store *Store, id, summary, interpretation string) *model.TeachingExample {
	t.Helper()
	added, err := store.Add(context.Background(), model.TeachingExample{
		ID:                    id,
		VideoSummary:          summary,
		CorrectInterpretation: interpretation,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return added
}

func TestStore_Add_RequiredFields(t *testing.T) {
	store := NewStore(newWordProvider())

	_, err := store.Add(context.Background(), model.TeachingExample{
		CorrectInterpretation: "something",
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing summary, got %v", err)
	}

	_, err = store.Add(context.Background(), model.TeachingExample{
		VideoSummary: "something",
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing interpretation, got %v", err)
	}
}

func TestStore_Add_GeneratesIDAndEmbedding(t *testing.T) {
	store := NewStore(newWordProvider())

	added := addExample(t, store, "", "a cooking skit", "parody of cooking shows")

	if added.ID == "" {
		t.Error("Expected a generated id")
	}
	if len(added.Embedding.Vector) == 0 {
		t.Error("Expected a computed embedding")
	}
	if added.Embedding.SourceText == "" {
		t.Error("Expected the embedding's source text to be stored")
	}
	if !strings.Contains(added.Embedding.SourceText, "a cooking skit") {
		t.Error("Source text must contain the descriptive fields")
	}
}

func TestStore_Add_DuplicateIDRejected(t *testing.T) {
	store := NewStore(newWordProvider())
	addExample(t, store, "ex-1", "a cooking skit", "parody")

	_, err := store.Add(context.Background(), model.TeachingExample{
		ID:                    "ex-1",
		VideoSummary:          "different summary",
		CorrectInterpretation: "different interpretation",
	})
	if err == nil {
		t.Fatal("Expected duplicate id to be rejected")
	}

	// Original never overwritten
	existing, _ := store.Get("ex-1")
	if existing.VideoSummary != "a cooking skit" {
		t.Error("Existing example was overwritten")
	}
}

func TestStore_Add_ConcurrentSameID(t *testing.T) {
	store := NewStore(newWordProvider())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Add(context.Background(), model.TeachingExample{
				ID:                    "race",
				VideoSummary:          "a cooking skit",
				CorrectInterpretation: "parody",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("Expected exactly one add to win, got %d", succeeded)
	}
	if store.Len() != 1 {
		t.Errorf("Expected corpus size 1, got %d", store.Len())
	}
}

func TestStore_SetBaseline(t *testing.T) {
	store := NewStore(newWordProvider())
	addExample(t, store, "ex-1", "a cooking skit", "parody")

	if err := store.SetBaseline("ex-1", 72); err != nil {
		t.Fatalf("SetBaseline failed: %v", err)
	}
	example, _ := store.Get("ex-1")
	if example.BaselineScore == nil || *example.BaselineScore != 72 {
		t.Errorf("Expected baseline 72, got %v", example.BaselineScore)
	}

	if err := store.SetBaseline("missing", 50); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown id, got %v", err)
	}
}

func TestStore_FindSimilar(t *testing.T) {
	store := NewStore(newWordProvider())
	addExample(t, store, "cook-1", "a cooking skit about soup", "cooking show parody")
	addExample(t, store, "dance-1", "a dance trend video", "dance challenge participation")
	addExample(t, store, "cook-2", "another cooking video", "cooking fail humor")

	results, err := store.FindSimilar(context.Background(), "a new cooking video", 0.5, 2)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !strings.HasPrefix(r.Example.ID, "cook-") {
			t.Errorf("Expected cooking examples, got %s", r.Example.ID)
		}
		if r.Similarity < 0.5 {
			t.Errorf("Result below threshold: %f", r.Similarity)
		}
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("Results not sorted best first")
	}
}

func TestStore_FindSimilar_EmptyResultIsNotError(t *testing.T) {
	store := NewStore(newWordProvider())
	addExample(t, store, "dance-1", "a dance trend video", "dance challenge")

	results, err := store.FindSimilar(context.Background(), "cat office antics", 0.9, 5)
	if err != nil {
		t.Fatalf("Expected no error for empty result, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result, got %d", len(results))
	}
}

func TestStore_FindSimilar_EmptyQueryFails(t *testing.T) {
	store := NewStore(newWordProvider())

	_, err := store.FindSimilar(context.Background(), "   ", 0.5, 3)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	provider := newWordProvider()
	store := NewStore(provider)
	addExample(t, store, "ex-1", "a cooking skit", "parody")
	addExample(t, store, "ex-2", "a dance video", "trend participation")

	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := store.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	restored := NewStore(provider)
	if err := restored.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if restored.Len() != 2 {
		t.Fatalf("Expected 2 examples after load, got %d", restored.Len())
	}
	original, _ := store.Get("ex-1")
	loaded, ok := restored.Get("ex-1")
	if !ok {
		t.Fatal("Missing ex-1 after load")
	}
	if loaded.Embedding.SourceText != original.Embedding.SourceText {
		t.Error("Embedding source text changed across save/load")
	}
	if len(loaded.Embedding.Vector) != len(original.Embedding.Vector) {
		t.Error("Embedding vector changed across save/load")
	}
}

func TestStore_LoadMissingFileIsEmptyCorpus(t *testing.T) {
	store := NewStore(newWordProvider())
	if err := store.LoadFile(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("Expected missing file to be tolerated, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty corpus, got %d", store.Len())
	}
}

func TestPromptBlock_RankOrder(t *testing.T) {
	matches := []model.SimilarExample{
		{Example: model.TeachingExample{VideoSummary: "best match", CorrectInterpretation: "A"}, Similarity: 0.95},
		{Example: model.TeachingExample{VideoSummary: "second match", CorrectInterpretation: "B"}, Similarity: 0.81},
	}

	block := PromptBlock(matches)

	first := strings.Index(block, "best match")
	second := strings.Index(block, "second match")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Prompt block not in rank order:\n%s", block)
	}
}

func TestPromptBlock_EmptyMatches(t *testing.T) {
	if block := PromptBlock(nil); block != "" {
		t.Errorf("Expected empty block, got %q", block)
	}
}
