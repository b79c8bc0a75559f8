package examples

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipsight/clipsight/internal/embedding"
	"github.com/clipsight/clipsight/internal/model"
	"github.com/clipsight/clipsight/internal/similarity"
)

// Store is the append-only retrieval corpus of teaching examples. Examples
// are immutable once added: a correction produces a new example, never an
// edit, so retrieval stays reproducible.
type Store struct {
	provider embedding.Provider

	mu       sync.RWMutex
	examples []model.TeachingExample
	byID     map[string]int
}

// NewStore creates an empty store backed by the given embedding provider
func NewStore(provider embedding.Provider) *Store {
	return &Store{
		provider: provider,
		byID:     make(map[string]int),
	}
}

// BuildEmbeddingText produces the canonical concatenation of an example's
// descriptive fields — the exact text its vector is derived from
func BuildEmbeddingText(e model.TeachingExample) string {
	parts := []string{e.VideoSummary, e.CorrectInterpretation}
	if e.Explanation != "" {
		parts = append(parts, e.Explanation)
	}
	if len(e.HumorTypes) > 0 {
		parts = append(parts, "Humor: "+strings.Join(e.HumorTypes, ", "))
	}
	if !e.DeepReasoning.Empty() {
		d := e.DeepReasoning
		for _, field := range []string{d.CharacterDynamic, d.UnderlyingTension, d.FormatParticipation, d.WhyItWorks} {
			if field != "" {
				parts = append(parts, field)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Add validates, embeds and appends an example. Required fields are
// video_summary and correct_interpretation. An empty id gets a generated
// one; a duplicate id is rejected — existing entries are never overwritten.
func (s *Store) Add(ctx context.Context, example model.TeachingExample) (*model.TeachingExample, error) {
	if strings.TrimSpace(example.VideoSummary) == "" {
		return nil, fmt.Errorf("%w: video_summary is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(example.CorrectInterpretation) == "" {
		return nil, fmt.Errorf("%w: correct_interpretation is required", model.ErrInvalidInput)
	}

	if example.ID == "" {
		example.ID = uuid.NewString()
	}
	if example.CreatedAt.IsZero() {
		example.CreatedAt = time.Now().UTC()
	}

	// Embed before taking the lock; the remote call is the slow part
	sourceText := BuildEmbeddingText(example)
	vector, err := s.provider.Embed(ctx, sourceText)
	if err != nil {
		return nil, fmt.Errorf("embed example: %w", err)
	}
	example.Embedding = model.EmbeddingRecord{
		Vector:     vector,
		SourceText: sourceText,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Duplicate check under the lock so concurrent adds with the same id
	// cannot both win
	if _, exists := s.byID[example.ID]; exists {
		return nil, fmt.Errorf("%w: example %s already exists", model.ErrInvalidInput, example.ID)
	}

	s.examples = append(s.examples, example)
	s.byID[example.ID] = len(s.examples) - 1

	return &example, nil
}

// SetBaseline records an accepted agreement score for an example. The
// descriptive fields stay immutable; the baseline is a scoring annotation
// updated by accepted regression runs.
func (s *Store) SetBaseline(id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: unknown example %s", model.ErrInvalidInput, id)
	}
	s.examples[idx].BaselineScore = &score
	return nil
}

// Get returns an example by id
func (s *Store) Get(id string) (*model.TeachingExample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	example := s.examples[idx]
	return &example, true
}

// All returns a snapshot of the corpus in insertion order
func (s *Store) All() []model.TeachingExample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TeachingExample, len(s.examples))
	copy(out, s.examples)
	return out
}

// Len returns the corpus size
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.examples)
}

// FindSimilar embeds the query text and returns up to count stored examples
// scoring at or above threshold, best first. An empty result is valid and
// distinct from a retrieval failure, which returns an error.
func (s *Store) FindSimilar(ctx context.Context, queryText string, threshold float64, count int) ([]model.SimilarExample, error) {
	query, err := s.provider.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	candidates := make([]similarity.Candidate, len(s.examples))
	for i, example := range s.examples {
		candidates[i] = similarity.Candidate{ID: example.ID, Vector: example.Embedding.Vector}
	}
	s.mu.RUnlock()

	matches, err := similarity.Rank(query, candidates, count, threshold)
	if err != nil {
		return nil, fmt.Errorf("rank corpus: %w", err)
	}

	results := make([]model.SimilarExample, 0, len(matches))
	for _, match := range matches {
		example, ok := s.Get(match.Candidate.ID)
		if !ok {
			continue
		}
		results = append(results, model.SimilarExample{Example: *example, Similarity: match.Score})
	}

	return results, nil
}
