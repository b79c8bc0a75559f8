package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/clipsight/clipsight/internal/model"
)

// Cosine computes the cosine similarity between two vectors, in [-1,1].
// Vectors of differing length fail with ErrDimensionMismatch — never padded
// or truncated. Zero-magnitude vectors yield 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", model.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Candidate is one entry to be ranked against a query vector
type Candidate struct {
	ID     string
	Vector []float32
}

// Match pairs a candidate with its similarity score
type Match struct {
	Candidate Candidate
	Score     float64
}

// Rank scores every candidate against the query, filters out scores below
// minThreshold, sorts descending and truncates to topK. Equal scores keep
// their original candidate order (stable sort) — a deliberate, testable
// property. A candidate with a mismatched dimension fails the whole ranking.
func Rank(query []float32, candidates []Candidate, topK int, minThreshold float64) ([]Match, error) {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		score, err := Cosine(query, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		if score < minThreshold {
			continue
		}
		matches = append(matches, Match{Candidate: c, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}
