package model

import "time"

// EmbeddingRecord pairs a vector with the exact text it was derived from, so
// the vector's meaning stays auditable and reproducible. Owned by the entity
// it represents and recomputed when the source text changes — never mutated
// in place.
type EmbeddingRecord struct {
	Vector     []float32 `json:"vector"`
	SourceText string    `json:"source_text"`
	Model      string    `json:"model,omitempty"`
}

// Dimension returns the vector length
func (e *EmbeddingRecord) Dimension() int {
	return len(e.Vector)
}

// DeepReasoning is an optional structured breakdown of why a video works,
// attached to a teaching example by the reviewer.
type DeepReasoning struct {
	CharacterDynamic    string `json:"character_dynamic,omitempty"`
	UnderlyingTension   string `json:"underlying_tension,omitempty"`
	FormatParticipation string `json:"format_participation,omitempty"`
	WhyItWorks          string `json:"why_it_works,omitempty"`
}

// Empty reports whether no reasoning fields are set
func (d *DeepReasoning) Empty() bool {
	return d == nil || (d.CharacterDynamic == "" && d.UnderlyingTension == "" &&
		d.FormatParticipation == "" && d.WhyItWorks == "")
}

// TeachingExample is a human-corrected analysis promoted into the retrieval
// corpus. Immutable once stored: corrections produce a new example rather
// than editing history, so the corpus stays append-only and reproducible.
type TeachingExample struct {
	ID                    string          `json:"id"`
	VideoSummary          string          `json:"video_summary"`
	CorrectInterpretation string          `json:"correct_interpretation"`
	Explanation           string          `json:"explanation,omitempty"`
	Tags                  []string        `json:"tags,omitempty"`
	HumorTypes            []string        `json:"humor_types,omitempty"`
	DeepReasoning         *DeepReasoning  `json:"deep_reasoning,omitempty"`
	Embedding             EmbeddingRecord `json:"embedding"`
	// BaselineScore is the agreement score (cosine x 100) recorded by the
	// last accepted regression run, if any.
	BaselineScore *int      `json:"baseline_score,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SimilarExample is a teaching example paired with its similarity to a query
type SimilarExample struct {
	Example    TeachingExample `json:"example"`
	Similarity float64         `json:"similarity"`
}
