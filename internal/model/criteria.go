package model

// Sentiment is a coarse summary of the reviewer's notes, used for quick filtering
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
	SentimentNeutral  Sentiment = "neutral"
)

// Rating is the raw input to criteria extraction: a reviewer's free-text
// notes about one video, with an optional overall score.
type Rating struct {
	ID           string   `json:"id"`
	Notes        string   `json:"notes"`
	OverallScore *float64 `json:"overall_score,omitempty"`
	// DomainContext optionally narrows the extraction prompt (e.g., "cooking
	// skits", "duet formats").
	DomainContext string `json:"domain_context,omitempty"`
}

// ExtractionResult holds the structured criteria derived from one rating's
// notes. Criteria is open-ended: the known vocabulary plus any novel criteria
// the extractor discovers. Presence of a key always means "observed" — null
// fields from the model response are dropped, never stored.
type ExtractionResult struct {
	Criteria map[string]Value `json:"criteria"`
	// CriteriaOrder preserves first-seen ordering of criteria keys so output
	// and prompt rendering are reproducible.
	CriteriaOrder []string `json:"criteria_order,omitempty"`
	// Confidence is the extractor's self-assessed reliability in [0,1].
	// Keyword fallback always reports a confidence strictly below the LLM path.
	Confidence float64 `json:"confidence"`
	// KeyInsights are short observations surfaced during extraction, kept for
	// audit and debugging, never used in scoring.
	KeyInsights []string  `json:"key_insights,omitempty"`
	Sentiment   Sentiment `json:"sentiment"`
	// Model identifies which extraction path produced this result, so
	// downstream consumers can distinguish extraction quality.
	Model string `json:"model"`
}

// Set records a criterion, preserving first-seen order
func (r *ExtractionResult) Set(name string, v Value) {
	if r.Criteria == nil {
		r.Criteria = make(map[string]Value)
	}
	if _, seen := r.Criteria[name]; !seen {
		r.CriteriaOrder = append(r.CriteriaOrder, name)
	}
	r.Criteria[name] = v
}

// Number returns the numeric value of a criterion, if present and numeric
func (r *ExtractionResult) Number(name string) (float64, bool) {
	v, ok := r.Criteria[name]
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// ValidSentiment reports whether s is one of the four recognized sentiments
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentMixed, SentimentNeutral:
		return true
	}
	return false
}
