package criteria

import (
	"strings"

	"github.com/clipsight/clipsight/internal/model"
)

// FallbackModelID identifies keyword-fallback results so downstream consumers
// can distinguish extraction quality from the LLM path
const FallbackModelID = "keyword-fallback-v1"

// keywordRule maps lexical triggers to a fixed criterion value. When
// negatives match alongside triggers, negativeValue applies instead of value.
type keywordRule struct {
	criterion     string
	triggers      []string
	negatives     []string
	value         model.Value
	negativeValue model.Value
}

// KeywordExtractor is the deterministic fallback used when LLM extraction
// fails. Its constants are heuristic defaults carried in configuration.
type KeywordExtractor struct {
	rules      []keywordRule
	confidence float64
}

// NewKeywordExtractor creates a keyword extractor with rule values taken
// from configuration
func NewKeywordExtractor(cfg model.ExtractionConfig) *KeywordExtractor {
	return &KeywordExtractor{
		confidence: cfg.FallbackConfidence,
		rules: []keywordRule{
			{
				criterion:     "replicability",
				triggers:      []string{"replicate", "replicable", "copy", "recreate"},
				negatives:     []string{"hard", "difficult", "tough", "impossible", "tricky"},
				value:         model.NumberValue(cfg.ReplicabilityEasy),
				negativeValue: model.NumberValue(cfg.ReplicabilityHard),
			},
			{
				criterion: "acting_barrier",
				triggers:  []string{"actor", "acting", "performance", "delivery", "timing"},
				value:     model.NumberValue(cfg.ActingBarrier),
			},
			{
				criterion: "props_dependency",
				triggers:  []string{"prop", "props", "costume", "equipment", "setup"},
				value:     model.BoolValue(true),
			},
			{
				criterion: "trendiness",
				triggers:  []string{"trend", "trending", "viral", "sound"},
				value:     model.NumberValue(0.6),
			},
		},
	}
}

var positiveWords = []string{"love", "loved", "great", "excellent", "hilarious", "works", "funny", "perfect"}
var negativeWords = []string{"bad", "boring", "weak", "flat", "fails", "hate", "annoying", "confusing"}

// Extract runs deterministic keyword matching over the notes. Never calls a
// remote backend and never fails on non-empty input.
func (e *KeywordExtractor) Extract(rating model.Rating) *model.ExtractionResult {
	lower := strings.ToLower(rating.Notes)

	result := &model.ExtractionResult{
		Confidence: e.confidence,
		Sentiment:  e.sentiment(lower, rating.OverallScore),
		Model:      FallbackModelID,
	}

	for _, rule := range e.rules {
		trigger, hit := matchAny(lower, rule.triggers)
		if !hit {
			continue
		}

		value := rule.value
		heuristic := "keyword:" + trigger
		if negative, neg := matchAny(lower, rule.negatives); neg {
			value = rule.negativeValue
			heuristic = "keyword:" + trigger + "+" + negative
		}

		result.Set(rule.criterion, value)
		result.KeyInsights = append(result.KeyInsights, heuristic)
	}

	return result
}

// sentiment derives a coarse sentiment from word counts, falling back to the
// reviewer's overall score when the words are inconclusive
func (e *KeywordExtractor) sentiment(lower string, overallScore *float64) model.Sentiment {
	positive := countAny(lower, positiveWords)
	negative := countAny(lower, negativeWords)

	switch {
	case positive > 0 && negative > 0:
		return model.SentimentMixed
	case positive > 0:
		return model.SentimentPositive
	case negative > 0:
		return model.SentimentNegative
	}

	if overallScore != nil {
		if *overallScore >= 0.7 {
			return model.SentimentPositive
		}
		if *overallScore <= 0.3 {
			return model.SentimentNegative
		}
	}

	return model.SentimentNeutral
}

func matchAny(text string, words []string) (string, bool) {
	for _, w := range words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

func countAny(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}
