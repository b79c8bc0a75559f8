// Probe program for the keyword-fallback criteria extractor.
// Runs the deterministic fallback over sample reviewer notes so rule and
// sentiment changes can be eyeballed without any backend.
package main

import (
	"fmt"
	"strings"

	"github.com/clipsight/clipsight/internal/criteria"
	"github.com/clipsight/clipsight/internal/model"
)

func main() {
	fmt.Println("=== Keyword Fallback Probe ===")
	fmt.Println()

	samples := []model.Rating{
		{ID: "s-1", Notes: "very hard to replicate, needs a trained actor"},
		{ID: "s-2", Notes: "easy to copy at home, great relatable humor"},
		{ID: "s-3", Notes: "uses elaborate props and costumes, riding a viral trend"},
		{ID: "s-4", Notes: "boring and derivative, terrible pacing"},
	}

	extractor := criteria.NewKeywordExtractor(model.DefaultConfig().Extraction)

	for _, rating := range samples {
		fmt.Printf("Notes: %q\n", rating.Notes)
		fmt.Println(strings.Repeat("-", 60))

		result := extractor.Extract(rating)

		for _, name := range result.CriteriaOrder {
			value := result.Criteria[name]
			switch value.Kind {
			case model.KindNumber:
				fmt.Printf("  %-22s %.2f\n", name, value.Number)
			case model.KindCategory:
				fmt.Printf("  %-22s %s\n", name, value.Category)
			case model.KindBool:
				fmt.Printf("  %-22s %t\n", name, value.Bool)
			}
		}
		fmt.Printf("  sentiment: %s, confidence: %.2f\n", result.Sentiment, result.Confidence)
		for _, insight := range result.KeyInsights {
			fmt.Printf("  provenance: %s\n", insight)
		}
		fmt.Println()
	}
}
