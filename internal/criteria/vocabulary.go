package criteria

import (
	"fmt"
	"strings"

	"github.com/clipsight/clipsight/internal/model"
)

// Criterion describes one entry of the known vocabulary. The vocabulary is a
// floor, not a ceiling: the extractor may surface novel criteria beyond it.
type Criterion struct {
	Name        string
	Kind        model.ValueKind
	Description string
}

// KnownVocabulary is the fixed criteria vocabulary enumerated in the
// extraction prompt, in canonical order.
var KnownVocabulary = []Criterion{
	{"replicability", model.KindNumber, "How easily an average creator could recreate this video (0 = near impossible, 1 = trivial)"},
	{"acting_barrier", model.KindNumber, "How much acting or performance skill the video demands (0 = none, 1 = trained performer)"},
	{"props_dependency", model.KindBool, "Whether the video depends on specific props, costumes or equipment"},
	{"audience_specificity", model.KindNumber, "How narrow the audience is (0 = universal, 1 = very niche)"},
	{"relatability", model.KindNumber, "How strongly a broad audience recognizes the situation"},
	{"trendiness", model.KindNumber, "How tied the video is to a current trend or sound"},
	{"production_quality", model.KindNumber, "Editing, lighting and polish level"},
	{"humor_style", model.KindCategory, "Dominant humor style (e.g., deadpan, absurdist, observational, cringe)"},
	{"format", model.KindCategory, "Video format (e.g., skit, duet, greenscreen, vlog)"},
	{"target_generation", model.KindCategory, "Primary generational audience (e.g., gen-z, millennial, broad)"},
}

// KnownCriterion looks up a vocabulary entry by name
func KnownCriterion(name string) (Criterion, bool) {
	for _, c := range KnownVocabulary {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}

// BuildPrompt constructs the extraction prompt for a rating's notes
func BuildPrompt(rating model.Rating) string {
	var b strings.Builder

	b.WriteString("Extract structured rating criteria from a reviewer's notes about a short-form video.\n\n")
	b.WriteString("Known criteria (use these names when they apply):\n")
	for _, c := range KnownVocabulary {
		b.WriteString(fmt.Sprintf("- %s (%s): %s\n", c.Name, c.Kind, c.Description))
	}

	b.WriteString(`
RULES:
1. Emit ONLY criteria you can ground in the notes. No defaults, no guesses.
2. You may add novel criteria beyond the known list when the notes clearly support them.
3. Numeric criteria are scores in [0,1].
4. Omit criteria the notes say nothing about - never emit null values.
5. Respond with a single JSON object:
   {"criteria": {...}, "confidence": <0..1>, "sentiment": "positive|negative|mixed|neutral", "key_insights": ["..."]}
`)

	if rating.DomainContext != "" {
		b.WriteString(fmt.Sprintf("\nDomain context: %s\n", rating.DomainContext))
	}
	if rating.OverallScore != nil {
		b.WriteString(fmt.Sprintf("\nReviewer's overall score: %.2f\n", *rating.OverallScore))
	}

	b.WriteString(fmt.Sprintf("\nReviewer notes:\n%s\n", rating.Notes))

	return b.String()
}

// systemPrompt sets the extraction role for the LLM path
const systemPrompt = "You extract structured, grounded rating criteria from free-text video review notes. You never invent criteria the notes do not support."
