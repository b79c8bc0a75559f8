package examples

import (
	"fmt"
	"strings"

	"github.com/clipsight/clipsight/internal/model"
)

// PromptBlock renders retrieved examples into a prompt section for
// retrieval-augmented analysis, in rank order. Returns "" when nothing was
// retrieved, so callers can skip the section entirely.
func PromptBlock(matches []model.SimilarExample) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Similar videos a human reviewer has already corrected. Use their interpretations as guidance:\n")

	for i, match := range matches {
		example := match.Example
		b.WriteString(fmt.Sprintf("\nExample %d (similarity %.2f):\n", i+1, match.Similarity))
		b.WriteString(fmt.Sprintf("Video: %s\n", example.VideoSummary))
		b.WriteString(fmt.Sprintf("Correct interpretation: %s\n", example.CorrectInterpretation))
		if example.Explanation != "" {
			b.WriteString(fmt.Sprintf("Why: %s\n", example.Explanation))
		}
		if len(example.HumorTypes) > 0 {
			b.WriteString(fmt.Sprintf("Humor types: %s\n", strings.Join(example.HumorTypes, ", ")))
		}
	}

	return b.String()
}
