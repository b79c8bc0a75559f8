package regression

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clipsight/clipsight/internal/llm"
	"github.com/clipsight/clipsight/internal/model"
)

const analysisSystemPrompt = `You analyze short-form comedy videos. Given a summary of a video, explain what makes it work: the joke structure, who it lands with, and why. Answer in two or three sentences of plain prose.`

// Retriever supplies similar corrected examples for retrieval-augmented
// analysis. *examples.Store satisfies it.
type Retriever interface {
	FindSimilar(ctx context.Context, queryText string, threshold float64, count int) ([]model.SimilarExample, error)
}

// PromptRenderer turns retrieved matches into a prompt section.
// examples.PromptBlock is the standard implementation.
type PromptRenderer func(matches []model.SimilarExample) string

// LLMStrategy re-analyzes each video summary with a chat model, optionally
// enriching the prompt with similar corrected examples from the corpus.
type LLMStrategy struct {
	provider  llm.Provider
	modelName string
	maxTokens int

	retriever Retriever
	renderer  PromptRenderer
	threshold float64
	count     int
}

// NewLLMStrategy creates a plain chat-model strategy
func NewLLMStrategy(provider llm.Provider, modelName string, maxTokens int) *LLMStrategy {
	return &LLMStrategy{
		provider:  provider,
		modelName: modelName,
		maxTokens: maxTokens,
	}
}

// WithRetrieval enables retrieval-augmented prompts: before analyzing, the
// strategy fetches up to count examples above threshold and prepends them
func (s *LLMStrategy) WithRetrieval(retriever Retriever, renderer PromptRenderer, threshold float64, count int) *LLMStrategy {
	s.retriever = retriever
	s.renderer = renderer
	s.threshold = threshold
	s.count = count
	return s
}

// Name identifies the strategy in reports
func (s *LLMStrategy) Name() string {
	name := s.provider.Name()
	if s.modelName != "" {
		name += "/" + s.modelName
	}
	if s.retriever != nil {
		name += "+rag"
	}
	return name
}

// Analyze produces the candidate interpretation for one example
func (s *LLMStrategy) Analyze(ctx context.Context, example model.TeachingExample) (string, error) {
	if strings.TrimSpace(example.VideoSummary) == "" {
		return "", fmt.Errorf("%w: example %s has no video summary", model.ErrInvalidInput, example.ID)
	}

	var prompt strings.Builder
	if s.retriever != nil {
		// Retrieval is an enrichment; a failure degrades to a plain prompt.
		// Fetch one extra so excluding the example itself still fills count.
		matches, err := s.retriever.FindSimilar(ctx, example.VideoSummary, s.threshold, s.count+1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: retrieval failed for %s: %v\n", example.ID, err)
		} else if block := s.renderer(excludeSelf(matches, example.ID, s.count)); block != "" {
			prompt.WriteString(block)
			prompt.WriteString("\n\n")
		}
	}
	prompt.WriteString("Video summary:\n")
	prompt.WriteString(example.VideoSummary)
	prompt.WriteString("\n\nWhat makes this video work?")

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System:    analysisSystemPrompt,
		User:      prompt.String(),
		Model:     s.modelName,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// excludeSelf drops the example under analysis from its own retrieval set.
// The corpus contains that example, so it would otherwise come back at
// similarity ~1.0 and hand the candidate its own ground truth.
func excludeSelf(matches []model.SimilarExample, id string, count int) []model.SimilarExample {
	filtered := make([]model.SimilarExample, 0, len(matches))
	for _, match := range matches {
		if match.Example.ID == id {
			continue
		}
		filtered = append(filtered, match)
	}
	if count >= 0 && len(filtered) > count {
		filtered = filtered[:count]
	}
	return filtered
}
