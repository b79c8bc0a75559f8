package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI embedding models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI embedding provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	client := openai.NewClientWithConfig(clientConfig)

	return &OpenAIProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Dimension returns the configured vector length
func (p *OpenAIProvider) Dimension() int {
	if p.config.Dimension > 0 {
		return p.config.Dimension
	}
	return 1536
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Embed generates a vector for a single text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}

	vectors, err := p.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for texts in input order. Any item failure
// fails the whole batch.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatchInput(texts); err != nil {
		return nil, err
	}
	return p.embed(ctx, texts)
}

func (p *OpenAIProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	embModel := p.config.Model
	if embModel == "" {
		embModel = "text-embedding-3-small"
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(embModel),
	}

	var resp openai.EmbeddingResponse
	err := withRetry(ctxWithTimeout, p.config.MaxRetries, func() error {
		var callErr error
		resp, callErr = p.client.CreateEmbeddings(ctxWithTimeout, req)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI embeddings: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	// The API tags each vector with its input index; order by it rather than
	// trusting response order.
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("OpenAI embeddings: vector index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("OpenAI embeddings: missing vector for input %d", i)
		}
		if p.config.Dimension > 0 && len(v) != p.config.Dimension {
			return nil, fmt.Errorf("OpenAI embeddings: input %d has dimension %d, expected %d", i, len(v), p.config.Dimension)
		}
	}

	return vectors, nil
}
