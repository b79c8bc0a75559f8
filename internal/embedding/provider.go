package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clipsight/clipsight/internal/model"
)

// Provider defines the interface for embedding backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Dimension returns the fixed vector length this provider produces.
	// All vectors in a comparable set must share it.
	Dimension() int

	// Embed converts text into a vector. Same text, same model version must
	// yield numerically identical vectors across calls.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts in input order. Failure of one item fails the
	// whole batch — items are never silently dropped from the result.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds embedding provider configuration
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Dimension is the expected vector length
	Dimension int

	// Timeout for API requests
	Timeout int // seconds

	// MaxRetries bounds retry attempts on transient upstream failures
	MaxRetries int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Model:      "text-embedding-3-small",
		Dimension:  1536,
		Timeout:    30,
		MaxRetries: 3,
	}
}

// ConfigFromModel converts model.EmbeddingConfig to embedding.Config
func ConfigFromModel(mc model.EmbeddingConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Dimension:  mc.Dimension,
		Timeout:    mc.Timeout,
		MaxRetries: mc.MaxRetries,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
	}
}

// validateInput rejects empty or whitespace-only text before any remote call
func validateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty or whitespace-only text", model.ErrInvalidInput)
	}
	return nil
}

// validateBatchInput checks every item up front so a bad item never reaches
// the backend mid-batch
func validateBatchInput(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: empty batch", model.ErrInvalidInput)
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%w: empty text at index %d", model.ErrInvalidInput, i)
		}
	}
	return nil
}

// withRetry runs fn with bounded exponential backoff. After maxRetries
// attempts the last error is surfaced as ErrUpstreamUnavailable.
func withRetry(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		// Context cancellation propagates to the caller, never retried
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %d attempts failed: %v", model.ErrUpstreamUnavailable, maxRetries, lastErr)
}
