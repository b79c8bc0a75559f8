package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clipsight/clipsight/internal/util"
)

// OllamaProvider implements the Provider interface for local Ollama models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama embedding provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slower
	}

	proxyFunc := util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy)

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: proxyFunc,
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Dimension returns the configured vector length
func (p *OllamaProvider) Dimension() int {
	if p.config.Dimension > 0 {
		return p.config.Dimension
	}
	return 768
}

// IsAvailable checks if the Ollama server responds
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Embed generates a vector for a single text
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}
	return p.embedOne(ctx, text)
}

// EmbedBatch generates vectors sequentially in input order. Ollama has no
// batch endpoint; any item failure fails the whole batch.
func (p *OllamaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatchInput(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := p.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (p *OllamaProvider) embedOne(ctx context.Context, text string) ([]float32, error) {
	embModel := p.config.Model
	if embModel == "" {
		embModel = "nomic-embed-text"
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: embModel, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var vector []float32
	err = withRetry(ctx, p.config.MaxRetries, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := p.httpClient.Do(req)
		if doErr != nil {
			return doErr
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return readErr
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr ollamaError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
				return fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, apiErr.Error)
			}
			return fmt.Errorf("ollama API error: status %d", resp.StatusCode)
		}

		var embedResp ollamaEmbedResponse
		if jsonErr := json.Unmarshal(respBody, &embedResp); jsonErr != nil {
			return fmt.Errorf("parse response: %w", jsonErr)
		}
		if len(embedResp.Embedding) == 0 {
			return fmt.Errorf("ollama returned empty embedding")
		}

		vector = embedResp.Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.config.Dimension > 0 && len(vector) != p.config.Dimension {
		return nil, fmt.Errorf("ollama embedding has dimension %d, expected %d", len(vector), p.config.Dimension)
	}

	return vector, nil
}
