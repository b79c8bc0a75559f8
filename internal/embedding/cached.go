package embedding

import (
	"context"
	"time"

	"github.com/clipsight/clipsight/internal/cache"
)

// CachedProvider wraps a Provider with a content-hash keyed vector cache.
// Embeddings are deterministic for a fixed model version, so a cache hit is
// always safe to reuse.
type CachedProvider struct {
	inner Provider
	cache cache.VectorCache
	model string
	ttl   time.Duration
}

// NewCachedProvider wraps inner with the given cache
func NewCachedProvider(inner Provider, vc cache.VectorCache, embModel string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: vc,
		model: embModel,
		ttl:   ttl,
	}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// Dimension returns the wrapped provider's dimension
func (p *CachedProvider) Dimension() int {
	return p.inner.Dimension()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Embed returns the cached vector when present, otherwise embeds and caches
func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}

	key := cache.VectorKey(p.model, text)
	if vec, found := p.cache.Get(key); found {
		return vec, nil
	}

	vec, err := p.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	_ = p.cache.Set(key, vec, p.ttl)
	return vec, nil
}

// EmbedBatch serves cached items locally and sends only misses upstream,
// reassembling results in input order. Any upstream failure fails the batch.
func (p *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatchInput(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	var missTexts []string
	var missIndexes []int

	for i, text := range texts {
		if vec, found := p.cache.Get(cache.VectorKey(p.model, text)); found {
			vectors[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}

	if len(missTexts) > 0 {
		fresh, err := p.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, vec := range fresh {
			i := missIndexes[j]
			vectors[i] = vec
			_ = p.cache.Set(cache.VectorKey(p.model, texts[i]), vec, p.ttl)
		}
	}

	return vectors, nil
}
