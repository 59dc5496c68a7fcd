package embedding

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/sandevgo/recallbot/internal/core"
)

// Cached memoizes an embedder by exact text.
type Cached struct {
	inner core.Embedder
	cache *ristretto.Cache
}

func NewCached(inner core.Embedder, maxItems int64) (*Cached, error) {
	if maxItems <= 0 {
		maxItems = 10000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v.([]float32), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, 1)
	return vec, nil
}

// EmbedBatch only sends cache misses to the inner embedder.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v.([]float32)
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		vecs, err := c.inner.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, v := range vecs {
			out[missingIdx[j]] = v
			c.cache.Set(missing[j], v, 1)
		}
	}
	return out, nil
}

func (c *Cached) Dimension() int {
	return c.inner.Dimension()
}

// Wait blocks until pending Sets are applied.
func (c *Cached) Wait() {
	c.cache.Wait()
}

func (c *Cached) Close() error {
	c.cache.Close()
	return nil
}
