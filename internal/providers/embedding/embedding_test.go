package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_DeterministicUnitVectors(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(16)

	a1, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	a2, _ := e.Embed(ctx, "hello")
	b, _ := e.Embed(ctx, "world")

	assert.Len(t, a1, 16)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)

	var sum float64
	for _, v := range a1 {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestHashEmbedder_Batch(t *testing.T) {
	e := NewHashEmbedder(0)
	assert.Equal(t, 384, e.Dimension())

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	single, _ := e.Embed(context.Background(), "b")
	assert.Equal(t, single, vecs[1])
}

type countingEmbedder struct {
	*HashEmbedder
	calls atomic.Int32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	return c.HashEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(int32(len(texts)))
	return c.HashEmbedder.EmbedBatch(ctx, texts)
}

func TestCached_HitsSkipInner(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{HashEmbedder: NewHashEmbedder(8)}
	c, err := NewCached(inner, 100)
	require.NoError(t, err)
	defer c.Close()

	first, err := c.Embed(ctx, "tea")
	require.NoError(t, err)
	c.Wait()
	second, err := c.Embed(ctx, "tea")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())

	vecs, err := c.EmbedBatch(ctx, []string{"tea", "coffee"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, first, vecs[0])
	assert.Equal(t, int32(2), inner.calls.Load(), "only the miss goes to the inner embedder")
}

func TestOllamaEmbedder_Batch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		resp := ollamaEmbedResponse{}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{0.1, 0.2, 0.3})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL+"/", "nomic-embed-text", 3)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)

	one, err := e.Embed(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, one)
}

func TestOllamaEmbedder_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "missing", 3).Embed(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOllamaEmbedder_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1, 2}}})
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "m", 3).Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestNewEmbedder_Factory(t *testing.T) {
	e, err := NewEmbedder(&config.EmbeddingConfig{Provider: "hash", Dimension: 32, CacheSize: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, 32, e.Dimension())

	_, err = NewEmbedder(&config.EmbeddingConfig{Provider: "nope"}, "")
	assert.Error(t, err)
}
