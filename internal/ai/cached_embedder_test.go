package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusqa/internal/metrics"
)

type countingEmbedder struct {
	queries int
	docs    int
}

func (e *countingEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.docs++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (e *countingEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.queries++
	return []float32{float32(len(text))}, nil
}

func (e *countingEmbedder) ModelName() string { return "fake" }

type mapCache struct {
	data   map[string][]float32
	getErr error
}

func (c *mapCache) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[model+"|"+text]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, model, text string, vec []float32) error {
	c.data[model+"|"+text] = vec
	return nil
}

func TestCachedEmbedder_SecondQueryIsCached(t *testing.T) {
	inner := &countingEmbedder{}
	cache := &mapCache{data: map[string][]float32{}}
	emb := NewCachedEmbedder(inner, cache, zerolog.Nop(), metrics.New())

	v1, err := emb.EmbedQuery(context.Background(), "abc")
	require.NoError(t, err)
	v2, err := emb.EmbedQuery(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.queries)
	assert.Contains(t, cache.data, "fake|abc")
}

func TestCachedEmbedder_CacheErrorFallsThrough(t *testing.T) {
	inner := &countingEmbedder{}
	emb := NewCachedEmbedder(inner, &mapCache{data: map[string][]float32{}, getErr: errors.New("redis down")}, zerolog.Nop(), nil)

	vec, err := emb.EmbedQuery(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, vec)
	assert.Equal(t, 1, inner.queries)
}

func TestCachedEmbedder_DocumentsBypassCache(t *testing.T) {
	inner := &countingEmbedder{}
	cache := &mapCache{data: map[string][]float32{}}
	emb := NewCachedEmbedder(inner, cache, zerolog.Nop(), nil)

	_, err := emb.EmbedDocuments(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.docs)
	assert.Empty(t, cache.data)
}
