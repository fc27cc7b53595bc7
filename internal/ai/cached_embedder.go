package ai

import (
	"context"

	"github.com/rs/zerolog"

	"censusqa/internal/metrics"
)

// Embedder is implemented by GeminiEmbedder and OpenAIEmbedder.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type QueryCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Set(ctx context.Context, model, text string, vec []float32) error
}

// CachedEmbedder serves repeated questions from a QueryCache. Document
// embeddings always go to the provider. Cache failures are logged and bypassed.
type CachedEmbedder struct {
	Embedder
	cache   QueryCache
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewCachedEmbedder(inner Embedder, cache QueryCache, log zerolog.Logger, m *metrics.Metrics) *CachedEmbedder {
	return &CachedEmbedder{Embedder: inner, cache: cache, log: log, metrics: m}
}

func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	modelName := e.Embedder.ModelName()
	vec, hit, err := e.cache.Get(ctx, modelName, text)
	switch {
	case err != nil:
		e.observe("error")
		e.log.Warn().Err(err).Msg("query embedding cache lookup failed")
	case hit:
		e.observe("hit")
		return vec, nil
	default:
		e.observe("miss")
	}

	vec, err = e.Embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, modelName, text, vec); err != nil {
		e.log.Warn().Err(err).Msg("query embedding cache store failed")
	}
	return vec, nil
}

func (e *CachedEmbedder) observe(outcome string) {
	if e.metrics != nil {
		e.metrics.EmbeddingCacheTotal.WithLabelValues(outcome).Inc()
	}
}
