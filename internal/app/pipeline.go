package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"censusqa/internal/model"
	"censusqa/internal/vectorstore/memory"
)

type DocumentLoader interface {
	Load(ctx context.Context) ([]model.RawDocument, error)
}

type ChunkSplitter interface {
	SplitDocuments(docs []model.RawDocument) []model.TextChunk
}

// BuiltIndex is the output of one ingest, chunk, embed and index cycle.
type BuiltIndex struct {
	Index     *memory.Index
	Documents int
	Chunks    int
	BuiltAt   time.Time
	Duration  time.Duration
}

// Pipeline runs the build cycle. Every call produces a fresh Index.
type Pipeline struct {
	loader   DocumentLoader
	splitter ChunkSplitter
	embedder memory.Embedder
	log      zerolog.Logger
}

func NewPipeline(loader DocumentLoader, splitter ChunkSplitter, embedder memory.Embedder, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

func (p *Pipeline) Build(ctx context.Context) (*BuiltIndex, error) {
	start := time.Now()

	docs, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	chunks := p.splitter.SplitDocuments(docs)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no extractable text in %d documents", model.ErrIngestion, len(docs))
	}

	index := memory.NewIndex(p.embedder)
	if err := index.Build(ctx, chunks); err != nil {
		if errors.Is(err, model.ErrEmbeddingService) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrEmbeddingService, err)
	}

	used := countDocuments(chunks)
	built := &BuiltIndex{
		Index:     index,
		Documents: used,
		Chunks:    len(chunks),
		BuiltAt:   time.Now(),
		Duration:  time.Since(start),
	}
	p.log.Info().
		Int("documents_loaded", len(docs)).
		Int("documents_used", used).
		Int("chunks", built.Chunks).
		Int("dimension", index.Dimension()).
		Dur("elapsed", built.Duration).
		Msg("index built")
	return built, nil
}

func countDocuments(chunks []model.TextChunk) int {
	seen := make(map[int]struct{})
	for _, c := range chunks {
		seen[c.DocumentIdx] = struct{}{}
	}
	return len(seen)
}
