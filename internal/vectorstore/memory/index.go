// Package memory is an in-memory brute-force cosine similarity index over TextChunks.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"censusqa/internal/model"
)

var (
	ErrNotBuilt          = errors.New("index has not been built")
	ErrNoChunks          = errors.New("no chunks to index")
	ErrVectorMismatch    = errors.New("chunks and vectors length mismatch")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index is built once and then queried. A new Build replaces the whole content;
// queries may run concurrently with each other and with a Build.
type Index struct {
	embedder Embedder

	mu        sync.RWMutex
	chunks    []model.TextChunk
	vectors   [][]float32 // L2-normalized
	dimension int
}

func NewIndex(embedder Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build embeds every chunk and installs the result.
func (ix *Index) Build(ctx context.Context, chunks []model.TextChunk) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}
	return ix.BuildFromVectors(chunks, vectors)
}

// BuildFromVectors installs precomputed vectors, vectors[i] belonging to chunks[i].
// On error the previous content is left untouched.
func (ix *Index) BuildFromVectors(chunks []model.TextChunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", ErrVectorMismatch, len(chunks), len(vectors))
	}
	dim := len(vectors[0])
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		normalized[i] = normalize(v)
	}
	owned := make([]model.TextChunk, len(chunks))
	copy(owned, chunks)

	ix.mu.Lock()
	ix.chunks = owned
	ix.vectors = normalized
	ix.dimension = dim
	ix.mu.Unlock()
	return nil
}

// Query embeds text and returns the k most similar chunks, best first.
// Equal scores keep build order.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]model.RetrievedChunk, error) {
	if ix.Len() == 0 {
		return nil, ErrNotBuilt
	}
	vec, err := ix.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	return ix.Search(vec, k)
}

// Search ranks the indexed chunks against an already embedded query.
func (ix *Index) Search(query []float32, k int) ([]model.RetrievedChunk, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vectors) == 0 {
		return nil, ErrNotBuilt
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), ix.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	q := normalize(query)
	order := make([]int, len(ix.vectors))
	scores := make([]float32, len(ix.vectors))
	for i, v := range ix.vectors {
		order[i] = i
		scores[i] = dot(q, v)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k = min(k, len(order))
	out := make([]model.RetrievedChunk, k)
	for i := 0; i < k; i++ {
		j := order[i]
		out[i] = model.RetrievedChunk{TextChunk: ix.chunks[j], Score: scores[j]}
	}
	return out, nil
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

func (ix *Index) Dimension() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimension
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
