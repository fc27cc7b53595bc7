package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"censusqa/internal/model"
)

const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"

	// The Gemini API accepts at most 100 contents per batch request.
	maxGeminiBatch = 100
)

type embedContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)

// GeminiEmbedder embeds text with a Google embedding model.
type GeminiEmbedder struct {
	embed     embedContentFunc
	model     string
	batchSize int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, batchSize int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init genai client: %w", model.ErrEmbeddingService, err)
	}
	return newGeminiEmbedder(client.Models.EmbedContent, modelName, batchSize), nil
}

func newGeminiEmbedder(embed embedContentFunc, modelName string, batchSize int) *GeminiEmbedder {
	if batchSize <= 0 || batchSize > maxGeminiBatch {
		batchSize = maxGeminiBatch
	}
	return &GeminiEmbedder{embed: embed, model: modelName, batchSize: batchSize}
}

// EmbedDocuments returns one vector per text, in input order.
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))
		vecs, err := e.embedBatch(ctx, texts[i:end], taskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedBatch(ctx, []string{text}, taskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *GeminiEmbedder) ModelName() string {
	return e.model
}

func (e *GeminiEmbedder) embedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	result, err := e.embed(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: taskType})
	if err != nil {
		return nil, fmt.Errorf("%w: embed content: %w", model.ErrEmbeddingService, err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("%w: embedding count mismatch: sent %d, got %d", model.ErrEmbeddingService, len(texts), got)
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", model.ErrEmbeddingService, i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}
