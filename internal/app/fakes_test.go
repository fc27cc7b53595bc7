package app

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"censusqa/internal/ai"
	"censusqa/internal/model"
)

// wordEmbedder is a deterministic bag-of-words embedder.
type wordEmbedder struct {
	mu        sync.Mutex
	docCalls  int
	queryCall int
	err       error
}

const wordDims = 64

func (e *wordEmbedder) vector(text string) []float32 {
	v := make([]float32, wordDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%wordDims]++
	}
	v[0] += 0.01 // never all-zero
	return v
}

func (e *wordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.docCalls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *wordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.queryCall++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

type staticLoader struct {
	mu    sync.Mutex
	docs  []model.RawDocument
	err   error
	calls int
}

func (l *staticLoader) Load(context.Context) ([]model.RawDocument, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return l.docs, nil
}

type fakeChat struct {
	answer   string
	err      error
	calls    int
	messages []ai.ChatMessage
}

func (f *fakeChat) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
