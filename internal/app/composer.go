package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"censusqa/internal/ai"
	"censusqa/internal/model"
)

const promptTemplate = `
Answer the questions based on the provided context only.
Please provide the most accurate response based on the question.
<context>
{context}
<context>
Questions: {input}
`

type ChatCompleter interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// Composer turns a question and its retrieved context into one chat-completion call.
type Composer struct {
	llm        ChatCompleter
	chatConfig ai.ChatConfig
	log        zerolog.Logger
}

func NewComposer(llm ChatCompleter, chatConfig ai.ChatConfig, log zerolog.Logger) *Composer {
	return &Composer{
		llm:        llm,
		chatConfig: chatConfig,
		log:        log.With().Str("component", "composer").Logger(),
	}
}

// Compose issues exactly one request. The answer text is returned as the model
// produced it; Elapsed covers the remote call only.
func (c *Composer) Compose(ctx context.Context, question string, chunks []model.RetrievedChunk) (*model.Answer, error) {
	messages := []ai.ChatMessage{
		{Role: "user", Content: BuildPrompt(question, chunks)},
	}

	start := time.Now()
	text, err := c.llm.Complete(ctx, c.chatConfig, messages)
	elapsed := time.Since(start)
	if err != nil {
		c.log.Error().Err(err).Dur("elapsed", elapsed).Msg("chat completion failed")
		return nil, fmt.Errorf("%w: %w", model.ErrCompletionService, err)
	}

	c.log.Info().
		Str("model", c.chatConfig.Model).
		Int("context_chunks", len(chunks)).
		Dur("elapsed", elapsed).
		Msg("answer composed")

	return &model.Answer{
		Question: question,
		Text:     text,
		Context:  chunks,
		Elapsed:  elapsed,
	}, nil
}

// BuildPrompt fills the two placeholders in a single pass, so placeholder-like
// text inside the context or question is never substituted again.
func BuildPrompt(question string, chunks []model.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	r := strings.NewReplacer(
		"{context}", strings.Join(parts, "\n\n"),
		"{input}", question,
	)
	return r.Replace(promptTemplate)
}
