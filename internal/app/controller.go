package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"censusqa/internal/metrics"
	"censusqa/internal/model"
)

type Builder interface {
	Build(ctx context.Context) (*BuiltIndex, error)
}

type AnswerComposer interface {
	Compose(ctx context.Context, question string, chunks []model.RetrievedChunk) (*model.Answer, error)
}

// Event is one page interaction: the build button, the question field, or both.
type Event struct {
	Build    bool
	Question string
}

// View is everything the page renders after an Event.
type View struct {
	Question   string
	State      State
	Ready      bool // build succeeded during this event
	BuildError string
	Answer     *model.Answer
	AskError   string
	Documents  int
	Chunks     int
}

type BuildResult struct {
	State     State     `json:"state"`
	Reused    bool      `json:"reused"`
	Documents int       `json:"documents"`
	Chunks    int       `json:"chunks"`
	BuiltAt   time.Time `json:"built_at"`
}

// Controller sequences builds and questions against a Session.
type Controller struct {
	builder  Builder
	composer AnswerComposer
	topK     int
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewController(builder Builder, composer AnswerComposer, topK int, log zerolog.Logger, m *metrics.Metrics) *Controller {
	if topK <= 0 {
		topK = 4
	}
	return &Controller{
		builder:  builder,
		composer: composer,
		topK:     topK,
		log:      log.With().Str("component", "controller").Logger(),
		metrics:  m,
	}
}

// Dispatch handles one Event. A failed build stops the event before the question
// is looked at, the way an exception ends a page run.
func (c *Controller) Dispatch(ctx context.Context, sess *Session, ev Event) View {
	question := strings.TrimSpace(ev.Question)
	view := View{Question: ev.Question}

	if ev.Build {
		if _, err := c.BuildIndex(ctx, sess); err != nil {
			view.BuildError = err.Error()
			c.fillState(&view, sess)
			return view
		}
		view.Ready = true
	}

	if question != "" {
		answer, err := c.Ask(ctx, sess, question)
		switch {
		case errors.Is(err, model.ErrPrecondition):
			view.AskError = PreconditionMessage
		case err != nil:
			view.AskError = err.Error()
		default:
			view.Answer = answer
		}
	}

	c.fillState(&view, sess)
	return view
}

// BuildIndex moves the session to READY, or reuses its index when already READY.
func (c *Controller) BuildIndex(ctx context.Context, sess *Session) (*BuildResult, error) {
	built, reused, err := sess.GetOrBuild(ctx, c.builder.Build)
	if err != nil {
		c.observeBuild(metrics.ResultError, nil)
		c.log.Error().Err(err).Str("session", sess.ID).Msg("index build failed")
		return nil, err
	}
	if reused {
		c.observeBuild(metrics.ResultReused, nil)
	} else {
		c.observeBuild(metrics.ResultOK, built)
	}
	return &BuildResult{
		State:     StateReady,
		Reused:    reused,
		Documents: built.Documents,
		Chunks:    built.Chunks,
		BuiltAt:   built.BuiltAt,
	}, nil
}

// Ask runs one retrieve-then-compose cycle. Before the index exists it returns
// ErrPrecondition without touching the embedder or the composer.
func (c *Controller) Ask(ctx context.Context, sess *Session, question string) (*model.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	index, ok := sess.Index()
	if !ok {
		c.observeQuestion(metrics.ResultRejected)
		return nil, fmt.Errorf("%w: index not built for this session", model.ErrPrecondition)
	}

	start := time.Now()
	chunks, err := index.Query(ctx, question, c.topK)
	if err != nil {
		c.observeQuestion(metrics.ResultError)
		c.log.Error().Err(err).Str("session", sess.ID).Msg("retrieval failed")
		if errors.Is(err, model.ErrEmbeddingService) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrEmbeddingService, err)
	}
	if c.metrics != nil {
		c.metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	}

	answer, err := c.composer.Compose(ctx, question, chunks)
	if err != nil {
		c.observeQuestion(metrics.ResultError)
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.ComposeDuration.Observe(answer.Elapsed.Seconds())
	}
	c.observeQuestion(metrics.ResultOK)
	return answer, nil
}

func (c *Controller) fillState(view *View, sess *Session) {
	view.State = sess.State()
	if b := sess.Built(); b != nil {
		view.Documents = b.Documents
		view.Chunks = b.Chunks
	}
}

func (c *Controller) observeBuild(result string, built *BuiltIndex) {
	if c.metrics == nil {
		return
	}
	c.metrics.IndexBuildsTotal.WithLabelValues(result).Inc()
	if built != nil {
		c.metrics.IndexBuildDuration.Observe(built.Duration.Seconds())
		c.metrics.IndexedChunks.Set(float64(built.Chunks))
	}
}

func (c *Controller) observeQuestion(result string) {
	if c.metrics != nil {
		c.metrics.QuestionsTotal.WithLabelValues(result).Inc()
	}
}
