package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"censusqa/internal/ai"
	"censusqa/internal/app"
	"censusqa/internal/cache"
	"censusqa/internal/chunker"
	"censusqa/internal/config"
	"censusqa/internal/ingest"
	"censusqa/internal/metrics"
	redisClient "censusqa/internal/platform/redis"
)

type App struct {
	Config     *config.Config
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
	Sessions   *app.SessionStore
	Controller *app.Controller
	Redis      *redis.Client // nil when the embedding cache is disabled
	Cron       *cron.Cron

	StartedAt time.Time
}

// New wires every component from a validated config. Nothing contacts the
// embedding or completion services until the first build.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	m := metrics.New()

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var redisCli *redis.Client
	redisOpts := redisClient.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisOpts.Enabled() {
		redisCli, err = redisClient.New(ctx, redisOpts)
		if err != nil {
			return nil, err
		}
		queryCache := cache.NewEmbeddingCache(redisCli, cfg.EmbeddingCacheTTL())
		embedder = ai.NewCachedEmbedder(embedder, queryCache, log.With().Str("component", "embedding_cache").Logger(), m)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("query embedding cache enabled")
	}

	splitter, err := chunker.NewSplitter(cfg.Documents.ChunkSize, cfg.Documents.ChunkOverlap, cfg.Documents.MaxDocuments)
	if err != nil {
		closeRedis(redisCli)
		return nil, fmt.Errorf("create splitter failed: %w", err)
	}

	loader := ingest.NewDirectoryLoader(cfg.Documents.Dir, log)
	pipeline := app.NewPipeline(loader, splitter, embedder, log)

	groq := ai.NewOpenAICompatibleClient(cfg.GroqTimeout())
	composer := app.NewComposer(groq, ai.ChatConfig{
		BaseURL: cfg.Groq.BaseURL,
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
	}, log)

	controller := app.NewController(pipeline, composer, cfg.Retrieval.TopK, log, m)
	sessions := app.NewSessionStore(cfg.SessionIdleTimeout(), log, m)

	scheduler := cron.New()
	if cfg.SessionIdleTimeout() > 0 {
		if _, err := scheduler.AddFunc(cfg.Session.SweepSpec, func() { sessions.Sweep() }); err != nil {
			closeRedis(redisCli)
			return nil, fmt.Errorf("schedule session sweep %q failed: %w", cfg.Session.SweepSpec, err)
		}
	}
	scheduler.Start()

	log.Info().
		Str("documents_dir", cfg.Documents.Dir).
		Str("embedding_provider", cfg.Embedding.Provider).
		Str("embedding_model", embedder.ModelName()).
		Str("chat_model", cfg.Groq.Model).
		Int("top_k", cfg.Retrieval.TopK).
		Msg("application wired")

	return &App{
		Config:     cfg,
		Log:        log,
		Metrics:    m,
		Sessions:   sessions,
		Controller: controller,
		Redis:      redisCli,
		Cron:       scheduler,
		StartedAt:  time.Now(),
	}, nil
}

func newEmbedder(ctx context.Context, cfg *config.Config) (ai.Embedder, error) {
	switch cfg.Embedding.Provider {
	case config.EmbeddingProviderGoogle:
		gemini, err := ai.NewGeminiEmbedder(ctx, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BatchSize)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case config.EmbeddingProviderOpenAI:
		client := ai.NewOpenAICompatibleClient(60 * time.Second)
		return ai.NewOpenAIEmbedder(client, ai.EmbeddingConfig{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKey:    cfg.Embedding.APIKey,
			Model:     cfg.Embedding.Model,
			BatchSize: cfg.Embedding.BatchSize,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func closeRedis(client *redis.Client) {
	if client != nil {
		_ = client.Close()
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
