package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"censusqa/internal/model"
)

const (
	EmbeddingProviderGoogle = "google"
	EmbeddingProviderOpenAI = "openai"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Documents DocumentsConfig `toml:"documents"`
	Groq      GroqConfig      `toml:"groq"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Session   SessionConfig   `toml:"session"`
	Redis     RedisConfig     `toml:"redis"`
}

type AppConfig struct {
	Name      string `toml:"name"`
	Title     string `toml:"title"`
	Env       string `toml:"env"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	GinMode   string `toml:"gin_mode"`
	LogLevel  string `toml:"log_level"`
	LogPretty bool   `toml:"log_pretty"`
}

type DocumentsConfig struct {
	Dir          string `toml:"dir"`
	MaxDocuments int    `toml:"max_documents"`
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
}

type GroqConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type EmbeddingConfig struct {
	Provider  string `toml:"provider"`
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"` // openai provider only
	BatchSize int    `toml:"batch_size"`
}

type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

type SessionConfig struct {
	CookieName  string `toml:"cookie_name"`
	IdleMinutes int    `toml:"idle_minutes"`
	SweepSpec   string `toml:"sweep_spec"`
}

// RedisConfig enables the query-embedding cache when Addr is set.
type RedisConfig struct {
	Addr                string `toml:"addr"`
	Password            string `toml:"password"`
	DB                  int    `toml:"db"`
	EmbeddingTTLSeconds int    `toml:"embedding_ttl_seconds"`
}

// Load reads .env, the optional TOML file and the environment, in that order.
// It does not validate; call Validate before serving.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env failed: %w", err)
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

// Validate reports every missing credential and inconsistent parameter at once.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Groq.APIKey) == "" {
		problems = append(problems, "GROQ_API_KEY is not set")
	}
	switch c.Embedding.Provider {
	case EmbeddingProviderGoogle:
		if strings.TrimSpace(c.Embedding.APIKey) == "" {
			problems = append(problems, "GOOGLE_API_KEY is not set")
		}
	case EmbeddingProviderOpenAI:
		if strings.TrimSpace(c.Embedding.APIKey) == "" {
			problems = append(problems, "EMBEDDING_API_KEY is not set")
		}
		if strings.TrimSpace(c.Embedding.BaseURL) == "" {
			problems = append(problems, "embedding.base_url is required for the openai provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown embedding provider %q", c.Embedding.Provider))
	}
	if c.Documents.ChunkSize <= 0 {
		problems = append(problems, "documents.chunk_size must be positive")
	}
	if c.Documents.ChunkOverlap < 0 || c.Documents.ChunkOverlap >= c.Documents.ChunkSize {
		problems = append(problems, "documents.chunk_overlap must be in [0, chunk_size)")
	}
	if c.Documents.MaxDocuments <= 0 {
		problems = append(problems, "documents.max_documents must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		problems = append(problems, "retrieval.top_k must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", model.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) GroqTimeout() time.Duration {
	return time.Duration(c.Groq.TimeoutSeconds) * time.Second
}

func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleMinutes) * time.Minute
}

func (c *Config) EmbeddingCacheTTL() time.Duration {
	return time.Duration(c.Redis.EmbeddingTTLSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "censusqa",
			Title:    "RAG Q&A",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     8080,
			GinMode:  "release",
			LogLevel: "info",
		},
		Documents: DocumentsConfig{
			Dir:          "./us_census",
			MaxDocuments: 20,
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Groq: GroqConfig{
			BaseURL:        "https://api.groq.com/openai/v1",
			Model:          "llama-3.1-8b-instant",
			TimeoutSeconds: 0, // no timeout
		},
		Embedding: EmbeddingConfig{
			Provider:  EmbeddingProviderGoogle,
			Model:     "gemini-embedding-001",
			BatchSize: 100,
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		Session: SessionConfig{
			CookieName:  "censusqa_session",
			IdleMinutes: 60,
			SweepSpec:   "@every 5m",
		},
		Redis: RedisConfig{
			EmbeddingTTLSeconds: 3600,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Title = getEnv("APP_TITLE", cfg.App.Title)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.LogPretty = getEnvAsBool("LOG_PRETTY", cfg.App.LogPretty)

	cfg.Documents.Dir = getEnv("DOCUMENTS_DIR", cfg.Documents.Dir)
	cfg.Documents.MaxDocuments = getEnvAsInt("DOCUMENTS_MAX", cfg.Documents.MaxDocuments)
	cfg.Documents.ChunkSize = getEnvAsInt("CHUNK_SIZE", cfg.Documents.ChunkSize)
	cfg.Documents.ChunkOverlap = getEnvAsInt("CHUNK_OVERLAP", cfg.Documents.ChunkOverlap)

	cfg.Groq.BaseURL = getEnv("GROQ_BASE_URL", cfg.Groq.BaseURL)
	cfg.Groq.APIKey = getEnv("GROQ_API_KEY", cfg.Groq.APIKey)
	cfg.Groq.Model = getEnv("GROQ_MODEL", cfg.Groq.Model)
	cfg.Groq.TimeoutSeconds = getEnvAsInt("GROQ_TIMEOUT_SECONDS", cfg.Groq.TimeoutSeconds)

	cfg.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.BaseURL = getEnv("EMBEDDING_BASE_URL", cfg.Embedding.BaseURL)
	cfg.Embedding.BatchSize = getEnvAsInt("EMBEDDING_BATCH_SIZE", cfg.Embedding.BatchSize)
	if cfg.Embedding.Provider == EmbeddingProviderGoogle {
		cfg.Embedding.APIKey = getEnv("GOOGLE_API_KEY", cfg.Embedding.APIKey)
	} else {
		cfg.Embedding.APIKey = getEnv("EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	}

	cfg.Retrieval.TopK = getEnvAsInt("RETRIEVAL_TOP_K", cfg.Retrieval.TopK)

	cfg.Session.CookieName = getEnv("SESSION_COOKIE_NAME", cfg.Session.CookieName)
	cfg.Session.IdleMinutes = getEnvAsInt("SESSION_IDLE_MINUTES", cfg.Session.IdleMinutes)
	cfg.Session.SweepSpec = getEnv("SESSION_SWEEP_SPEC", cfg.Session.SweepSpec)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EmbeddingTTLSeconds = getEnvAsInt("REDIS_EMBEDDING_TTL_SECONDS", cfg.Redis.EmbeddingTTLSeconds)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
