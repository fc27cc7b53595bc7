package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusqa/internal/model"
)

func useConfigFile(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("GOOGLE_API_KEY", "g_test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./us_census", cfg.Documents.Dir)
	assert.Equal(t, 20, cfg.Documents.MaxDocuments)
	assert.Equal(t, 1000, cfg.Documents.ChunkSize)
	assert.Equal(t, 200, cfg.Documents.ChunkOverlap)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "gsk_test", cfg.Groq.APIKey)
	assert.Equal(t, "g_test", cfg.Embedding.APIKey)
	assert.Equal(t, time.Duration(0), cfg.GroqTimeout())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	useConfigFile(t, `
[app]
port = 9090

[documents]
dir = "/data/census"
chunk_size = 500
chunk_overlap = 50

[redis]
addr = "localhost:6379"
`)
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "/data/census", cfg.Documents.Dir)
	assert.Equal(t, 500, cfg.Documents.ChunkSize)
	assert.Equal(t, 100, cfg.Documents.ChunkOverlap)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.EmbeddingCacheTTL())
}

func TestLoad_BadFile(t *testing.T) {
	useConfigFile(t, "[app\nport = ")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_OpenAIProviderUsesEmbeddingKey(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("EMBEDDING_PROVIDER", EmbeddingProviderOpenAI)
	t.Setenv("EMBEDDING_API_KEY", "sk_embed")
	t.Setenv("GOOGLE_API_KEY", "g_ignored")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk_embed", cfg.Embedding.APIKey)
}

func TestValidate_MissingKeys(t *testing.T) {
	cfg := defaultConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestValidate_ChunkParameters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		problem string
	}{
		{"zero size", func(c *Config) { c.Documents.ChunkSize = 0 }, "chunk_size"},
		{"overlap equals size", func(c *Config) { c.Documents.ChunkOverlap = c.Documents.ChunkSize }, "chunk_overlap"},
		{"negative overlap", func(c *Config) { c.Documents.ChunkOverlap = -1 }, "chunk_overlap"},
		{"no documents", func(c *Config) { c.Documents.MaxDocuments = 0 }, "max_documents"},
		{"zero top k", func(c *Config) { c.Retrieval.TopK = 0 }, "top_k"},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "cohere" }, "cohere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Groq.APIKey = "k"
			cfg.Embedding.APIKey = "k"
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestValidate_OpenAIProviderDoesNotNeedGoogleKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Groq.APIKey = "gsk"
	cfg.Embedding.Provider = EmbeddingProviderOpenAI
	cfg.Embedding.APIKey = "sk"
	cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	assert.NoError(t, cfg.Validate())

	cfg.Embedding.APIKey = ""
	cfg.Embedding.BaseURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "EMBEDDING_API_KEY")
	assert.Contains(t, err.Error(), "base_url")
	assert.NotContains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestValidate_MissingGroqKeyAlone(t *testing.T) {
	cfg := defaultConfig()
	cfg.Embedding.APIKey = "g"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}
