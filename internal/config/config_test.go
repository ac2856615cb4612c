package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "./uploaded_docs", cfg.UploadDir)
	assert.Equal(t, "./vector_db", cfg.DataDir)
	assert.Equal(t, "docs", cfg.Collection)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 0.3, cfg.Temperature)
	// Без таймаутов сервера: долгий вызов LLM не обрывает соединение
	assert.Zero(t, cfg.ReadTimeout)
	assert.Zero(t, cfg.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("TOP_K", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("READ_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}

func TestLoad_BadInt(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{APIKey: "k", ChunkSize: 1000, ChunkOverlap: 100, TopK: 3, EmbedConcurrency: 1}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.APIKey = " " }, wantErr: "GOOGLE_API_KEY"},
		{name: "zero chunk size", mutate: func(c *Config) { c.ChunkSize = 0 }, wantErr: "CHUNK_SIZE"},
		{name: "overlap too big", mutate: func(c *Config) { c.ChunkOverlap = 1000 }, wantErr: "CHUNK_OVERLAP"},
		{name: "zero top k", mutate: func(c *Config) { c.TopK = 0 }, wantErr: "TOP_K"},
		{name: "zero concurrency", mutate: func(c *Config) { c.EmbedConcurrency = 0 }, wantErr: "EMBED_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "WARN"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "loud"}).SlogLevel())
}
