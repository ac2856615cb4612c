package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	APIKey      string  `env:"GOOGLE_API_KEY"`
	LLMBaseURL  string  `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	LLMModel    string  `env:"LLM_MODEL" envDefault:"gemini-2.0-flash"`
	EmbedModel  string  `env:"EMBED_MODEL" envDefault:"text-embedding-004"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.3"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8000"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"0s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"`
	MaxUploadMB  int64         `env:"MAX_UPLOAD_MB" envDefault:"32"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	UploadDir  string `env:"UPLOAD_DIR" envDefault:"./uploaded_docs"`
	DataDir    string `env:"DB_DIR" envDefault:"./vector_db"`
	Collection string `env:"COLLECTION" envDefault:"docs"`

	ChunkMethod      string `env:"CHUNK_METHOD" envDefault:"recursive"`
	ChunkSize        int    `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap     int    `env:"CHUNK_OVERLAP" envDefault:"100"`
	TopK             int    `env:"TOP_K" envDefault:"3"`
	EmbedConcurrency int    `env:"EMBED_CONCURRENCY" envDefault:"4"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Init(cfg interface{}) error {
	return env.Parse(cfg)
}

// Load парсит окружение в новый Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// Validate проверяет значения, без которых пайплайн не работает.
// Отсутствующий ключ тоже ошибка: сервер стартует, но отвечает 503.
func (c *Config) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be > 0, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap))
	}
	if c.TopK <= 0 {
		errs = append(errs, fmt.Errorf("TOP_K must be > 0, got %d", c.TopK))
	}
	if c.EmbedConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("EMBED_CONCURRENCY must be > 0, got %d", c.EmbedConcurrency))
	}
	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, errors.New("GOOGLE_API_KEY is not set"))
	}
	return errors.Join(errs...)
}

// SlogLevel переводит LOG_LEVEL в slog.Level, по умолчанию info
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
