package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docchat/internal/app"
	"docchat/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	uploadDir string
	httpAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat indexes uploaded PDF files into a local vector database and answers
questions using the most relevant passages and a hosted LLM.

Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "vector DB directory (DB_DIR)")
	rootCmd.PersistentFlags().StringVar(&uploadDir, "uploads", "", "uploaded files directory (UPLOAD_DIR)")
	rootCmd.PersistentFlags().StringVar(&httpAddr, "addr", "", "HTTP listen address (HTTP_ADDR)")
}

func main() {
	// Контекст с сигналами завершения
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig собирает конфиг: флаги поверх .env и окружения
func loadConfig() (*config.Config, error) {
	// Загружаем .env (опционально)
	_ = godotenv.Load()

	// Флаги выставляем в env до парсинга
	for name, value := range map[string]string{
		"DB_DIR":     dataDir,
		"UPLOAD_DIR": uploadDir,
		"HTTP_ADDR":  httpAddr,
	} {
		if value != "" {
			os.Setenv(name, value)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// newApp создаёт приложение и запускает Init. Ошибку Init решает вызывающий.
func newApp() (*config.Config, *app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("⚙️  configuration loaded",
		"upload_dir", cfg.UploadDir,
		"db_dir", cfg.DataDir,
		"llm_model", cfg.LLMModel,
		"embed_model", cfg.EmbedModel)

	a, err := app.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create app: %w", err)
	}

	return cfg, a, a.Init()
}
