package main

import (
	"fmt"
	"log/slog"
	"strings"

	"docchat/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP API: GET /, POST /upload, POST /chat, GET /documents.

If initialization fails the server still starts; data endpoints answer 503.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index local PDF files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, a, err := newApp()
	if cfg == nil {
		return err
	}
	if err != nil {
		// Результат старта сохранён в App, запросы к данным получат 503
		slog.Warn("⚠️  starting in degraded mode", "error", err)
	}

	return server.New(cfg, a, slog.Default()).Run(cmd.Context())
}

func runIngest(cmd *cobra.Command, args []string) error {
	_, a, err := newApp()
	if err != nil {
		return err
	}

	total := 0
	for _, path := range args {
		n, err := a.IngestFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		cmd.Printf("%s: %d chunks\n", path, n)
		total += n
	}

	cmd.Printf("Total: %d chunks added\n", total)
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	_, a, err := newApp()
	if err != nil {
		return err
	}

	answer, err := a.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	return nil
}
