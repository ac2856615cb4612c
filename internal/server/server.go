package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"docchat/internal/app"
	"docchat/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/urfave/negroni"
)

const shutdownTimeout = 10 * time.Second

// Service - то, что HTTP-слой требует от приложения
type Service interface {
	Ready() error
	IngestDocument(ctx context.Context, filename string, r io.Reader) (int, error)
	Ask(ctx context.Context, question string) (*app.Answer, error)
	Documents() ([]app.FileInfo, int, error)
}

type Server struct {
	cfg     *config.Config
	svc     Service
	logger  *slog.Logger
	handler http.Handler
}

func New(cfg *config.Config, svc Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, svc: svc, logger: logger}
	s.handler = s.setupNegroni(s.SetupRoutes())
	return s
}

// Handler - роутер вместе с middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/documents", s.handleDocuments).Methods(http.MethodGet)

	return r
}

func (s *Server) setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	// Access log в тот же slog handler, что и остальной процесс
	accessLog := negroni.NewLogger()
	accessLog.ALogger = slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo)

	n.Use(negroni.NewRecovery())
	n.Use(accessLog)
	n.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	n.UseHandler(r)
	return n
}

// Run слушает HTTP_ADDR до отмены ctx, затем gracefully останавливается
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 server started", "addr", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("👋 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
