// Package api provides the HTTP boundary for the rin relay.
//
// Three routes map one-to-one onto the conversation service operations,
// plus a health probe and the embedded browser client:
//
//	GET  /api/health  → liveness, {"ok":true}
//	GET  /api/history → fetch history (query uid)
//	POST /api/clear   → clear history (body {uid})
//	POST /api/chat    → one chat turn (body {text, uid})
//	GET  /            → embedded static client
//
// The boundary is thin by design: it validates input shape, delegates to
// the relay service, and maps every service failure to a generic 500 with
// the underlying message. Only invalid input gets a 400.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rinhq/rin/internal/api/static"
	"github.com/rinhq/rin/internal/relay"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":10000"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout prevents Slowloris-style header dribbling.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout covers the full handler including the completion call.
	WriteTimeout = 3 * time.Minute

	// IdleTimeout bounds keep-alive connections between requests.
	IdleTimeout = 2 * time.Minute
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Service     *relay.Service // Required
	Pool        *pgxpool.Pool  // Optional: nil disables the /api/ready database ping
	CORSOrigins []string       // Allowed origins; "*" allows any
}

// Server is the HTTP server for the relay API.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	cors   []string
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("relay service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ch := &chatHandler{service: cfg.Service, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", health)
	mux.Handle("GET /api/ready", readiness(cfg.Pool, logger))
	mux.HandleFunc("GET /api/history", ch.history)
	mux.HandleFunc("POST /api/clear", ch.clear)
	mux.HandleFunc("POST /api/chat", ch.chat)
	mux.Handle("/", static.Handler())

	return &Server{mux: mux, logger: logger, cors: cfg.CORSOrigins}, nil
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order (outermost first): recovery → request-id → logging → CORS.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware(),
		loggingMiddleware(s.logger),
		corsMiddleware(s.cors),
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
