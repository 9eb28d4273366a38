package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/finance-tracker/internal/auth"
	"github.com/hongminglow/finance-tracker/internal/config"
	"github.com/hongminglow/finance-tracker/internal/http/handlers"
	"github.com/hongminglow/finance-tracker/internal/ledger"
	"github.com/hongminglow/finance-tracker/internal/middleware"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler tree. Everything under /api/ other
// than register and login requires a bearer token.
func NewHandler(cfg config.Config, store storage.Store, logger *slog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	aggregator := ledger.NewAggregator(
		ledger.WithStrict(cfg.StrictAggregation),
		ledger.WithLogger(logger.With("component", "ledger")),
	)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	authHandler := handlers.NewAuthHandler(store, tokens)
	authHandler.Register(mux)

	protected := http.NewServeMux()
	authHandler.RegisterProtected(protected)
	handlers.NewTransactionHandler(store).Register(protected)
	handlers.NewSummaryHandler(store, aggregator).Register(protected)
	mux.Handle("/api/", middleware.RequireAuth(tokens, protected))

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
