package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	ginhandler "user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/gin/middleware"
	"user-account-service/internal/config"
)

// Server holds the HTTP server serving the account API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	handler *ginhandler.UserHandler,
	tokens middleware.TokenVerifier,
) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupGinServer(handler, tokens, cfg, l),
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}
