package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/gin/middleware"
	ginrouter "user-account-service/internal/adapter/gin/router"
	"user-account-service/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	tokens middleware.TokenVerifier,
	cfg *config.Config,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.Setup(handler, tokens, cfg, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
