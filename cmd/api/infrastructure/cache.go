package infrastructure

import (
	"go.uber.org/zap"

	"user-account-service/internal/config"
	redisclient "user-account-service/pkg/redis"
)

// NewRedisClient creates the Redis client backing the user cache.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	return redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
}
