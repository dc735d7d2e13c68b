package di

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"user-account-service/cmd/api/infrastructure"
	"user-account-service/internal/adapter/cache"
	mongorepo "user-account-service/internal/adapter/db/mongo"
	ginhandler "user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/repository/cached"
	"user-account-service/internal/adapter/storage"
	"user-account-service/internal/config"
	"user-account-service/internal/usecase/account"
	redisclient "user-account-service/pkg/redis"
	"user-account-service/pkg/token"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	RedisClient *redisclient.Client
	Tokens      *token.Service
	AccountUC   account.Usecase
	Handler     *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Document store
	client, db, err := infrastructure.NewMongoDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo account.Repository
	repo, err = mongorepo.NewUserRepository(indexCtx, db, l)
	if err != nil {
		_ = infrastructure.CloseMongoDatabase(client)
		return nil, fmt.Errorf("failed to initialize user repository: %w", err)
	}

	// Optional Redis cache-aside layer on id lookups
	var rdb *redisclient.Client
	if cfg.Redis.Enabled {
		rdb, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			_ = infrastructure.CloseMongoDatabase(client)
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(repo, userCache, l)
	}

	images := storage.NewImageStore(cfg.Upload.Dir, cfg.Upload.PublicPath, l)
	tokens := token.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL())

	accountUC := account.New(repo, tokens, images, l)
	handler := ginhandler.NewUserHandler(accountUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		MongoClient: client,
		RedisClient: rdb,
		Tokens:      tokens,
		AccountUC:   accountUC,
		Handler:     handler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.MongoClient != nil {
		if err := infrastructure.CloseMongoDatabase(c.MongoClient); err != nil {
			errs = append(errs, fmt.Errorf("failed to close MongoDB: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
