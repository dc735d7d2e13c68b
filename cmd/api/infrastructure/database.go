package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"user-account-service/internal/config"
)

// NewMongoDatabase connects to MongoDB and verifies connectivity with
// a ping.
func NewMongoDatabase(cfg *config.Config, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	timeout := time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	l.Info("MongoDB connected successfully",
		zap.String("database", cfg.Mongo.Database),
	)

	return client, client.Database(cfg.Mongo.Database), nil
}

// CloseMongoDatabase disconnects the MongoDB client.
func CloseMongoDatabase(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}
