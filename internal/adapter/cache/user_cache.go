package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	domain "user-account-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by hex id.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Set stores a user in cache with the configured TTL.
	Set(ctx context.Context, user *domain.User) error

	// Delete removes a user from cache by hex id.
	Delete(ctx context.Context, id string) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cachedUser is the cache serialization of a user record. The full
// record is kept, password hash included, so that a cached read feeds
// the edit path without wiping fields on save; the cache is internal
// and never serves outward representations directly.
type cachedUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Hash    string `json:"hash"`
	Profile string `json:"profile,omitempty"`
}

func (cu *cachedUser) toDomain() (*domain.User, error) {
	id, err := bson.ObjectIDFromHex(cu.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt cached user id %q: %w", cu.ID, err)
	}
	return &domain.User{
		ID:              id,
		Name:            cu.Name,
		Email:           cu.Email,
		Age:             cu.Age,
		Gender:          domain.Gender(cu.Gender),
		PasswordHash:    cu.Hash,
		ProfileImageURL: cu.Profile,
	}, nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	key := cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	u, err := cu.toDomain()
	if err != nil {
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return u, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	id := user.ID.Hex()

	data, err := json.Marshal(cachedUser{
		ID:      id,
		Name:    user.Name,
		Email:   user.Email,
		Age:     user.Age,
		Gender:  string(user.Gender),
		Hash:    user.PasswordHash,
		Profile: user.ProfileImageURL,
	})
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("user_id", id), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.String("user_id", id), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a user from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("user_id", id))
	return nil
}
