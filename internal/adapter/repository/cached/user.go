// Package cached decorates the account directory with a Redis
// cache-aside layer for id lookups. Invisible to the API contract:
// every other operation passes straight through, and mutations
// invalidate the cached entry.
package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-account-service/internal/adapter/cache"
	domain "user-account-service/internal/domain/user"
	"user-account-service/internal/usecase/account"
)

// UserRepository implements account.Repository with caching support.
// It wraps the persistent repository and a cache implementation.
type UserRepository struct {
	dbRepo account.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a new cached repository decorator.
func NewUserRepository(dbRepo account.Repository, cache cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the persistent repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by id using the cache-aside pattern.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do(id, func() (any, error) {
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil && u != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// Collapsed callers all receive the same record from the flight.
	// Hand each its own copy: callers mutate the returned user in
	// place before saving.
	u := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// GetByEmail delegates to the persistent repository.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// GetByName delegates to the persistent repository.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	return r.dbRepo.GetByName(ctx, name)
}

// List delegates to the persistent repository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// SearchByName delegates to the persistent repository.
func (r *UserRepository) SearchByName(ctx context.Context, fragment string) ([]domain.User, error) {
	return r.dbRepo.SearchByName(ctx, fragment)
}

// Save persists the mutation and invalidates the cached entry.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	updated, err := r.dbRepo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, u.ID.Hex()); err != nil {
			r.log.Warn("failed to invalidate cache after save", zap.String("id", u.ID.Hex()), zap.Error(err))
		}
	}

	return updated, nil
}

// Delete removes the record and invalidates the cached entry.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.String("id", id), zap.Error(err))
		}
	}

	return nil
}
