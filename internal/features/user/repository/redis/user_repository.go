package redis

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/your-org/miniapp-backend/internal/common/errors"
	"github.com/your-org/miniapp-backend/internal/common/logger"
	"github.com/your-org/miniapp-backend/internal/features/user/models"
	"github.com/your-org/miniapp-backend/internal/features/user/repository"
)

// DefaultTTL is how long a cached user entry stays valid.
const DefaultTTL = 5 * time.Minute

// Cache is the subset of the cache service the decorator needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// cachedRepository decorates a UserRepository with a Redis read-through
// cache. Cache failures are logged and fall back to the inner repository,
// so a Redis outage degrades to direct DB reads instead of errors.
type cachedRepository struct {
	inner repository.UserRepository
	cache Cache
	ttl   time.Duration
}

func NewCachedRepository(inner repository.UserRepository, cache Cache, ttl time.Duration) repository.UserRepository {
	return &cachedRepository{inner: inner, cache: cache, ttl: ttl}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *cachedRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *cachedRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var cached models.User
	if err := r.cache.Get(ctx, userKey(id), &cached); err == nil {
		return &cached, nil
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, userKey(id), user, r.ttl); err != nil {
		logger.Warn().Err(apperrors.NewCacheError("set user", err)).Int64("user_id", id).Msg("failed to cache user")
	}
	return user, nil
}

func (r *cachedRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *cachedRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// List is not cached: listings are admin-side and must not serve stale rows.
func (r *cachedRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return r.inner.List(ctx, limit, offset)
}

func (r *cachedRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, userKey(id)); err != nil {
		logger.Warn().Err(apperrors.NewCacheError("invalidate user", err)).Int64("user_id", id).Msg("failed to invalidate user cache")
	}
}
