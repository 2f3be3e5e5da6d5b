package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/miniapp-backend/internal/features/user/models"
	"github.com/your-org/miniapp-backend/internal/features/user/repository"
)

type fakeCache struct {
	entries map[string][]byte

	getErr error
	setErr error
	delErr error

	gets, sets, deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.gets++
	if c.getErr != nil {
		return c.getErr
	}
	data, ok := c.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.deletes++
	if c.delErr != nil {
		return c.delErr
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type fakeRepo struct {
	users map[int64]*models.User
	reads int
}

func newFakeRepo(users ...*models.User) *fakeRepo {
	r := &fakeRepo{users: map[int64]*models.User{}}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.reads++
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeRepo) Update(_ context.Context, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _, _ int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func testUser(id int64) *models.User {
	return &models.User{ID: id, Username: "johndoe", FirstName: "John"}
}

func TestCachedRepository_GetByID_MissPopulatesCache(t *testing.T) {
	inner := newFakeRepo(testUser(42))
	cache := newFakeCache()
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	user, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", user.Username)
	assert.Equal(t, 1, inner.reads)
	assert.Contains(t, cache.entries, "user:42")
}

func TestCachedRepository_GetByID_HitSkipsInnerRepo(t *testing.T) {
	inner := newFakeRepo(testUser(42))
	cache := newFakeCache()
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	_, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 1, inner.reads)

	user, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, 1, inner.reads, "second read must be served from cache")
}

func TestCachedRepository_GetByID_CacheErrorFallsThrough(t *testing.T) {
	inner := newFakeRepo(testUser(42))
	cache := newFakeCache()
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	user, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err, "a cache outage must not fail reads")
	assert.Equal(t, "johndoe", user.Username)
	assert.Equal(t, 1, inner.reads)
}

func TestCachedRepository_GetByID_NotFoundNotCached(t *testing.T) {
	inner := newFakeRepo()
	cache := newFakeCache()
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Empty(t, cache.entries)
}

func TestCachedRepository_WritesInvalidate(t *testing.T) {
	inner := newFakeRepo(testUser(42))
	cache := newFakeCache()
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	_, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.Contains(t, cache.entries, "user:42")

	updated := testUser(42)
	updated.Username = "johnny"
	require.NoError(t, repo.Update(context.Background(), updated))
	assert.NotContains(t, cache.entries, "user:42", "update must drop the cached entry")

	user, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "johnny", user.Username)

	require.NoError(t, repo.Create(context.Background(), testUser(42)))
	assert.NotContains(t, cache.entries, "user:42", "create must drop the cached entry")

	_, err = repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), 42))
	assert.NotContains(t, cache.entries, "user:42", "delete must drop the cached entry")
}

func TestCachedRepository_InvalidateErrorDoesNotFailWrite(t *testing.T) {
	inner := newFakeRepo(testUser(42))
	cache := newFakeCache()
	cache.delErr = errors.New("redis: connection refused")
	repo := NewCachedRepository(inner, cache, DefaultTTL)

	updated := testUser(42)
	updated.Username = "johnny"
	assert.NoError(t, repo.Update(context.Background(), updated))
	assert.Equal(t, 1, cache.deletes)
}
