package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	platformredis "github.com/your-org/miniapp-backend/internal/platform/redis"
)

// Service is a JSON codec over Redis. Values are marshalled on Set and
// unmarshalled into dest on Get.
type Service struct {
	client *platformredis.Client
}

func NewService(client *platformredis.Client) *Service {
	return &Service{client: client}
}

// Get loads key into dest. Returns redis.Nil (wrapped) on a miss.
func (c *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// GetOrSet returns the cached value for key, or computes it with setter and
// stores it with the given TTL.
func (c *Service) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := setter()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
