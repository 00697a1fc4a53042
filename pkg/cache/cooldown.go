package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown allows one action per key within a window.
type Cooldown struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
}

func NewCooldown(rdb *redis.Client, prefix string, window time.Duration) *Cooldown {
	return &Cooldown{rdb: rdb, prefix: prefix, window: window}
}

func (c *Cooldown) key(id string) string {
	return fmt.Sprintf("%s:%s", c.prefix, id)
}

// Acquire returns false while a previous acquisition for id is still live.
// A nil client or zero window disables the cooldown.
func (c *Cooldown) Acquire(ctx context.Context, id string) (bool, error) {
	if c == nil || c.rdb == nil || c.window <= 0 {
		return true, nil
	}

	wasSet, err := c.rdb.SetNX(ctx, c.key(id), "locked", c.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown in redis: %w", err)
	}
	return wasSet, nil
}

// Remaining reports how long until id may act again.
func (c *Cooldown) Remaining(ctx context.Context, id string) (time.Duration, error) {
	if c == nil || c.rdb == nil {
		return 0, nil
	}
	ttl, err := c.rdb.TTL(ctx, c.key(id)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Release clears the cooldown for id.
func (c *Cooldown) Release(ctx context.Context, id string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(id)).Err()
}
