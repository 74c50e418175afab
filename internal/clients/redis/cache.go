package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/studyloop/studyloop-backend/internal/logger"
)

// Cache fronts the model-response cache and send-message idempotency keys.
// Every method degrades to a no-op result when redis is unreachable so the
// chat path never blocks on it.
type Cache interface {
	GetResponse(ctx context.Context, key string) (string, bool)
	SetResponse(ctx context.Context, key, value string, ttl time.Duration)
	// ClaimIdempotencyKey returns true when this call is the first to claim
	// the key within its TTL window.
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) bool
	Close() error
}

type cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cache{log: log.With("service", "RedisCache"), rdb: rdb}, nil
}

func (c *cache) GetResponse(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	val, err := c.rdb.Get(ctx, "resp:"+key).Result()
	if err == goredis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("Redis get failed, treating as cache miss", "error", err)
		return "", false
	}
	return val, true
}

func (c *cache) SetResponse(ctx context.Context, key, value string, ttl time.Duration) {
	if key == "" || value == "" {
		return
	}
	if err := c.rdb.Set(ctx, "resp:"+key, value, ttl).Err(); err != nil {
		c.log.Warn("Redis set failed", "error", err)
	}
}

func (c *cache) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) bool {
	if key == "" {
		return true
	}
	ok, err := c.rdb.SetNX(ctx, "idem:"+key, "1", ttl).Result()
	if err != nil {
		c.log.Warn("Redis setnx failed, allowing send", "error", err)
		return true
	}
	return ok
}

func (c *cache) Close() error {
	return c.rdb.Close()
}
