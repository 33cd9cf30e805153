// Package redis owns the Redis client used for the ranking update debounce.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config carries the connection settings for the debounce store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds the startup ping. Zero means the default.
	DialTimeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping
// so a bad address fails at startup rather than on the first debounce check.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
