package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavelanni/gradebook/internal/model"
)

const keyPrefix = "gradebook:grading:"

// Redis stores scope gradings as JSON strings with an expiry.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the connection with PING.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func redisKey(scope model.Scope) string {
	return keyPrefix + scope.Key()
}

func (c *Redis) Get(ctx context.Context, scope model.Scope) (model.ScopeGrading, bool, error) {
	data, err := c.client.Get(ctx, redisKey(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ScopeGrading{}, false, nil
	}
	if err != nil {
		return model.ScopeGrading{}, false, err
	}
	var g model.ScopeGrading
	if err := json.Unmarshal(data, &g); err != nil {
		return model.ScopeGrading{}, false, fmt.Errorf("decode cached grading: %w", err)
	}
	return g, true, nil
}

func (c *Redis) Set(ctx context.Context, scope model.Scope, g model.ScopeGrading) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode grading: %w", err)
	}
	return c.client.Set(ctx, redisKey(scope), data, c.ttl).Err()
}

func (c *Redis) Invalidate(ctx context.Context, scope model.Scope) error {
	return c.client.Del(ctx, redisKey(scope)).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
