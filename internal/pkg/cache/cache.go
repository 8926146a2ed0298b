package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss key 不存在
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
