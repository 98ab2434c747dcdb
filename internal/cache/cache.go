package cache

import (
	"context"
	"time"
)

// Cache stores string values under string keys
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
