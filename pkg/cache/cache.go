package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the read-through cache used for hot read-mostly config such as
// coin settings. Values round-trip through JSON, so a Get unmarshals into
// target and a miss is ErrCacheMiss, never an error the caller should log.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, target interface{}) error
	Delete(ctx context.Context, key string) error
}
