package cache

import (
	"context"
	"time"
)

// FastStore is a best-effort key/value store sitting in front of the
// persistent tier. Failures are never surfaced to callers: reads report a
// miss and writes report false.
type FastStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	Healthy() bool
	Close() error
}
