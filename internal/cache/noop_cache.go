package cache

import (
	"context"
	"time"
)

// NoOpFastStore is used when no Redis endpoint is configured.
type NoOpFastStore struct{}

// NewNoOpFastStore creates a new no-op fast store.
func NewNoOpFastStore() *NoOpFastStore {
	return &NoOpFastStore{}
}

func (NoOpFastStore) Get(ctx context.Context, key string) ([]byte, bool) {
	return nil, false
}

func (NoOpFastStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	return false
}

func (NoOpFastStore) Delete(ctx context.Context, key string) bool {
	return false
}

func (NoOpFastStore) Healthy() bool {
	return false
}

func (NoOpFastStore) Close() error {
	return nil
}
