package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

// GetJSON reads key and decodes it into a T. A value that does not decode
// is reported as a miss.
func GetJSON[T any](ctx context.Context, s FastStore, key string) (T, bool) {
	var out T
	data, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to unmarshal cache data")
		return out, false
	}
	return out, true
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s FastStore, key string, v any, ttl time.Duration) bool {
	data, err := json.Marshal(v)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to marshal cache data")
		return false
	}
	return s.Set(ctx, key, data, ttl)
}
