package cache

import (
	"context"
	"time"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

const defaultWarmup = 2 * time.Second

// Open returns the fast store described by cfg: a no-op store when Redis is
// not configured or the configuration is invalid, otherwise a Redis store.
// For Redis it waits up to one dial timeout, or until ctx is done, for the
// initial connect to settle so early requests can use the fast tier.
func Open(ctx context.Context, cfg config.RedisConfig) FastStore {
	l := log.Ctx(ctx)
	if !cfg.Enabled() {
		l.Info().Msg("redis not configured, fast store disabled")
		return NewNoOpFastStore()
	}

	store, err := NewRedisFastStore(cfg)
	if err != nil {
		l.Warn().Err(err).Msg("invalid redis configuration, fast store disabled")
		return NewNoOpFastStore()
	}

	warmup := cfg.DialTimeout
	if warmup <= 0 {
		warmup = defaultWarmup
	}
	waitCtx, cancel := context.WithTimeout(ctx, warmup)
	defer cancel()

	if store.WaitConnected(waitCtx) {
		l.Info().Msg("redis fast store connected")
	} else {
		l.Warn().Dur("waited", warmup).Msg("redis fast store not ready, serving from persistent tier until it is")
	}
	return store
}
