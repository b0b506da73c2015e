package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/pkg/log"
)

const (
	stateIdle int32 = iota
	stateConnecting
	stateConnected
	stateFailed
)

// Options tunes the connection and per-command behaviour of RedisFastStore.
type Options struct {
	Prefix      string
	DialTimeout time.Duration
	OpTimeout   time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (o *Options) applyDefaults() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 2 * time.Second
	}
	if o.OpTimeout <= 0 {
		o.OpTimeout = 500 * time.Millisecond
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 200 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 2 * time.Second
	}
}

// RedisFastStore implements FastStore on top of Redis.
//
// The connection is verified lazily: the first operation starts a background
// connect and sees a miss, as do all operations until the ping succeeds. If
// the initial connect exhausts its retries the store stays disabled for the
// lifetime of the process. After a successful connect, go-redis redials on
// its own and individual command failures are treated as misses.
type RedisFastStore struct {
	client *redis.Client
	opts   Options

	state     atomic.Int32
	settled   chan struct{}
	closing   chan struct{}
	closeOnce sync.Once
}

// NewRedisFastStore creates a Redis-backed fast store from configuration.
// No network traffic happens until the store is first used.
func NewRedisFastStore(cfg config.RedisConfig) (*RedisFastStore, error) {
	var (
		opt *redis.Options
		err error
	)
	if cfg.URL != "" {
		opt, err = redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
	} else {
		opt = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}

	return NewRedisFastStoreWithClient(redis.NewClient(opt), Options{
		Prefix:      cfg.KeyPrefix,
		DialTimeout: cfg.DialTimeout,
		OpTimeout:   cfg.OpTimeout,
		MaxRetries:  cfg.MaxRetries,
		BaseBackoff: cfg.RetryBaseBackoff,
		MaxBackoff:  cfg.RetryMaxBackoff,
	}), nil
}

// NewRedisFastStoreWithClient wraps an existing client. The store takes
// ownership of the client and closes it on Close.
func NewRedisFastStoreWithClient(client *redis.Client, opts Options) *RedisFastStore {
	opts.applyDefaults()
	return &RedisFastStore{
		client:  client,
		opts:    opts,
		settled: make(chan struct{}),
		closing: make(chan struct{}),
	}
}

// buildKey applies the configured prefix.
func (s *RedisFastStore) buildKey(key string) string {
	if s.opts.Prefix == "" {
		return key
	}
	return s.opts.Prefix + ":" + key
}

// ready reports whether the connection is usable, starting the initial
// connect if nobody has yet.
func (s *RedisFastStore) ready() bool {
	switch s.state.Load() {
	case stateConnected:
		return true
	case stateIdle:
		if s.state.CompareAndSwap(stateIdle, stateConnecting) {
			go s.connect()
		}
	}
	return false
}

func (s *RedisFastStore) connect() {
	defer close(s.settled)
	l := log.L()

	attempts := s.opts.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.DialTimeout)
		err := s.client.Ping(ctx).Err()
		cancel()
		if err == nil {
			s.state.Store(stateConnected)
			l.Info().Int("attempt", attempt+1).Msg("fast store connected")
			return
		}

		l.Warn().Err(err).Int("attempt", attempt+1).Int("max_attempts", attempts).Msg("fast store connect failed")
		if attempt == attempts-1 {
			break
		}

		select {
		case <-time.After(s.backoff(attempt)):
		case <-s.closing:
			s.state.Store(stateFailed)
			return
		}
	}

	s.state.Store(stateFailed)
	l.Error().Int("attempts", attempts).Msg("fast store unreachable, disabled until restart")
}

// backoff returns base * 2^attempt, capped at the configured maximum.
func (s *RedisFastStore) backoff(attempt int) time.Duration {
	d := s.opts.BaseBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= s.opts.MaxBackoff {
			return s.opts.MaxBackoff
		}
	}
	if d > s.opts.MaxBackoff {
		return s.opts.MaxBackoff
	}
	return d
}

// WaitConnected starts the connection if needed and blocks until the initial
// connect has either succeeded or given up, or ctx is done.
func (s *RedisFastStore) WaitConnected(ctx context.Context) bool {
	if s.ready() {
		return true
	}
	select {
	case <-s.settled:
	case <-ctx.Done():
	}
	return s.state.Load() == stateConnected
}

func (s *RedisFastStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.ready() {
		return nil, false
	}
	l := log.Ctx(ctx)
	key = s.buildKey(key)

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	data, err := s.client.Get(opCtx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to get from redis")
		}
		return nil, false
	}
	return data, true
}

func (s *RedisFastStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if !s.ready() {
		return false
	}
	l := log.Ctx(ctx)
	key = s.buildKey(key)

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	if err := s.client.Set(opCtx, key, value, ttl).Err(); err != nil {
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to set in redis")
		return false
	}
	return true
}

func (s *RedisFastStore) Delete(ctx context.Context, key string) bool {
	if !s.ready() {
		return false
	}
	l := log.Ctx(ctx)
	key = s.buildKey(key)

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	if err := s.client.Del(opCtx, key).Err(); err != nil {
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to delete from redis")
		return false
	}
	return true
}

// Healthy reports whether the initial connect succeeded.
func (s *RedisFastStore) Healthy() bool {
	return s.ready()
}

func (s *RedisFastStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		err = s.client.Close()
	})
	return err
}
