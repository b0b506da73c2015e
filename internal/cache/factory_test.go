package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonai-git/restaurant-recommendations/internal/config"
)

func TestOpen_DisabledAndInvalidFallBackToNoOp(t *testing.T) {
	s := Open(context.Background(), config.RedisConfig{})
	assert.IsType(t, &NoOpFastStore{}, s)

	s = Open(context.Background(), redisConfig("not-a-url://"))
	assert.IsType(t, &NoOpFastStore{}, s)
}

func TestOpen_WaitsForInitialConnect(t *testing.T) {
	cfg := config.RedisConfig{
		Address:          "127.0.0.1:1",
		DialTimeout:      100 * time.Millisecond,
		MaxRetries:       0,
		RetryBaseBackoff: time.Millisecond,
		RetryMaxBackoff:  time.Millisecond,
	}

	start := time.Now()
	s := Open(context.Background(), cfg)
	defer s.Close()

	rs, ok := s.(*RedisFastStore)
	require.True(t, ok)
	assert.NotEqual(t, stateIdle, rs.state.Load())
	assert.False(t, rs.Healthy())
	assert.Less(t, time.Since(start), 2*time.Second)
}
