package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisRateLimiter 테스트용 Redis Rate Limiter 설정
// 주의: 실제 Redis 서버가 필요합니다 (localhost:6379)
func setupRedisRateLimiter(t *testing.T) *RedisRateLimiter {
	limiter := NewRedisRateLimiter(RedisRateLimiterConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           15, // 테스트용 DB
		KeyPrefix:    "test:ratelimit:",
		DefaultLimit: 5,
		DefaultTTL:   time.Minute,
	})

	// Redis 연결 확인
	if err := limiter.Ping(context.Background()); err != nil {
		t.Skipf("Redis server not available: %v", err)
	}

	return limiter
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	limiter := setupRedisRateLimiter(t)
	defer limiter.Close()

	ctx := context.Background()
	key := "user:allow"
	defer limiter.Reset(ctx, key)

	allowed, err := limiter.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "First request should be allowed")
}

func TestRedisRateLimiter_DeniesOverLimit(t *testing.T) {
	limiter := setupRedisRateLimiter(t)
	defer limiter.Close()

	ctx := context.Background()
	key := "user:overlimit"
	defer limiter.Reset(ctx, key)

	limit := 3
	for i := 0; i < limit; i++ {
		allowed, err := limiter.Allow(ctx, key, limit, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, limit, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "Request over limit should be denied")
}

func TestRedisRateLimiter_AllowWithInfo(t *testing.T) {
	limiter := setupRedisRateLimiter(t)
	defer limiter.Close()

	ctx := context.Background()
	key := "user:info"
	defer limiter.Reset(ctx, key)

	allowed, info, err := limiter.AllowWithInfo(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	require.NotNil(t, info)
	assert.Equal(t, 5, info.Limit)
	assert.Equal(t, 4, info.Remaining)
	assert.True(t, info.ResetTime.After(time.Now().Add(-time.Second)))
}

func TestRedisRateLimiter_ResetClearsBucket(t *testing.T) {
	limiter := setupRedisRateLimiter(t)
	defer limiter.Close()

	ctx := context.Background()
	key := "user:reset"
	defer limiter.Reset(ctx, key)

	limit := 1
	allowed, err := limiter.Allow(ctx, key, limit, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, key, limit, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, limit, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "Request after reset should be allowed")
}
