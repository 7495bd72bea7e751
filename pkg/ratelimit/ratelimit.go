package ratelimit

import (
	"math"
	"sync"
	"time"
)

// bucket 키 하나에 대한 토큰 버킷
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// take 경과 시간만큼 토큰을 충전한 뒤 n개 소비를 시도한다
func (b *bucket) take(n, capacity, refillRate float64, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*refillRate)
		b.lastRefill = now
	}

	if b.tokens >= n {
		b.tokens -= n
		return true
	}

	return false
}

// idle 버킷이 가득 찬 채로 방치된 경우 true
func (b *bucket) idle(capacity float64, since time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens >= capacity && b.lastRefill.Before(since)
}

// RateLimiter 토큰 버킷 기반 인메모리 Rate Limiter.
// 키(사용자 ID, IP)별로 버킷을 유지하고, 오래 사용되지 않은 버킷은 주기적으로 정리한다.
type RateLimiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	capacity   int64
	refillRate int64 // 초당 충전 토큰 수
}

const cleanupInterval = 10 * time.Minute

// NewRateLimiter Rate Limiter 생성
func NewRateLimiter(capacity, refillRate int64) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
	}

	go rl.janitor()

	return rl
}

// Allow 키에 대한 요청 1건 허용 여부 확인
func (rl *RateLimiter) Allow(key string) bool {
	return rl.AllowN(key, 1)
}

// AllowN 키에 대한 요청 n건 허용 여부 확인
func (rl *RateLimiter) AllowN(key string, n int64) bool {
	return rl.getBucket(key).take(float64(n), float64(rl.capacity), float64(rl.refillRate), time.Now())
}

// Reset 키에 대한 제한 초기화
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// ActiveKeys 현재 추적 중인 키 개수
func (rl *RateLimiter) ActiveKeys() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) getBucket(key string) *bucket {
	rl.mu.RLock()
	b, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if exists {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 쓰기 락 획득 후 재확인
	if b, exists = rl.buckets[key]; exists {
		return b
	}

	b = &bucket{
		tokens:     float64(rl.capacity),
		lastRefill: time.Now(),
	}
	rl.buckets[key] = b
	return b
}

// janitor 가득 찬 채로 방치된 버킷을 주기적으로 제거한다 (메모리 누수 방지)
func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-cleanupInterval)

		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.idle(float64(rl.capacity), cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
