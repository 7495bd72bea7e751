package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToCapacity(t *testing.T) {
	rl := NewRateLimiter(5, 1) // 용량 5, 초당 1 충전

	for i := 0; i < 5; i++ {
		if !rl.Allow("user:a") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow("user:a") {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	if !rl.Allow("user:a") {
		t.Error("First request for user:a should be allowed")
	}
	if rl.Allow("user:a") {
		t.Error("Second request for user:a should be denied")
	}

	// 다른 키는 영향을 받지 않는다
	if !rl.Allow("user:b") {
		t.Error("First request for user:b should be allowed")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	rl.Allow("ip:1.2.3.4")
	if rl.Allow("ip:1.2.3.4") {
		t.Error("Request should be denied after consuming capacity")
	}

	rl.Reset("ip:1.2.3.4")

	if !rl.Allow("ip:1.2.3.4") {
		t.Error("Request after reset should be allowed")
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(100, 10)

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("user:shared")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}

	// 용량을 초과해 허용되면 안 된다
	if count > 101 {
		t.Errorf("Allowed %d requests, capacity is 100", count)
	}
	if count < 100 {
		t.Errorf("Allowed only %d requests, expected at least 100", count)
	}
}

func TestBucket_RefillAfterElapsed(t *testing.T) {
	now := time.Now()
	b := &bucket{tokens: 0, lastRefill: now}

	// 충전 전에는 거부
	if b.take(1, 5, 2, now) {
		t.Error("Empty bucket should deny")
	}

	// 2초 경과: 초당 2개 충전이므로 4개 사용 가능
	later := now.Add(2 * time.Second)
	if !b.take(4, 5, 2, later) {
		t.Error("take(4) should be allowed after 2s refill")
	}
	if b.take(1, 5, 2, later) {
		t.Error("take(1) should be denied after consuming refilled tokens")
	}
}

func TestBucket_RefillCappedAtCapacity(t *testing.T) {
	now := time.Now()
	b := &bucket{tokens: 5, lastRefill: now}

	// 오래 쉬어도 용량을 넘지 않는다
	later := now.Add(time.Hour)
	if !b.take(5, 5, 1, later) {
		t.Error("take(5) should be allowed")
	}
	if b.take(1, 5, 1, later) {
		t.Error("take(1) should be denied, refill must cap at capacity")
	}
}
