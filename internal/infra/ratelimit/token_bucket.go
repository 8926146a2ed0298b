package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
單機 token bucket
取用時才依經過時間補 token，不需要背景 goroutine
*/
type TokenBucket struct {
	LimiterConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	lastGC  time.Time
	now     func() time.Time
}

func NewTokenBucket(config *LimiterConfig) *TokenBucket {
	t := &TokenBucket{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	if config != nil {
		t.LimiterConfig = *config
	}
	t.LimiterConfig.normalize()
	t.lastGC = t.now()
	return t
}

func (t *TokenBucket) Allow(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.gc(now)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(t.Capacity), lastRefill: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(float64(t.Capacity), b.tokens+elapsed*float64(t.RatePS))
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// 閒置超過 IdleTTL 的 bucket 已經補滿，刪掉等同重建
func (t *TokenBucket) gc(now time.Time) {
	if now.Sub(t.lastGC) < t.IdleTTL {
		return
	}
	for k, b := range t.buckets {
		if now.Sub(b.lastRefill) >= t.IdleTTL {
			delete(t.buckets, k)
		}
	}
	t.lastGC = now
}
