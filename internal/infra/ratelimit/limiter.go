package ratelimit

import (
	"context"
	"time"
)

// Limiter 以 key 區分桶子，key 通常是 client ip
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type LimiterConfig struct {
	Capacity int
	RatePS   int // tokens/秒
	// 閒置多久後回收 bucket
	IdleTTL time.Duration
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 20,
		RatePS:   2,
		IdleTTL:  time.Minute,
	}
}

func (c *LimiterConfig) normalize() {
	def := GetDefaultLimiterConfig()
	if c.Capacity <= 0 {
		c.Capacity = def.Capacity
	}
	if c.RatePS <= 0 {
		c.RatePS = def.RatePS
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = def.IdleTTL
	}
}
