package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisClient 只需要 Eval，方便測試替換
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local currentTokens = tonumber(bucket[1])
local lastRefill = tonumber(bucket[2])

if currentTokens == nil then
	currentTokens = capacity
	lastRefill = now
end

local elapsedSeconds = (now - lastRefill) / 1000000000
currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

local allowed = 0
if currentTokens >= 1 then
	currentTokens = currentTokens - 1
	allowed = 1
end

redis.call('HSET', key, 'tokens', currentTokens, 'last_refill', now)
redis.call('EXPIRE', key, ttl)
return allowed
`

/*
多實例共用的 token bucket，狀態存在 redis hash
redis 失敗時放行，避免 redis 掛掉整站不能用
*/
type RedisTokenBucket struct {
	LimiterConfig
	client RedisClient
	prefix string
}

func NewRedisTokenBucket(client RedisClient, config *LimiterConfig) *RedisTokenBucket {
	if client == nil {
		panic("NewRedisTokenBucket: redis client cannot be nil")
	}
	rb := &RedisTokenBucket{
		client: client,
		prefix: "ratelimit",
	}
	if config != nil {
		rb.LimiterConfig = *config
	}
	rb.LimiterConfig.normalize()
	return rb
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{fmt.Sprintf("%s:%s", r.prefix, key)},
		r.Capacity,
		r.RatePS,
		time.Now().UnixNano(),
		int(r.IdleTTL.Seconds()),
	).Int64()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis rate limit eval failed, allow request")
		return true
	}
	return result == 1
}
