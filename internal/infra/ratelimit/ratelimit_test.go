package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestBucket(capacity, rate int) (*TokenBucket, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	tb := NewTokenBucket(&LimiterConfig{Capacity: capacity, RatePS: rate, IdleTTL: time.Minute})
	tb.now = clock.now
	tb.lastGC = clock.t
	return tb, clock
}

func TestTokenBucketCapacityAndRefill(t *testing.T) {
	ctx := context.Background()
	tb, clock := newTestBucket(3, 1)

	for i := 0; i < 3; i++ {
		require.True(t, tb.Allow(ctx, "a"), "第 %d 次請求應該通過", i+1)
	}
	require.False(t, tb.Allow(ctx, "a"))

	// 其他 key 不受影響
	require.True(t, tb.Allow(ctx, "b"))

	clock.advance(time.Second)
	require.True(t, tb.Allow(ctx, "a"))
	require.False(t, tb.Allow(ctx, "a"))

	// 補充不超過容量
	clock.advance(10 * time.Second)
	for i := 0; i < 3; i++ {
		require.True(t, tb.Allow(ctx, "a"))
	}
	require.False(t, tb.Allow(ctx, "a"))
}

func TestTokenBucketGC(t *testing.T) {
	ctx := context.Background()
	tb, clock := newTestBucket(1, 1)

	require.True(t, tb.Allow(ctx, "a"))
	clock.advance(2 * time.Minute)
	require.True(t, tb.Allow(ctx, "b"))
	require.Len(t, tb.buckets, 1)
}

func TestMiddleware(t *testing.T) {
	tb, _ := newTestBucket(1, 1)
	h := NewRateLimitMiddleware(tb)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "Too Many Requests")
}

type failingClient struct{}

func (failingClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	cmd.SetErr(errors.New("connection refused"))
	return cmd
}

func TestRedisBucketFailOpen(t *testing.T) {
	rb := NewRedisTokenBucket(failingClient{}, &LimiterConfig{Capacity: 1, RatePS: 1})
	require.True(t, rb.Allow(context.Background(), "a"))
	require.True(t, rb.Allow(context.Background(), "a"))
}

func TestRedisBucket(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	key := "test-" + time.Now().Format("150405.000000")
	rb := NewRedisTokenBucket(client, &LimiterConfig{Capacity: 2, RatePS: 1, IdleTTL: time.Minute})
	require.True(t, rb.Allow(ctx, key))
	require.True(t, rb.Allow(ctx, key))
	require.False(t, rb.Allow(ctx, key))

	time.Sleep(1100 * time.Millisecond)
	require.True(t, rb.Allow(ctx, key))
}
