package ratelimit

import (
	"errors"
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
)

var errTooManyRequests = errors.New("rate limit exceeded, please retry later")

// NewRateLimitMiddleware 以 client ip 為 key 限流，需放在 chi RealIP 之後
func NewRateLimitMiddleware(limiter Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("NewRateLimitMiddleware: limiter cannot be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientKey(r)) {
				api.ErrorJSON(w, int(er.TooManyRequestsCode), errTooManyRequests, er.ErrStrMap[er.TooManyRequestsCode])
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
