package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestIdMiddleware 沿用上游帶入的 X-Request-Id，沒有才產生新的，並回寫到 response header
func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(util.WithRequestID(r.Context(), requestID)))
	})
}
