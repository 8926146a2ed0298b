package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
)

// 需放在 chi RealIP 之後，RemoteAddr 才會是實際 client ip
func DeviceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.Header.Get("User-Agent")

		deviceInfo := "desktop"
		ua := strings.ToLower(userAgent)
		if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
			deviceInfo = "tablet"
		} else if strings.Contains(ua, "mobile") {
			deviceInfo = "mobile"
		}

		ctx := context.WithValue(r.Context(), constants.AuthorizationUserAgentKey, userAgent)
		ctx = context.WithValue(ctx, constants.AuthorizationIPKey, r.RemoteAddr)
		ctx = context.WithValue(ctx, constants.AuthorizationDeviceInfoKey, deviceInfo)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
