package middleware

import (
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/RoyceAzure/lab/storefront/internal/util"
)

// AuthPayloadMiddleware 只解析 token，解析失敗不中斷請求，由 AuthMiddleware 決定是否擋下
func AuthPayloadMiddleware(tokenMaker token.Maker) func(http.Handler) http.Handler {
	if tokenMaker == nil {
		panic("AuthPayloadMiddleware: tokenMaker cannot be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			payload, err := tokenMaker.VerifyToken(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(util.WithTokenPayload(r.Context(), payload)))
		})
	}
}

// bearerToken 取出 "Bearer <token>"，type 不分大小寫
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get(string(constants.AuthorizationHeaderKey)))
	authType, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(authType, string(constants.AuthorizationTypeBearer)) {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
