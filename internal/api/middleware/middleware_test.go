package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestIdMiddleware(t *testing.T) {
	var got string
	h := RequestIdMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = util.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "req-1", got)
	require.Equal(t, "req-1", rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, "unknown", got)
	require.NotEqual(t, "req-1", got)
}

func TestAuthPayloadMiddleware(t *testing.T) {
	maker, err := token.NewJWTMaker(strings.Repeat("s", 32))
	require.NoError(t, err)
	tok, _, err := maker.CreateToken("a@example.com", "u1", "admin", time.Minute)
	require.NoError(t, err)

	var payload *token.Payload
	h := AuthPayloadMiddleware(maker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = util.GetTokenPayloadFromContext(r.Context())
	}))

	testCases := []struct {
		name   string
		header string
		ok     bool
	}{
		{name: "valid", header: "Bearer " + tok, ok: true},
		{name: "lower case scheme", header: "bearer " + tok, ok: true},
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic " + tok},
		{name: "garbage token", header: "Bearer abc.def.ghi"},
		{name: "scheme only", header: "Bearer "},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if tc.ok {
				require.NotNil(t, payload)
				require.Equal(t, "u1", payload.UserID)
			} else {
				require.Nil(t, payload)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	perms, err := config.ParsePermissionConfig([]byte(`
permissions:
  - id: 1
    name: order_read
    resource: orders
    actions: [read]
role_permissions:
  - name: support
    permissions: [1]
`))
	require.NoError(t, err)
	auth := NewAuthorizer(perms)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(role, action string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req = req.WithContext(util.WithTokenPayload(req.Context(), token.NewPayload("x@example.com", "u", role, time.Minute)))
		}
		rec := httptest.NewRecorder()
		auth.RequirePermission("orders", action)(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusUnauthorized, serve("", "read"))
	require.Equal(t, http.StatusOK, serve("support", "read"))
	require.Equal(t, http.StatusForbidden, serve("support", "write"))
	require.Equal(t, http.StatusForbidden, serve("customer", "read"))
	require.Equal(t, http.StatusOK, serve("admin", "write"))
}

func TestLoggerMiddlewareRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := LoggerMiddleware(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "boom", line["error"])
	require.Equal(t, "request panic", line["message"])
	require.EqualValues(t, http.StatusInternalServerError, line["status"])
}
