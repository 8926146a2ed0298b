package facebook_auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/debug_token":
			require.Equal(t, "app|secret", q.Get("access_token"))
			switch q.Get("input_token") {
			case "good", "no-email":
				_, _ = w.Write([]byte(`{"data":{"app_id":"app","is_valid":true,"user_id":"42"}}`))
			case "other-app":
				_, _ = w.Write([]byte(`{"data":{"app_id":"nope","is_valid":true}}`))
			default:
				_, _ = w.Write([]byte(`{"data":{"is_valid":false}}`))
			}
		case "/me":
			if q.Get("access_token") == "no-email" {
				_, _ = w.Write([]byte(`{"id":"42","name":"A"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"42","name":"Ann","email":"Ann@Example.com","picture":{"data":{"url":"https://pic"}}}`))
		}
	}))
	defer srv.Close()

	v := NewVerifier("app", "secret", time.Second).WithBaseURL(srv.URL)
	ctx := context.Background()

	claims, err := v.VerifyAccessToken(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, "facebook", claims.Provider)
	require.Equal(t, "42", claims.ProviderUserID)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Equal(t, "https://pic", claims.Picture)

	_, err = v.VerifyAccessToken(ctx, "other-app")
	require.ErrorIs(t, err, ErrAppMismatch)

	_, err = v.VerifyAccessToken(ctx, "bad")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.VerifyAccessToken(ctx, "no-email")
	require.ErrorIs(t, err, ErrMissingEmail)
}
