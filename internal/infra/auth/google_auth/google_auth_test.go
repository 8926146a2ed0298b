package google_auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTokenInfoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id_token") {
		case "good":
			_, _ = w.Write([]byte(`{"aud":"client-1","sub":"10795","email":"Royce@Example.com","email_verified":"true","name":"Royce","picture":"https://pic"}`))
		case "other-app":
			_, _ = w.Write([]byte(`{"aud":"client-2","sub":"1","email":"a@b.c"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
		}
	}))
}

func TestGoogleAuthVerifier_VerifyIDToken(t *testing.T) {
	srv := newTokenInfoServer(t)
	defer srv.Close()

	verifier := NewGoogleAuthVerifier("client-1", time.Second).WithBaseURL(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	claims, err := verifier.VerifyIDToken(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, "google", claims.Provider)
	require.Equal(t, "10795", claims.ProviderUserID)
	require.Equal(t, "royce@example.com", claims.Email)
	require.True(t, claims.EmailVerified)

	_, err = verifier.VerifyIDToken(ctx, "other-app")
	require.ErrorIs(t, err, ErrAudienceMismatch)

	_, err = verifier.VerifyIDToken(ctx, "expired")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.VerifyIDToken(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
