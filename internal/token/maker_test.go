package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func makers(t *testing.T) map[string]Maker {
	jwtMaker, err := NewMaker(TypeJWT, testKey)
	require.NoError(t, err)
	pasetoMaker, err := NewMaker(TypePaseto, testKey)
	require.NoError(t, err)
	return map[string]Maker{TypeJWT: jwtMaker, TypePaseto: pasetoMaker}
}

func TestMakerRoundTrip(t *testing.T) {
	for name, maker := range makers(t) {
		t.Run(name, func(t *testing.T) {
			token, payload, err := maker.CreateToken("amy@example.com", "user-1", "admin", time.Minute)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			got, err := maker.VerifyToken(token)
			require.NoError(t, err)
			require.Equal(t, payload.UPN, got.UPN)
			require.Equal(t, "user-1", got.UserID)
			require.Equal(t, "admin", got.Role)
			require.Equal(t, payload.ID, got.ID)
			require.WithinDuration(t, payload.ExpiredAt, got.ExpiredAt, time.Second)
		})
	}
}

func TestMakerExpiredToken(t *testing.T) {
	for name, maker := range makers(t) {
		t.Run(name, func(t *testing.T) {
			token, _, err := maker.CreateToken("amy@example.com", "user-1", "customer", -time.Minute)
			require.NoError(t, err)

			_, err = maker.VerifyToken(token)
			require.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestMakerRejectsGarbage(t *testing.T) {
	for name, maker := range makers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := maker.VerifyToken("not-a-token")
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewMakerKeySize(t *testing.T) {
	_, err := NewMaker(TypeJWT, "short")
	require.Error(t, err)
	_, err = NewMaker(TypePaseto, testKey+"x")
	require.Error(t, err)
	_, err = NewMaker("rsa", testKey)
	require.Error(t, err)
}
