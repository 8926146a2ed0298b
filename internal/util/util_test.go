package util

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/stretchr/testify/require"
)

func TestRoundMoney(t *testing.T) {
	require.Equal(t, 30.0, RoundMoney(30.000000001))
	require.Equal(t, 0.3, ToFloat(Money(0.1).Add(Money(0.2))))
	require.Equal(t, 10.13, RoundMoney(10.125))
}

func TestRandomString(t *testing.T) {
	s := RandomUpper(6)
	require.Len(t, s, 6)
	for _, c := range s {
		require.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
	}
	require.Len(t, RandomString(32), 32)
	require.Len(t, RandomHex(16), 32)
	require.NotEqual(t, RandomHex(16), RandomHex(16))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, GetTokenPayloadFromContext(ctx))
	require.Equal(t, "unknown", GetRequestID(ctx))

	p := token.NewPayload("a@b.com", "u1", "admin", time.Minute)
	ctx = WithTokenPayload(ctx, p)
	ctx = context.WithValue(ctx, constants.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, constants.AuthorizationIPKey, "10.0.0.1:5555")

	require.Equal(t, p, GetTokenPayloadFromContext(ctx))
	require.Equal(t, "req-1", GetRequestID(ctx))
	require.Equal(t, "10.0.0.1", GetDeviceInfoFromContext(ctx).IPAddress.String())
}

type pinger interface{ Ping() }

type valuePinger struct{}

func (valuePinger) Ping() {}

type ptrPinger struct{}

func (*ptrPinger) Ping() {}

func TestIsNil(t *testing.T) {
	var typedNil *ptrPinger
	var p pinger = typedNil
	require.True(t, IsNil(nil))
	require.True(t, IsNil(p))
	require.True(t, IsNil(map[string]int(nil)))

	// struct 值不可呼叫 reflect IsNil，需直接回傳 false
	require.False(t, IsNil(pinger(valuePinger{})))
	require.False(t, IsNil(&ptrPinger{}))
	require.False(t, IsNil(0))
}
