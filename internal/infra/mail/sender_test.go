package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

func TestSMTPSenderBuildsEmail(t *testing.T) {
	s := NewSMTPSender("Storefront", "shop@example.com", "pw", "smtp.example.com", 587)

	var gotAddr string
	var got *email.Email
	var gotTLS *tls.Config
	s.send = func(e *email.Email, addr string, a smtp.Auth, cfg *tls.Config) error {
		got, gotAddr, gotTLS = e, addr, cfg
		return nil
	}

	err := s.Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "Hi", HTML: "<b>x</b>"})
	require.NoError(t, err)
	require.Equal(t, "smtp.example.com:587", gotAddr)
	require.Equal(t, "Storefront <shop@example.com>", got.From)
	require.Equal(t, []string{"a@b.c"}, got.To)
	require.Equal(t, "<b>x</b>", string(got.HTML))
	require.Equal(t, "smtp.example.com", gotTLS.ServerName)
}

func TestSMTPSenderErrorKinds(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindUnreachable},
		{"smtp rejection", &textproto.Error{Code: 535, Msg: "authentication failed"}, KindRejected},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSMTPSender("n", "f@x.y", "p", "h", 25)
			s.send = func(*email.Email, string, smtp.Auth, *tls.Config) error { return tc.err }

			err := s.Send(context.Background(), Message{To: []string{"a@b.c"}})
			var sErr *SendError
			require.ErrorAs(t, err, &sErr)
			require.Equal(t, tc.kind, sErr.Kind)
		})
	}
}

func TestSMTPSenderCancelledContext(t *testing.T) {
	s := NewSMTPSender("n", "f@x.y", "p", "h", 25)
	called := false
	s.send = func(*email.Email, string, smtp.Auth, *tls.Config) error { called = true; return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, s.Send(ctx, Message{To: []string{"a@b.c"}}))
	require.False(t, called)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, NewLogSender(nil).Send(context.Background(), Message{To: []string{"a@b.c"}}))
}
