package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type ErrorKind string

const (
	KindUnreachable ErrorKind = "unreachable"
	KindRejected    ErrorKind = "rejected"
	KindTemplate    ErrorKind = "template"
)

type SendError struct {
	Kind ErrorKind
	To   []string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("mail %s to %v: %v", e.Kind, e.To, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// smtp 回應碼錯誤為 rejected，其他網路錯誤為 unreachable
func classify(err error) ErrorKind {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return KindRejected
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnreachable
	}
	return KindRejected
}

type sendFunc func(e *email.Email, addr string, a smtp.Auth, t *tls.Config) error

// SMTPSender 以 STARTTLS 寄信，一次一封，不重試
type SMTPSender struct {
	name     string
	from     string
	username string
	password string
	host     string
	port     int
	send     sendFunc
}

func NewSMTPSender(name, from, password, host string, port int) *SMTPSender {
	return &SMTPSender{
		name:     name,
		from:     from,
		username: from,
		password: password,
		host:     host,
		port:     port,
		send: func(e *email.Email, addr string, a smtp.Auth, t *tls.Config) error {
			return e.SendWithStartTLS(addr, a, t)
		},
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &SendError{Kind: KindUnreachable, To: msg.To, Err: err}
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.name, s.from)
	e.To = msg.To
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := s.send(e, addr, auth, &tls.Config{ServerName: s.host}); err != nil {
		return &SendError{Kind: classify(err), To: msg.To, Err: err}
	}
	return nil
}

// LogSender SMTP 未設定時使用，只記錄不寄出
type LogSender struct {
	logger *zerolog.Logger
}

func NewLogSender(logger *zerolog.Logger) *LogSender {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.logger.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("smtp not configured, email logged only")
	return nil
}
