package payment

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// 連不上、逾時
	KindUnreachable ErrorKind = "unreachable"
	// 非 2xx 或回應內容表示失敗
	KindRejected ErrorKind = "rejected"
	// 回應無法解析
	KindInvalidResponse ErrorKind = "invalid_response"
	KindNotConfigured   ErrorKind = "not_configured"
)

type Error struct {
	Kind       ErrorKind
	Gateway    string
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s (status %d): %s", e.Gateway, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Gateway, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, gateway string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Gateway: gateway,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf 非 *Error 一律視為 unreachable
func KindOf(err error) ErrorKind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUnreachable
}
