package rj_error

import (
	"errors"
	"fmt"
)

type ErrorCode int

// code 直接對應 http status
const (
	BadRequestCode      ErrorCode = 400
	UnauthenticatedCode ErrorCode = 401
	UnauthorizedCode    ErrorCode = 403
	NotFoundCode        ErrorCode = 404
	ConflictCode        ErrorCode = 409
	TooManyRequestsCode ErrorCode = 429
	InternalErrorCode   ErrorCode = 500
	BadGatewayCode      ErrorCode = 502
)

var ErrStrMap = map[ErrorCode]string{
	BadRequestCode:      "Bad Request",
	UnauthenticatedCode: "Unauthenticated",
	UnauthorizedCode:    "Unauthorized",
	NotFoundCode:        "Not Found",
	ConflictCode:        "Conflict",
	TooManyRequestsCode: "Too Many Requests",
	InternalErrorCode:   "Internal Server Error",
	BadGatewayCode:      "Bad Gateway",
}

type AnaError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AnaError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// Is 只比對 code，讓 errors.Is(err, er.New(er.NotFoundCode, "")) 可用
func (e *AnaError) Is(target error) bool {
	t, ok := target.(*AnaError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code ErrorCode, msg string) *AnaError {
	return &AnaError{
		Code:    code,
		Message: msg,
	}
}

func Newf(code ErrorCode, format string, args ...any) *AnaError {
	return New(code, fmt.Sprintf(format, args...))
}

// CodeOf 取出錯誤碼，非 AnaError 一律視為 InternalErrorCode
func CodeOf(err error) ErrorCode {
	var anaErr *AnaError
	if errors.As(err, &anaErr) {
		return anaErr.Code
	}
	return InternalErrorCode
}
