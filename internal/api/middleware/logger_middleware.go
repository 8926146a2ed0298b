package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Status 沒有呼叫 WriteHeader 時 net/http 預設回 200
func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func requestLogger(logger *zerolog.Logger, r *http.Request, recoder *StatusRecoder) *zerolog.Event {
	var upn, userID, role string
	if payload := util.GetTokenPayloadFromContext(r.Context()); payload != nil {
		upn, userID, role = payload.UPN, payload.UserID, payload.Role
	}
	device := util.GetDeviceInfoFromContext(r.Context())

	var event *zerolog.Event
	if recoder.Status() >= http.StatusInternalServerError {
		event = logger.Error()
	} else {
		event = logger.Info()
	}
	return event.
		Str("request_id", util.GetRequestID(r.Context())).
		Str("upn", upn).
		Str("user_id", userID).
		Str("role", role).
		Str("ip", r.RemoteAddr).
		Str("device", device.DeviceType).
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Int("status", recoder.Status())
}

// 記錄request 請求
// 有一起處理recover
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &temp
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}
			start := time.Now()

			defer func() {
				if rec := recover(); rec != nil {
					var errMsg string
					if e, ok := rec.(error); ok {
						errMsg = e.Error()
					} else {
						errMsg = fmt.Sprintf("%v", rec)
					}
					api.ErrorJSON(recoder, int(er.InternalErrorCode), nil, er.ErrStrMap[er.InternalErrorCode])
					requestLogger(logger, r, recoder).
						Str("error", errMsg).
						Bytes("stack", debug.Stack()).
						Msg("request panic")
					return
				}
				requestLogger(logger, r, recoder).
					Dur("latency", time.Since(start)).
					Msg("request completed")
			}()

			next.ServeHTTP(recoder, r)
		})
	}
}
