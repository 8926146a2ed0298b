package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doJSON 送出請求並解析 json，依失敗位置回傳對應 Kind
func doJSON(ctx context.Context, client *http.Client, gateway string, req *http.Request, out any) error {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return newError(KindUnreachable, gateway, err, "request %s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return newError(KindUnreachable, gateway, err, "reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := newError(KindRejected, gateway, nil, "%s", truncate(string(body), 300))
		e.StatusCode = resp.StatusCode
		return e
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(KindInvalidResponse, gateway, err, "decoding response: %v", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func centsOf(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

func amountString(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
