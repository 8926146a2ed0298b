package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

const DefaultWebhookTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing stripe signature header")
	ErrInvalidSignature = errors.New("stripe signature mismatch")
	ErrSignatureExpired = errors.New("stripe signature timestamp outside tolerance")
)

// ComputeStripeSignature HMAC-SHA256(secret, "{timestamp}.{payload}")
func ComputeStripeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

/*
VerifyStripeSignature 驗證 Stripe-Signature header
格式: t={timestamp},v1={signature}[,v1=...]
任一 v1 相符且時間在容許範圍內即通過
*/
func VerifyStripeSignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return ErrMissingSignature
	}

	var timestamp int64 = -1
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if timestamp < 0 || len(signatures) == 0 {
		return ErrMissingSignature
	}

	if tolerance > 0 {
		diff := now.Sub(time.Unix(timestamp, 0))
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			return ErrSignatureExpired
		}
	}

	expected := []byte(ComputeStripeSignature(timestamp, payload, secret))
	for _, sig := range signatures {
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// StripeEvent 只解析訂單確認需要的欄位
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentLink   string            `json:"payment_link"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

const (
	StripeEventCheckoutCompleted     = "checkout.session.completed"
	StripeEventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"

	// StripePaymentStatusPaid 延遲付款方式在 completed 時仍是 unpaid
	StripePaymentStatusPaid = "paid"
)

func ParseStripeEvent(payload []byte) (*StripeEvent, error) {
	var ev StripeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
