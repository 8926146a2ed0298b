package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStripeCreatePayment(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "sk_test_123", user)
		require.NoError(t, r.ParseForm())
		calls = append(calls, r.URL.Path)

		switch r.URL.Path {
		case "/v1/products":
			require.Equal(t, "o-1", r.PostForm.Get("metadata[order_id]"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "prod_1"})
		case "/v1/prices":
			require.Equal(t, "prod_1", r.PostForm.Get("product"))
			require.Equal(t, "4299", r.PostForm.Get("unit_amount"))
			require.Equal(t, "usd", r.PostForm.Get("currency"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "price_1"})
		case "/v1/payment_links":
			require.Equal(t, "price_1", r.PostForm.Get("line_items[0][price]"))
			require.Equal(t, "redirect", r.PostForm.Get("after_completion[type]"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "plink_1", "url": "https://buy.stripe.com/x"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := NewStripeGateway("sk_test_123", time.Second, WithStripeBaseURL(srv.URL))
	res, err := g.CreatePayment(context.Background(), CreatePaymentRequest{
		OrderID:     "o-1",
		OrderNumber: "ORD-20240101-AAAAAA",
		Amount:      42.99,
		Currency:    "USD",
		ReturnURL:   "http://shop/orders/o-1",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/v1/products", "/v1/prices", "/v1/payment_links"}, calls)
	require.Equal(t, "plink_1", res.PaymentID)
	require.Equal(t, "https://buy.stripe.com/x", res.CheckoutURL)
	require.Equal(t, StatusPending, res.Status)
	require.Equal(t, ModeLive, g.Mode())
}

func TestStripeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	}))
	defer srv.Close()

	g := NewStripeGateway("bad", time.Second, WithStripeBaseURL(srv.URL))
	_, err := g.CreatePayment(context.Background(), CreatePaymentRequest{OrderID: "o", Amount: 1})

	var pErr *Error
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, KindRejected, pErr.Kind)
	require.Equal(t, http.StatusUnauthorized, pErr.StatusCode)
	require.Contains(t, pErr.Message, "Invalid API Key")
}

func TestStripeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewStripeGateway("sk", time.Second, WithStripeBaseURL(srv.URL))
	_, err := g.CreatePayment(context.Background(), CreatePaymentRequest{OrderID: "o", Amount: 1})
	require.Equal(t, KindUnreachable, KindOf(err))
}

func TestStripeInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	g := NewStripeGateway("sk", time.Second, WithStripeBaseURL(srv.URL))
	_, err := g.CreatePayment(context.Background(), CreatePaymentRequest{OrderID: "o", Amount: 1})
	require.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestStripeQueryPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "plink_1", r.URL.Query().Get("payment_link"))
		_, _ = w.Write([]byte(`{"data":[{"id":"cs_1","status":"open","payment_status":"unpaid"},
			{"id":"cs_2","status":"complete","payment_status":"paid","amount_total":4299,"currency":"usd"}]}`))
	}))
	defer srv.Close()

	g := NewStripeGateway("sk", time.Second, WithStripeBaseURL(srv.URL))
	res, err := g.QueryPayment(context.Background(), "plink_1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, res.Status)
	require.InDelta(t, 42.99, res.Amount, 0.001)
	require.Equal(t, "USD", res.Currency)
}

func TestVerifyStripeSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Unix(1_700_000_000, 0)
	sig := ComputeStripeSignature(now.Unix(), payload, secret)

	testCases := []struct {
		name   string
		header string
		now    time.Time
		err    error
	}{
		{"valid", "t=1700000000,v1=" + sig, now, nil},
		{"valid with extra schemes", "t=1700000000,v0=abc,v1=bad,v1=" + sig, now, nil},
		{"missing header", "", now, ErrMissingSignature},
		{"missing v1", "t=1700000000", now, ErrMissingSignature},
		{"wrong signature", "t=1700000000,v1=deadbeef", now, ErrInvalidSignature},
		{"too old", "t=1700000000,v1=" + sig, now.Add(6 * time.Minute), ErrSignatureExpired},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyStripeSignature(payload, tc.header, secret, DefaultWebhookTolerance, tc.now)
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseStripeEvent(t *testing.T) {
	ev, err := ParseStripeEvent([]byte(`{"id":"evt_1","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_1","payment_link":"plink_1","payment_status":"paid","metadata":{"order_id":"o-1"}}}}`))
	require.NoError(t, err)
	require.Equal(t, StripeEventCheckoutCompleted, ev.Type)
	require.Equal(t, "o-1", ev.Data.Object.Metadata["order_id"])
	require.Equal(t, "plink_1", ev.Data.Object.PaymentLink)
}
