package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPaypalTokenCachedAndCapture(t *testing.T) {
	var tokenCalls, captureCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			tokenCalls.Add(1)
			id, secret, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "cid", id)
			require.Equal(t, "csecret", secret)
			_, _ = w.Write([]byte(`{"access_token":"A21","expires_in":3600}`))
		case r.URL.Path == "/v2/checkout/orders" && r.Method == http.MethodPost:
			require.Equal(t, "Bearer A21", r.Header.Get("Authorization"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "CAPTURE", body["intent"])
			_, _ = w.Write([]byte(`{"id":"PP-1","status":"CREATED","links":[{"rel":"self","href":"x"},{"rel":"approve","href":"https://paypal/approve"}]}`))
		case r.URL.Path == "/v2/checkout/orders/PP-1" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"PP-1","status":"APPROVED","purchase_units":[{"amount":{"currency_code":"USD","value":"10.00"}}]}`))
		case r.URL.Path == "/v2/checkout/orders/PP-1/capture":
			captureCalls.Add(1)
			_, _ = w.Write([]byte(`{"id":"PP-1","status":"COMPLETED"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := NewPaypalGateway("cid", "csecret", "sandbox", time.Second).WithBaseURL(srv.URL)
	ctx := context.Background()

	res, err := g.CreatePayment(ctx, CreatePaymentRequest{OrderID: "o-1", OrderNumber: "ORD-1", Amount: 10, Currency: "usd"})
	require.NoError(t, err)
	require.Equal(t, "PP-1", res.PaymentID)
	require.Equal(t, "https://paypal/approve", res.CheckoutURL)

	q, err := g.QueryPayment(ctx, "PP-1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, q.Status)
	require.Equal(t, "COMPLETED", q.RawStatus)
	require.InDelta(t, 10.0, q.Amount, 0.001)

	require.Equal(t, int32(1), tokenCalls.Load())
	require.Equal(t, int32(1), captureCalls.Load())
}

func TestPaypalTokenRefreshBeforeExpiry(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			tokenCalls.Add(1)
			_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":120}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"PP-1","status":"CREATED"}`))
	}))
	defer srv.Close()

	clock := time.Unix(1_700_000_000, 0)
	g := NewPaypalGateway("cid", "cs", "sandbox", time.Second).WithBaseURL(srv.URL)
	g.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := g.token(ctx)
	require.NoError(t, err)
	clock = clock.Add(30 * time.Second)
	_, err = g.token(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), tokenCalls.Load())

	// 剩不到 60 秒就重新取得
	clock = clock.Add(31 * time.Second)
	_, err = g.token(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(2), tokenCalls.Load())
}

func TestPaypalModeBaseURL(t *testing.T) {
	require.Equal(t, paypalLiveURL, NewPaypalGateway("a", "b", "live", 0).baseURL)
	require.Equal(t, paypalSandboxURL, NewPaypalGateway("a", "b", "sandbox", 0).baseURL)
}

func TestPlisioCreateAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "pk", r.URL.Query().Get("api_key"))
		switch r.URL.Path {
		case "/api/v1/invoices/new":
			require.Equal(t, "25.50", r.URL.Query().Get("source_amount"))
			require.Equal(t, "ORD-1", r.URL.Query().Get("order_number"))
			require.Equal(t, "a@b.c", r.URL.Query().Get("email"))
			_, _ = w.Write([]byte(`{"status":"success","data":{"txn_id":"tx1","invoice_url":"https://plisio.net/invoice/tx1"}}`))
		case "/api/v1/operations/tx1":
			_, _ = w.Write([]byte(`{"status":"success","data":{"id":"tx1","status":"completed","source_amount":"25.50","source_currency":"USD"}}`))
		}
	}))
	defer srv.Close()

	g := NewPlisioGateway("pk", "", time.Second).WithBaseURL(srv.URL)
	ctx := context.Background()
	res, err := g.CreatePayment(ctx, CreatePaymentRequest{OrderID: "o", OrderNumber: "ORD-1", Amount: 25.5, CustomerEmail: "a@b.c"})
	require.NoError(t, err)
	require.Equal(t, "tx1", res.PaymentID)
	require.Equal(t, "https://plisio.net/invoice/tx1", res.CheckoutURL)

	q, err := g.QueryPayment(ctx, "tx1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, q.Status)
}

func TestPlisioVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","data":{"message":"Invalid api key"}}`))
	}))
	defer srv.Close()

	g := NewPlisioGateway("pk", "", time.Second).WithBaseURL(srv.URL)
	_, err := g.CreatePayment(context.Background(), CreatePaymentRequest{OrderID: "o", Amount: 1})
	require.Equal(t, KindRejected, KindOf(err))
	require.Contains(t, err.Error(), "Invalid api key")
}

func TestBinanceSignedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		ts := r.Header.Get("BinancePay-Timestamp")
		nonce := r.Header.Get("BinancePay-Nonce")
		require.Len(t, nonce, 32)
		require.Equal(t, "bkey", r.Header.Get("BinancePay-Certificate-SN"))
		require.Equal(t, SignBinancePayload("bsecret", ts, nonce, body), r.Header.Get("BinancePay-Signature"))

		switch r.URL.Path {
		case "/binancepay/openapi/v2/order":
			var req map[string]any
			require.NoError(t, json.Unmarshal(body, &req))
			require.Equal(t, "abc123", req["merchantTradeNo"])
			require.Equal(t, "USDT", req["currency"])
			_, _ = w.Write([]byte(`{"status":"SUCCESS","code":"000000","data":{"prepayId":"pp1","checkoutUrl":"https://pay.binance.com/pp1"}}`))
		case "/binancepay/openapi/v2/order/query":
			_, _ = w.Write([]byte(`{"status":"SUCCESS","data":{"prepayId":"pp1","status":"PAID","orderAmount":"8.50","currency":"USDT"}}`))
		}
	}))
	defer srv.Close()

	g := NewBinanceGateway("bkey", "bsecret", time.Second).WithBaseURL(srv.URL)
	ctx := context.Background()
	res, err := g.CreatePayment(ctx, CreatePaymentRequest{OrderID: "abc-123", OrderNumber: "ORD-1", Amount: 8.5, Currency: "USD"})
	require.NoError(t, err)
	require.Equal(t, "pp1", res.PaymentID)

	q, err := g.QueryPayment(ctx, "pp1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, q.Status)
	require.InDelta(t, 8.5, q.Amount, 0.001)
}

func TestSignBinancePayloadUpperHex(t *testing.T) {
	sig := SignBinancePayload("s", "1", "n", []byte(`{}`))
	require.Len(t, sig, 128)
	require.Equal(t, strings.ToUpper(sig), sig)
}

func TestSandboxGateway(t *testing.T) {
	g := NewSandboxGateway(GatewayStripe, "http://localhost:3000/")
	res, err := g.CreatePayment(context.Background(), CreatePaymentRequest{OrderID: "o-9", OrderNumber: "ORD-9", Amount: 12})
	require.NoError(t, err)
	require.Equal(t, "demo_stripe_o-9", res.PaymentID)
	require.True(t, strings.HasPrefix(res.CheckoutURL, "http://localhost:3000/payment/demo?"))

	u, err := url.Parse(res.CheckoutURL)
	require.NoError(t, err)
	require.Equal(t, "o-9", u.Query().Get("order_id"))
	require.Equal(t, "12.00", u.Query().Get("amount"))

	q, err := g.QueryPayment(context.Background(), res.PaymentID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, q.Status)
	require.Equal(t, ModeSandbox, g.Mode())
}

func TestBuildRegistry(t *testing.T) {
	reg := BuildRegistry(Credentials{
		StripeSecretKey: "sk_live_real",
		PaypalClientID:  "your_paypal_client_id",
		PlisioAPIKey:    "plisio_real",
		FrontendURL:     "http://localhost:3000",
		Configured: func(values ...string) bool {
			for _, v := range values {
				if v == "" || strings.HasPrefix(v, "your_") {
					return false
				}
			}
			return true
		},
	}, nil)

	require.Equal(t, []string{GatewayBinance, GatewayPaypal, GatewayPlisio, GatewayStripe}, reg.Names())
	modes := reg.Modes()
	require.Equal(t, ModeLive, modes[GatewayStripe])
	require.Equal(t, ModeSandbox, modes[GatewayPaypal])
	require.Equal(t, ModeLive, modes[GatewayPlisio])
	require.Equal(t, ModeSandbox, modes[GatewayBinance])

	_, ok := reg.Get("manual")
	require.False(t, ok)
}
