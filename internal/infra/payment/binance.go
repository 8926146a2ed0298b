package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/util"
)

const binanceBaseURL = "https://bpay.binanceapi.com"

type BinanceGateway struct {
	apiKey    string
	secretKey string
	baseURL   string
	client    *http.Client
	now       func() time.Time
}

func NewBinanceGateway(apiKey, secretKey string, timeout time.Duration) *BinanceGateway {
	return &BinanceGateway{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   binanceBaseURL,
		client:    newHTTPClient(timeout),
		now:       time.Now,
	}
}

func (b *BinanceGateway) WithBaseURL(u string) *BinanceGateway {
	b.baseURL = strings.TrimRight(u, "/")
	return b
}

func (b *BinanceGateway) Name() string { return GatewayBinance }

func (b *BinanceGateway) Mode() Mode { return ModeLive }

// SignBinancePayload upper hex HMAC-SHA512(secret, "timestamp\nnonce\nbody\n")
func SignBinancePayload(secret, timestamp, nonce string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(timestamp + "\n" + nonce + "\n"))
	mac.Write(body)
	mac.Write([]byte("\n"))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

type binanceResponse[T any] struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Data         T      `json:"data"`
	ErrorMessage string `json:"errorMessage"`
}

func (b *BinanceGateway) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return newError(KindInvalidResponse, GatewayBinance, err, "encoding request: %v", err)
	}
	timestamp := strconv.FormatInt(b.now().UnixMilli(), 10)
	nonce := util.RandomString(32)

	req, err := http.NewRequest(http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return newError(KindInvalidResponse, GatewayBinance, err, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("BinancePay-Timestamp", timestamp)
	req.Header.Set("BinancePay-Nonce", nonce)
	req.Header.Set("BinancePay-Certificate-SN", b.apiKey)
	req.Header.Set("BinancePay-Signature", SignBinancePayload(b.secretKey, timestamp, nonce, payload))
	return doJSON(ctx, b.client, GatewayBinance, req, out)
}

type binanceOrder struct {
	PrepayID     string `json:"prepayId"`
	CheckoutURL  string `json:"checkoutUrl"`
	UniversalURL string `json:"universalUrl"`
}

type binanceQuery struct {
	PrepayID    string `json:"prepayId"`
	Status      string `json:"status"`
	OrderAmount string `json:"orderAmount"`
	Currency    string `json:"currency"`
}

// merchantTradeNo 只允許英數，最長 32
func merchantTradeNo(orderID string) string {
	var sb strings.Builder
	for _, r := range orderID {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			sb.WriteRune(r)
		}
	}
	s := sb.String()
	if len(s) > 32 {
		s = s[:32]
	}
	return s
}

func (b *BinanceGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" || currency == "USD" {
		// binance pay 以穩定幣計價
		currency = "USDT"
	}
	body := map[string]any{
		"env":             map[string]string{"terminalType": "WEB"},
		"merchantTradeNo": merchantTradeNo(req.OrderID),
		"orderAmount":     amountString(req.Amount),
		"currency":        currency,
		"description":     req.Description,
		"goodsDetails": []map[string]string{{
			"goodsType":        "01",
			"goodsCategory":    "Z000",
			"referenceGoodsId": req.OrderNumber,
			"goodsName":        req.OrderNumber,
		}},
		"returnUrl": req.ReturnURL,
		"cancelUrl": req.CancelURL,
	}

	var resp binanceResponse[binanceOrder]
	if err := b.post(ctx, "/binancepay/openapi/v2/order", body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "SUCCESS" {
		return nil, newError(KindRejected, GatewayBinance, nil, "order rejected: %s %s", resp.Code, resp.ErrorMessage)
	}
	if resp.Data.PrepayID == "" || resp.Data.CheckoutURL == "" {
		return nil, newError(KindInvalidResponse, GatewayBinance, nil, "order response missing prepayId or checkoutUrl")
	}

	return &Result{
		Success:     true,
		Gateway:     GatewayBinance,
		PaymentID:   resp.Data.PrepayID,
		CheckoutURL: resp.Data.CheckoutURL,
		Status:      StatusPending,
		RawStatus:   "INITIAL",
		Amount:      req.Amount,
		Currency:    currency,
	}, nil
}

func (b *BinanceGateway) QueryPayment(ctx context.Context, paymentID string) (*Result, error) {
	var resp binanceResponse[binanceQuery]
	if err := b.post(ctx, "/binancepay/openapi/v2/order/query", map[string]string{"prepayId": paymentID}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "SUCCESS" {
		return nil, newError(KindRejected, GatewayBinance, nil, "query rejected: %s %s", resp.Code, resp.ErrorMessage)
	}

	res := &Result{
		Success:   true,
		Gateway:   GatewayBinance,
		PaymentID: paymentID,
		Status:    normalizeBinanceStatus(resp.Data.Status),
		RawStatus: resp.Data.Status,
		Currency:  resp.Data.Currency,
	}
	if v, err := strconv.ParseFloat(resp.Data.OrderAmount, 64); err == nil {
		res.Amount = v
	}
	return res, nil
}

func normalizeBinanceStatus(s string) Status {
	switch s {
	case "PAID":
		return StatusPaid
	case "EXPIRED":
		return StatusExpired
	case "CANCELED":
		return StatusCancelled
	case "ERROR", "REFUNDED", "FULL_REFUNDED":
		return StatusFailed
	default:
		return StatusPending
	}
}
