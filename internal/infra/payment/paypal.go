package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	paypalLiveURL    = "https://api-m.paypal.com"
	paypalSandboxURL = "https://api-m.sandbox.paypal.com"
	// token 到期前多久視為過期
	paypalTokenSkew = 60 * time.Second
)

type PaypalGateway struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// NewPaypalGateway mode 為 live 時打正式環境，其餘打 paypal sandbox
func NewPaypalGateway(clientID, clientSecret, mode string, timeout time.Duration) *PaypalGateway {
	baseURL := paypalSandboxURL
	if strings.EqualFold(mode, string(ModeLive)) {
		baseURL = paypalLiveURL
	}
	return &PaypalGateway{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		client:       newHTTPClient(timeout),
		now:          time.Now,
	}
}

func (p *PaypalGateway) WithBaseURL(u string) *PaypalGateway {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

func (p *PaypalGateway) Name() string { return GatewayPaypal }

func (p *PaypalGateway) Mode() Mode { return ModeLive }

// token 以 mutex 保護，過期前共用同一個
func (p *PaypalGateway) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && p.now().Before(p.expiresAt) {
		return p.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", newError(KindInvalidResponse, GatewayPaypal, err, "building token request: %v", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := doJSON(ctx, p.client, GatewayPaypal, req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", newError(KindInvalidResponse, GatewayPaypal, nil, "token response missing access_token")
	}

	p.accessToken = tok.AccessToken
	p.expiresAt = p.now().Add(time.Duration(tok.ExpiresIn)*time.Second - paypalTokenSkew)
	return p.accessToken, nil
}

func (p *PaypalGateway) doAuthed(ctx context.Context, method, path string, body any, out any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return newError(KindInvalidResponse, GatewayPaypal, err, "encoding request: %v", err)
		}
	}
	req, err := http.NewRequest(method, p.baseURL+path, &buf)
	if err != nil {
		return newError(KindInvalidResponse, GatewayPaypal, err, "building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return doJSON(ctx, p.client, GatewayPaypal, req, out)
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		Amount paypalAmount `json:"amount"`
	} `json:"purchase_units"`
}

func (o *paypalOrder) link(rel string) string {
	for _, l := range o.Links {
		if l.Rel == rel {
			return l.Href
		}
	}
	return ""
}

func (p *PaypalGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.OrderID,
			"invoice_id":   req.OrderNumber,
			"description":  req.Description,
			"amount":       paypalAmount{CurrencyCode: currency, Value: amountString(req.Amount)},
		}},
		"application_context": map[string]any{
			"return_url":  req.ReturnURL,
			"cancel_url":  req.CancelURL,
			"user_action": "PAY_NOW",
		},
	}

	var order paypalOrder
	if err := p.doAuthed(ctx, http.MethodPost, "/v2/checkout/orders", body, &order); err != nil {
		return nil, err
	}
	approve := order.link("approve")
	if approve == "" {
		approve = order.link("payer-action")
	}
	if order.ID == "" || approve == "" {
		return nil, newError(KindInvalidResponse, GatewayPaypal, nil, "order response missing id or approve link")
	}

	return &Result{
		Success:     true,
		Gateway:     GatewayPaypal,
		PaymentID:   order.ID,
		CheckoutURL: approve,
		Status:      StatusPending,
		RawStatus:   order.Status,
		Amount:      req.Amount,
		Currency:    currency,
	}, nil
}

// QueryPayment APPROVED 的訂單在這裡 capture
func (p *PaypalGateway) QueryPayment(ctx context.Context, paymentID string) (*Result, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(paymentID)

	var order paypalOrder
	if err := p.doAuthed(ctx, http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}

	if order.Status == "APPROVED" {
		var captured paypalOrder
		if err := p.doAuthed(ctx, http.MethodPost, path+"/capture", map[string]any{}, &captured); err != nil {
			return nil, err
		}
		if captured.Status != "" {
			order.Status = captured.Status
		}
	}

	res := &Result{
		Success:   true,
		Gateway:   GatewayPaypal,
		PaymentID: paymentID,
		Status:    normalizePaypalStatus(order.Status),
		RawStatus: order.Status,
	}
	if len(order.PurchaseUnits) > 0 {
		amt := order.PurchaseUnits[0].Amount
		res.Currency = amt.CurrencyCode
		if v, err := strconv.ParseFloat(amt.Value, 64); err == nil {
			res.Amount = v
		}
	}
	return res, nil
}

func normalizePaypalStatus(s string) Status {
	switch s {
	case "COMPLETED":
		return StatusPaid
	case "VOIDED":
		return StatusCancelled
	default:
		return StatusPending
	}
}
