package payment

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const plisioBaseURL = "https://plisio.net"

// PlisioGateway 加密貨幣 invoice，以 txn_id 作為付款編號
type PlisioGateway struct {
	apiKey      string
	baseURL     string
	callbackURL string
	client      *http.Client
}

func NewPlisioGateway(apiKey, callbackURL string, timeout time.Duration) *PlisioGateway {
	return &PlisioGateway{
		apiKey:      apiKey,
		baseURL:     plisioBaseURL,
		callbackURL: callbackURL,
		client:      newHTTPClient(timeout),
	}
}

func (p *PlisioGateway) WithBaseURL(u string) *PlisioGateway {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

func (p *PlisioGateway) Name() string { return GatewayPlisio }

func (p *PlisioGateway) Mode() Mode { return ModeLive }

type plisioResponse[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type plisioInvoice struct {
	TxnID      string `json:"txn_id"`
	InvoiceURL string `json:"invoice_url"`
	Message    string `json:"message"`
}

type plisioOperation struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	SourceAmount string `json:"source_amount"`
	SourceCurr   string `json:"source_currency"`
}

func (p *PlisioGateway) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("api_key", p.apiKey)
	req, err := http.NewRequest(http.MethodGet, p.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return newError(KindInvalidResponse, GatewayPlisio, err, "building request: %v", err)
	}
	return doJSON(ctx, p.client, GatewayPlisio, req, out)
}

func (p *PlisioGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}
	query := url.Values{
		"source_currency": {currency},
		"source_amount":   {amountString(req.Amount)},
		"order_number":    {req.OrderNumber},
		"order_name":      {req.Description},
		"email":           {req.CustomerEmail},
	}
	if p.callbackURL != "" {
		query.Set("callback_url", p.callbackURL)
	}
	if req.ReturnURL != "" {
		query.Set("success_callback_url", req.ReturnURL)
	}
	if req.CancelURL != "" {
		query.Set("fail_callback_url", req.CancelURL)
	}

	var resp plisioResponse[plisioInvoice]
	if err := p.get(ctx, "/api/v1/invoices/new", query, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, newError(KindRejected, GatewayPlisio, nil, "invoice rejected: %s", resp.Data.Message)
	}
	if resp.Data.TxnID == "" || resp.Data.InvoiceURL == "" {
		return nil, newError(KindInvalidResponse, GatewayPlisio, nil, "invoice response missing txn_id or invoice_url")
	}

	return &Result{
		Success:     true,
		Gateway:     GatewayPlisio,
		PaymentID:   resp.Data.TxnID,
		CheckoutURL: resp.Data.InvoiceURL,
		Status:      StatusPending,
		RawStatus:   "new",
		Amount:      req.Amount,
		Currency:    currency,
	}, nil
}

func (p *PlisioGateway) QueryPayment(ctx context.Context, paymentID string) (*Result, error) {
	var resp plisioResponse[plisioOperation]
	if err := p.get(ctx, "/api/v1/operations/"+url.PathEscape(paymentID), url.Values{}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, newError(KindRejected, GatewayPlisio, nil, "operation query rejected")
	}

	res := &Result{
		Success:   true,
		Gateway:   GatewayPlisio,
		PaymentID: paymentID,
		Status:    normalizePlisioStatus(resp.Data.Status),
		RawStatus: resp.Data.Status,
		Currency:  resp.Data.SourceCurr,
	}
	if v, err := strconv.ParseFloat(resp.Data.SourceAmount, 64); err == nil {
		res.Amount = v
	}
	return res, nil
}

func normalizePlisioStatus(s string) Status {
	switch s {
	case "completed", "mismatch":
		return StatusPaid
	case "expired":
		return StatusExpired
	case "cancelled":
		return StatusCancelled
	case "error":
		return StatusFailed
	default:
		return StatusPending
	}
}
