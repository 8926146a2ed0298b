package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeBaseURL = "https://api.stripe.com"

/*
Stripe 以 payment link 收款
product -> price -> payment_link 三段式建立，payment link id 作為付款編號
*/
type StripeGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

type StripeOption func(*StripeGateway)

func WithStripeBaseURL(u string) StripeOption {
	return func(s *StripeGateway) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

func NewStripeGateway(secretKey string, timeout time.Duration, opts ...StripeOption) *StripeGateway {
	s := &StripeGateway{
		secretKey: secretKey,
		baseURL:   stripeBaseURL,
		client:    newHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StripeGateway) Name() string { return GatewayStripe }

func (s *StripeGateway) Mode() Mode { return ModeLive }

func (s *StripeGateway) newRequest(method, path string, form url.Values) (*http.Request, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return nil, newError(KindInvalidResponse, GatewayStripe, err, "building request: %v", err)
	}
	req.SetBasicAuth(s.secretKey, "")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

func (s *StripeGateway) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := s.newRequest(http.MethodPost, path, form)
	if err != nil {
		return err
	}
	return doJSON(ctx, s.client, GatewayStripe, req, out)
}

type stripeObject struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *StripeGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}

	productForm := url.Values{
		"name":               {fmt.Sprintf("Order %s", req.OrderNumber)},
		"metadata[order_id]": {req.OrderID},
	}
	if req.Description != "" {
		productForm.Set("description", req.Description)
	}
	var product stripeObject
	if err := s.post(ctx, "/v1/products", productForm, &product); err != nil {
		return nil, err
	}

	var price stripeObject
	if err := s.post(ctx, "/v1/prices", url.Values{
		"product":     {product.ID},
		"unit_amount": {strconv.FormatInt(centsOf(req.Amount), 10)},
		"currency":    {currency},
	}, &price); err != nil {
		return nil, err
	}

	form := url.Values{
		"line_items[0][price]":    {price.ID},
		"line_items[0][quantity]": {"1"},
		"metadata[order_id]":      {req.OrderID},
		"metadata[order_number]":  {req.OrderNumber},
	}
	if req.ReturnURL != "" {
		form.Set("after_completion[type]", "redirect")
		form.Set("after_completion[redirect][url]", req.ReturnURL)
	}
	var link stripeObject
	if err := s.post(ctx, "/v1/payment_links", form, &link); err != nil {
		return nil, err
	}
	if link.ID == "" || link.URL == "" {
		return nil, newError(KindInvalidResponse, GatewayStripe, nil, "payment link response missing id or url")
	}

	return &Result{
		Success:     true,
		Gateway:     GatewayStripe,
		PaymentID:   link.ID,
		CheckoutURL: link.URL,
		Status:      StatusPending,
		RawStatus:   "created",
		Amount:      req.Amount,
		Currency:    strings.ToUpper(currency),
	}, nil
}

type stripeSessionList struct {
	Data []struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
		AmountTotal   int64  `json:"amount_total"`
		Currency      string `json:"currency"`
	} `json:"data"`
}

// QueryPayment 以 payment link 查 checkout session，任一 session 已付款即為 paid
func (s *StripeGateway) QueryPayment(ctx context.Context, paymentID string) (*Result, error) {
	req, err := s.newRequest(http.MethodGet, "/v1/checkout/sessions?payment_link="+url.QueryEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	var list stripeSessionList
	if err := doJSON(ctx, s.client, GatewayStripe, req, &list); err != nil {
		return nil, err
	}

	res := &Result{
		Success:   true,
		Gateway:   GatewayStripe,
		PaymentID: paymentID,
		Status:    StatusPending,
		RawStatus: "open",
	}
	for _, sess := range list.Data {
		if sess.PaymentStatus == "paid" {
			res.Status = StatusPaid
			res.RawStatus = sess.PaymentStatus
			res.Amount = float64(sess.AmountTotal) / 100
			res.Currency = strings.ToUpper(sess.Currency)
			return res, nil
		}
		if sess.Status == "expired" {
			res.Status = StatusExpired
			res.RawStatus = sess.Status
		}
	}
	return res, nil
}
