package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

/*
SandboxGateway 憑證未設定時的替身
回傳與正式 gateway 同樣形狀的結果，不連外
*/
type SandboxGateway struct {
	name        string
	frontendURL string
}

func NewSandboxGateway(name, frontendURL string) *SandboxGateway {
	return &SandboxGateway{
		name:        name,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *SandboxGateway) Name() string { return s.name }

func (s *SandboxGateway) Mode() Mode { return ModeSandbox }

func (s *SandboxGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error) {
	paymentID := fmt.Sprintf("demo_%s_%s", s.name, req.OrderID)
	q := url.Values{
		"gateway":      {s.name},
		"order_id":     {req.OrderID},
		"order_number": {req.OrderNumber},
		"amount":       {amountString(req.Amount)},
		"payment_id":   {paymentID},
	}
	return &Result{
		Success:     true,
		Gateway:     s.name,
		PaymentID:   paymentID,
		CheckoutURL: s.frontendURL + "/payment/demo?" + q.Encode(),
		Status:      StatusPending,
		RawStatus:   "demo_created",
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
	}, nil
}

// QueryPayment sandbox 一律視為已付款
func (s *SandboxGateway) QueryPayment(ctx context.Context, paymentID string) (*Result, error) {
	return &Result{
		Success:   true,
		Gateway:   s.name,
		PaymentID: paymentID,
		Status:    StatusPaid,
		RawStatus: "demo_paid",
	}, nil
}
