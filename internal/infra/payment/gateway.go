package payment

import (
	"context"
	"sort"
)

type Mode string

const (
	ModeLive    Mode = "live"
	ModeSandbox Mode = "sandbox"
)

// Status 各家 gateway 狀態統一後的結果
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

const (
	GatewayStripe  = "stripe"
	GatewayPaypal  = "paypal"
	GatewayPlisio  = "plisio"
	GatewayBinance = "binance"
)

type CreatePaymentRequest struct {
	OrderID       string
	OrderNumber   string
	Amount        float64
	Currency      string
	Description   string
	CustomerEmail string
	ReturnURL     string
	CancelURL     string
}

type Result struct {
	Success     bool
	Gateway     string
	PaymentID   string
	CheckoutURL string
	Status      Status
	RawStatus   string
	Amount      float64
	Currency    string
}

/*
Gateway 外部金流介面
實作不重試，錯誤一律回傳 *Error
*/
type Gateway interface {
	Name() string
	Mode() Mode
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Result, error)
	QueryPayment(ctx context.Context, paymentID string) (*Result, error)
}

// Registry 啟動時建立一次，之後唯讀
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		if g == nil {
			continue
		}
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *Registry) Get(name string) (Gateway, bool) {
	g, ok := r.gateways[name]
	return g, ok
}

// Modes gateway 名稱對應 live/sandbox
func (r *Registry) Modes() map[string]Mode {
	res := make(map[string]Mode, len(r.gateways))
	for name, g := range r.gateways {
		res[name] = g.Mode()
	}
	return res
}

func (r *Registry) Names() []string {
	res := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
