package model

import "time"

type OrderStatus string

const (
	OrderStatusPending              OrderStatus = "pending"
	OrderStatusProcessing           OrderStatus = "processing"
	OrderStatusShipped              OrderStatus = "shipped"
	OrderStatusDelivered            OrderStatus = "delivered"
	OrderStatusCancelled            OrderStatus = "cancelled"
	OrderStatusPendingPaymentFailed OrderStatus = "pending_payment_failed"
)

func IsValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusPendingPaymentFailed:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusAwaitingManual PaymentStatus = "awaiting_manual"
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusPaid           PaymentStatus = "paid"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusExpired        PaymentStatus = "expired"
	PaymentStatusCancelled      PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodManual  PaymentMethod = "manual"
	PaymentMethodStripe  PaymentMethod = "stripe"
	PaymentMethodPaypal  PaymentMethod = "paypal"
	PaymentMethodPlisio  PaymentMethod = "plisio"
	PaymentMethodBinance PaymentMethod = "binance"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodManual, PaymentMethodStripe, PaymentMethodPaypal, PaymentMethodPlisio, PaymentMethodBinance,
}

func IsValidPaymentMethod(s string) bool {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return true
		}
	}
	return false
}

// IsCrypto 加密貨幣付款享有折扣
func (m PaymentMethod) IsCrypto() bool {
	return m == PaymentMethodPlisio || m == PaymentMethodBinance
}

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

type Address struct {
	FullName   string `bson:"full_name" json:"full_name"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

type PaymentError struct {
	Kind    string `bson:"kind" json:"kind"`
	Message string `bson:"message" json:"message"`
}

type Order struct {
	ID             string        `bson:"_id" json:"id"`
	OrderNumber    string        `bson:"order_number" json:"order_number"`
	UserID         string        `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserEmail      string        `bson:"user_email" json:"user_email"`
	UserName       string        `bson:"user_name" json:"user_name"`
	Phone          string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Items          []OrderItem   `bson:"items" json:"items"`
	ShippingAddr   Address       `bson:"shipping_address" json:"shipping_address"`
	ShippingMethod string        `bson:"shipping_method" json:"shipping_method"`
	ShippingCost   float64       `bson:"shipping_cost" json:"shipping_cost"`
	PaymentMethod  PaymentMethod `bson:"payment_method" json:"payment_method"`
	CouponCode     string        `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	Subtotal       float64       `bson:"subtotal" json:"subtotal"`
	DiscountAmount float64       `bson:"discount_amount" json:"discount_amount"`
	CryptoDiscount float64       `bson:"crypto_discount" json:"crypto_discount"`
	Total          float64       `bson:"total" json:"total"`
	Currency       string        `bson:"currency" json:"currency"`
	Status         OrderStatus   `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	PaymentError   *PaymentError `bson:"payment_error,omitempty" json:"payment_error,omitempty"`

	// 金流對應欄位，只有選擇的 gateway 會有值
	StripePaymentID    *string `bson:"stripe_payment_id,omitempty" json:"stripe_payment_id"`
	StripePaymentURL   *string `bson:"stripe_payment_url,omitempty" json:"stripe_payment_url"`
	PaypalOrderID      *string `bson:"paypal_order_id,omitempty" json:"paypal_order_id"`
	PaypalApprovalURL  *string `bson:"paypal_approval_url,omitempty" json:"paypal_approval_url"`
	PlisioInvoiceID    *string `bson:"plisio_invoice_id,omitempty" json:"plisio_invoice_id"`
	PlisioInvoiceURL   *string `bson:"plisio_invoice_url,omitempty" json:"plisio_invoice_url"`
	BinancePrepayID    *string `bson:"binance_prepay_id,omitempty" json:"binance_prepay_id"`
	BinanceCheckoutURL *string `bson:"binance_checkout_url,omitempty" json:"binance_checkout_url"`

	TrackingNumber   string     `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	TrackingCarrier  string     `bson:"tracking_carrier,omitempty" json:"tracking_carrier,omitempty"`
	Notes            string     `bson:"notes,omitempty" json:"notes,omitempty"`
	InventoryApplied bool       `bson:"inventory_applied" json:"-"`
	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	ShippedAt        *time.Time `bson:"shipped_at,omitempty" json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// PaymentReference 回傳目前 gateway 的付款編號與付款連結
func (o *Order) PaymentReference() (id string, url string) {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	switch o.PaymentMethod {
	case PaymentMethodStripe:
		return deref(o.StripePaymentID), deref(o.StripePaymentURL)
	case PaymentMethodPaypal:
		return deref(o.PaypalOrderID), deref(o.PaypalApprovalURL)
	case PaymentMethodPlisio:
		return deref(o.PlisioInvoiceID), deref(o.PlisioInvoiceURL)
	case PaymentMethodBinance:
		return deref(o.BinancePrepayID), deref(o.BinanceCheckoutURL)
	}
	return "", ""
}

// SetPaymentReference 只寫入 PaymentMethod 對應的欄位，其他 gateway 欄位清空
func (o *Order) SetPaymentReference(id, url string) {
	o.ClearPaymentReferences()
	pid, purl := &id, &url
	switch o.PaymentMethod {
	case PaymentMethodStripe:
		o.StripePaymentID, o.StripePaymentURL = pid, purl
	case PaymentMethodPaypal:
		o.PaypalOrderID, o.PaypalApprovalURL = pid, purl
	case PaymentMethodPlisio:
		o.PlisioInvoiceID, o.PlisioInvoiceURL = pid, purl
	case PaymentMethodBinance:
		o.BinancePrepayID, o.BinanceCheckoutURL = pid, purl
	}
}

func (o *Order) ClearPaymentReferences() {
	o.StripePaymentID, o.StripePaymentURL = nil, nil
	o.PaypalOrderID, o.PaypalApprovalURL = nil, nil
	o.PlisioInvoiceID, o.PlisioInvoiceURL = nil, nil
	o.BinancePrepayID, o.BinanceCheckoutURL = nil, nil
}

type OrderFilter struct {
	Status    string
	UserID    string
	UserEmail string
	Paging
}
