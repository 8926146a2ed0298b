package dto

import (
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CheckoutItemDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type AddressDTO struct {
	FullName   string `json:"full_name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CheckoutDTO struct {
	Email           string            `json:"email" validate:"required,email"`
	Name            string            `json:"name" validate:"required"`
	Phone           string            `json:"phone"`
	Items           []CheckoutItemDTO `json:"items" validate:"required,min=1,dive"`
	ShippingAddress AddressDTO        `json:"shipping_address"`
	ShippingMethod  string            `json:"shipping_method" validate:"omitempty,oneof=standard express"`
	PaymentMethod   string            `json:"payment_method" validate:"required,oneof=manual stripe paypal plisio binance"`
	CouponCode      string            `json:"coupon_code"`
	Notes           string            `json:"notes" validate:"max=1000"`
}

// ToInput userID 由 token 取得，訪客結帳為空字串
func (d CheckoutDTO) ToInput(userID string) service.CheckoutInput {
	items := make([]service.CheckoutItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, service.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return service.CheckoutInput{
		UserID: userID,
		Email:  d.Email,
		Name:   d.Name,
		Phone:  d.Phone,
		Items:  items,
		ShippingAddress: model.Address{
			FullName:   d.ShippingAddress.FullName,
			Line1:      d.ShippingAddress.Line1,
			Line2:      d.ShippingAddress.Line2,
			City:       d.ShippingAddress.City,
			State:      d.ShippingAddress.State,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		ShippingMethod: model.ShippingMethod(d.ShippingMethod),
		PaymentMethod:  model.PaymentMethod(d.PaymentMethod),
		CouponCode:     d.CouponCode,
		Notes:          d.Notes,
	}
}

// TrackingDTO 也接受 query string tracking_number / tracking_carrier
type TrackingDTO struct {
	TrackingNumber  string `json:"tracking_number" validate:"required,max=100"`
	TrackingCarrier string `json:"tracking_carrier" validate:"max=50"`
}

type OrderStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// CheckoutResponse 付款連結由 order 的 gateway 欄位取出，方便前端直接轉址
type CheckoutResponse struct {
	Order       *model.Order `json:"order"`
	CheckoutURL string       `json:"checkout_url,omitempty"`
}

func NewCheckoutResponse(order *model.Order) CheckoutResponse {
	_, url := order.PaymentReference()
	return CheckoutResponse{Order: order, CheckoutURL: url}
}
