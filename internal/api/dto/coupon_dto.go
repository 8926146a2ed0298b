package dto

import (
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
)

type CouponItemDTO struct {
	ProductID string  `json:"product_id"`
	Category  string  `json:"category"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
}

// ValidateCouponDTO 也接受 query string code / cart_total
type ValidateCouponDTO struct {
	Code      string          `json:"code" validate:"required"`
	CartTotal float64         `json:"cart_total" validate:"gte=0"`
	Items     []CouponItemDTO `json:"items" validate:"dive"`
}

func (d ValidateCouponDTO) OrderItems() []model.OrderItem {
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return items
}

type CouponDTO struct {
	Code                 string     `json:"code" validate:"required,max=50"`
	Description          string     `json:"description"`
	DiscountType         string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue        float64    `json:"discount_value" validate:"gt=0"`
	MinimumPurchase      float64    `json:"minimum_purchase" validate:"gte=0"`
	MaxUses              int        `json:"max_uses" validate:"gte=0"`
	Active               *bool      `json:"active"`
	ValidFrom            *time.Time `json:"valid_from"`
	ValidUntil           *time.Time `json:"valid_until"`
	ApplicableCategories []string   `json:"applicable_categories"`
	ApplicableProducts   []string   `json:"applicable_products"`
}

func (d CouponDTO) ToModel(id string) *model.Coupon {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return &model.Coupon{
		ID:                   id,
		Code:                 d.Code,
		Description:          d.Description,
		DiscountType:         model.DiscountType(d.DiscountType),
		DiscountValue:        d.DiscountValue,
		MinimumPurchase:      d.MinimumPurchase,
		MaxUses:              d.MaxUses,
		Active:               active,
		ValidFrom:            d.ValidFrom,
		ValidUntil:           d.ValidUntil,
		ApplicableCategories: d.ApplicableCategories,
		ApplicableProducts:   d.ApplicableProducts,
	}
}
