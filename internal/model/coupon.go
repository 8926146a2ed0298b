package model

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID                   string       `bson:"_id" json:"id"`
	Code                 string       `bson:"code" json:"code"`
	Description          string       `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType         DiscountType `bson:"discount_type" json:"discount_type"`
	DiscountValue        float64      `bson:"discount_value" json:"discount_value"`
	MinimumPurchase      float64      `bson:"minimum_purchase" json:"minimum_purchase"`
	MaxUses              int          `bson:"max_uses" json:"max_uses"`
	UsesCount            int          `bson:"uses_count" json:"uses_count"`
	Active               bool         `bson:"active" json:"active"`
	ValidFrom            *time.Time   `bson:"valid_from,omitempty" json:"valid_from,omitempty"`
	ValidUntil           *time.Time   `bson:"valid_until,omitempty" json:"valid_until,omitempty"`
	ApplicableCategories []string     `bson:"applicable_categories" json:"applicable_categories"`
	ApplicableProducts   []string     `bson:"applicable_products" json:"applicable_products"`
	CreatedAt            time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `bson:"updated_at" json:"updated_at"`
}

// Exhausted max_uses 為 0 代表不限次數
func (c *Coupon) Exhausted() bool {
	return c.MaxUses > 0 && c.UsesCount >= c.MaxUses
}

func (c *Coupon) Scoped() bool {
	return len(c.ApplicableCategories) > 0 || len(c.ApplicableProducts) > 0
}
