package service

import (
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/shopspring/decimal"
)

var cryptoDiscountRate = decimal.RequireFromString(constants.CryptoDiscountRate)

// Quote 結帳金額明細，皆已四捨五入到小數兩位
type Quote struct {
	Subtotal       float64
	DiscountAmount float64
	CryptoDiscount float64
	ShippingCost   float64
	Total          float64
}

func itemsSubtotal(items []model.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// CouponDiscount 百分比折扣不超過 cartTotal，固定折扣取 min(value, cartTotal)
func CouponDiscount(c *model.Coupon, cartTotal float64) float64 {
	total := decimal.NewFromFloat(cartTotal)
	if total.IsNegative() || total.IsZero() {
		return 0
	}
	value := decimal.NewFromFloat(c.DiscountValue)

	var discount decimal.Decimal
	switch c.DiscountType {
	case model.DiscountTypePercentage:
		discount = total.Mul(value).Div(decimal.NewFromInt(100))
	case model.DiscountTypeFixed:
		discount = value
	default:
		return 0
	}
	if discount.IsNegative() {
		return 0
	}
	if discount.GreaterThan(total) {
		discount = total
	}
	return discount.Round(2).InexactFloat64()
}

// ShippingCost 標準運費在折扣後金額達門檻時免運
func ShippingCost(settings *model.StoreSettings, method model.ShippingMethod, afterDiscount float64) float64 {
	switch method {
	case model.ShippingExpress:
		return decimal.NewFromFloat(settings.ExpressShippingCost).Round(2).InexactFloat64()
	default:
		if settings.FreeShippingThreshold > 0 && afterDiscount >= settings.FreeShippingThreshold {
			return 0
		}
		return decimal.NewFromFloat(settings.StandardShippingCost).Round(2).InexactFloat64()
	}
}

/*
CalculateQuote
subtotal = Σ price×qty
running = subtotal − discount
crypto = round(running × 0.15, 2)，只有加密貨幣付款
total = max(0, running − crypto + shipping)
*/
func CalculateQuote(items []model.OrderItem, discount float64, method model.PaymentMethod, shipping float64) Quote {
	subtotal := itemsSubtotal(items).Round(2)
	disc := decimal.NewFromFloat(discount).Round(2)
	if disc.GreaterThan(subtotal) {
		disc = subtotal
	}
	running := subtotal.Sub(disc)

	crypto := decimal.Zero
	if method.IsCrypto() {
		crypto = running.Mul(cryptoDiscountRate).Round(2)
	}
	ship := decimal.NewFromFloat(shipping).Round(2)

	total := running.Sub(crypto).Add(ship)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal:       subtotal.InexactFloat64(),
		DiscountAmount: disc.InexactFloat64(),
		CryptoDiscount: crypto.InexactFloat64(),
		ShippingCost:   ship.InexactFloat64(),
		Total:          total.Round(2).InexactFloat64(),
	}
}
