package service

import (
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCouponDiscount(t *testing.T) {
	testCases := []struct {
		name      string
		coupon    model.Coupon
		cartTotal float64
		want      float64
	}{
		{"percentage", model.Coupon{DiscountType: model.DiscountTypePercentage, DiscountValue: 10}, 200, 20},
		{"percentage rounds", model.Coupon{DiscountType: model.DiscountTypePercentage, DiscountValue: 15}, 33.33, 5},
		{"percentage clamped", model.Coupon{DiscountType: model.DiscountTypePercentage, DiscountValue: 150}, 40, 40},
		{"fixed", model.Coupon{DiscountType: model.DiscountTypeFixed, DiscountValue: 25}, 100, 25},
		{"fixed above total", model.Coupon{DiscountType: model.DiscountTypeFixed, DiscountValue: 25}, 10, 10},
		{"empty cart", model.Coupon{DiscountType: model.DiscountTypeFixed, DiscountValue: 25}, 0, 0},
		{"unknown type", model.Coupon{DiscountType: "bogus", DiscountValue: 25}, 100, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CouponDiscount(&tc.coupon, tc.cartTotal))
		})
	}
}

func TestShippingCost(t *testing.T) {
	settings := model.DefaultStoreSettings()

	require.Equal(t, 5.99, ShippingCost(&settings, model.ShippingStandard, 99.99))
	require.Equal(t, 0.0, ShippingCost(&settings, model.ShippingStandard, 100))
	require.Equal(t, 14.99, ShippingCost(&settings, model.ShippingExpress, 500))

	settings.FreeShippingThreshold = 0
	require.Equal(t, 5.99, ShippingCost(&settings, model.ShippingStandard, 1000))
}

func TestCalculateQuote(t *testing.T) {
	items := []model.OrderItem{
		{ProductID: "p1", Price: 19.99, Quantity: 2},
		{ProductID: "p2", Price: 10, Quantity: 1},
	}

	t.Run("card payment", func(t *testing.T) {
		q := CalculateQuote(items, 5, model.PaymentMethodStripe, 5.99)
		require.Equal(t, 49.98, q.Subtotal)
		require.Equal(t, 5.0, q.DiscountAmount)
		require.Equal(t, 0.0, q.CryptoDiscount)
		require.Equal(t, 50.97, q.Total)
	})

	t.Run("crypto discount applies after coupon", func(t *testing.T) {
		q := CalculateQuote(items, 5, model.PaymentMethodPlisio, 5.99)
		// (49.98 - 5) * 0.15 = 6.747
		require.Equal(t, 6.75, q.CryptoDiscount)
		require.Equal(t, 44.22, q.Total)
	})

	t.Run("discount larger than subtotal", func(t *testing.T) {
		q := CalculateQuote(items, 100, model.PaymentMethodBinance, 0)
		require.Equal(t, 49.98, q.DiscountAmount)
		require.Equal(t, 0.0, q.CryptoDiscount)
		require.Equal(t, 0.0, q.Total)
	})
}
