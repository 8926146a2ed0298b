package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetPaymentReferenceOnlyChosenGateway(t *testing.T) {
	o := &Order{PaymentMethod: PaymentMethodPlisio}
	o.SetPaymentReference("txn_1", "https://plisio.net/invoice/txn_1")

	require.NotNil(t, o.PlisioInvoiceID)
	require.Equal(t, "txn_1", *o.PlisioInvoiceID)
	require.Nil(t, o.StripePaymentID)
	require.Nil(t, o.PaypalOrderID)
	require.Nil(t, o.BinancePrepayID)

	id, url := o.PaymentReference()
	require.Equal(t, "txn_1", id)
	require.Equal(t, "https://plisio.net/invoice/txn_1", url)
}

func TestOrderJSONKeepsNullGatewayFields(t *testing.T) {
	o := &Order{ID: "o1", PaymentMethod: PaymentMethodStripe}
	o.SetPaymentReference("plink_1", "https://buy.stripe.com/x")

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Equal(t, "plink_1", m["stripe_payment_id"])
	v, ok := m["plisio_invoice_id"]
	require.True(t, ok)
	require.Nil(t, v)
}

func TestManualOrderHasNoReference(t *testing.T) {
	o := &Order{PaymentMethod: PaymentMethodManual}
	o.SetPaymentReference("x", "y")
	id, url := o.PaymentReference()
	require.Empty(t, id)
	require.Empty(t, url)
}

func TestCouponExhausted(t *testing.T) {
	require.False(t, (&Coupon{MaxUses: 0, UsesCount: 1000}).Exhausted())
	require.False(t, (&Coupon{MaxUses: 5, UsesCount: 4}).Exhausted())
	require.True(t, (&Coupon{MaxUses: 5, UsesCount: 5}).Exhausted())
}

func TestPaging(t *testing.T) {
	p := NewPaging(0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, 0, p.Skip())
	require.Equal(t, 40, NewPaging(3, 20).Skip())
	require.Equal(t, 100, NewPaging(1, 500).Limit)
}
