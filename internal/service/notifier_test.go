package service

import (
	"context"
	"errors"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/mail"
	mock_mail "github.com/RoyceAzure/lab/storefront/internal/infra/mail/mock"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func testOrder(method model.PaymentMethod) *model.Order {
	o := &model.Order{
		ID:            "order-1",
		OrderNumber:   "ORD-20260314-ABC123",
		UserEmail:     "buyer@example.com",
		UserName:      "Buyer",
		PaymentMethod: method,
		Currency:      "USD",
		Items:         []model.OrderItem{{ProductID: "p1", Name: "Cap <Limited>", Price: 20, Quantity: 2}},
		Subtotal:      40,
		Total:         45.99,
		ShippingCost:  5.99,
		Status:        model.OrderStatusPending,
	}
	return o
}

func TestOrderConfirmationPaymentInstructions(t *testing.T) {
	ctx := context.Background()
	store := memdb.NewStore()
	settings := model.DefaultStoreSettings()
	settings.BankInstructions = "IBAN TW00 1234"
	require.NoError(t, store.UpsertStoreSettings(ctx, &settings))

	testCases := []struct {
		name     string
		order    func() *model.Order
		contains []string
	}{
		{
			name:     "manual",
			order:    func() *model.Order { return testOrder(model.PaymentMethodManual) },
			contains: []string{"IBAN TW00 1234", "ORD-20260314-ABC123"},
		},
		{
			name: "stripe",
			order: func() *model.Order {
				o := testOrder(model.PaymentMethodStripe)
				o.SetPaymentReference("plink_1", "https://buy.stripe.com/plink_1")
				return o
			},
			contains: []string{"https://buy.stripe.com/plink_1", "Pay with card"},
		},
		{
			name: "payment failed",
			order: func() *model.Order {
				o := testOrder(model.PaymentMethodPaypal)
				o.Status = model.OrderStatusPendingPaymentFailed
				o.PaymentStatus = model.PaymentStatusFailed
				return o
			},
			contains: []string{"retry the payment", "https://shop.example.com/orders/order-1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sender := mock_mail.NewMockSender(ctrl)
			n := NewNotifier(sender, store, nil, "https://shop.example.com/", nil)

			sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
				require.Equal(t, []string{"buyer@example.com"}, msg.To)
				require.Contains(t, msg.Subject, "ORD-20260314-ABC123")
				require.Contains(t, msg.HTML, "Cap &lt;Limited&gt;")
				for _, s := range tc.contains {
					require.Contains(t, msg.HTML, s)
				}
				return nil
			}).Times(1)

			require.NoError(t, n.SendOrderConfirmation(ctx, tc.order()))
		})
	}
}

func TestAdminNotificationContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sender := mock_mail.NewMockSender(ctrl)
	admins := []string{"a@example.com", "b@example.com", "c@example.com"}
	n := NewNotifier(sender, memdb.NewStore(), admins, "https://shop.example.com", nil)

	sendErr := &mail.SendError{Kind: mail.KindRejected, To: []string{"b@example.com"}, Err: errors.New("550 mailbox unavailable")}
	var got []string
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
		got = append(got, msg.To[0])
		if msg.To[0] == "b@example.com" {
			return sendErr
		}
		return nil
	}).Times(3)

	err := n.SendAdminNewOrderNotification(ctx, testOrder(model.PaymentMethodManual))
	require.Error(t, err)
	require.ErrorIs(t, err, sendErr)
	require.Equal(t, admins, got)
}

func TestPromotionalAllowsHTML(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sender := mock_mail.NewMockSender(ctrl)
	n := NewNotifier(sender, memdb.NewStore(), nil, "https://shop.example.com", nil)

	sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg mail.Message) error {
		require.Equal(t, "Spring sale", msg.Subject)
		require.Contains(t, msg.HTML, "<b>20% off</b>")
		return nil
	}).Times(1)

	require.NoError(t, n.SendPromotional(ctx, "c@example.com", "Spring sale", "<b>20% off</b>"))
}
