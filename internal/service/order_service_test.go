package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	mock_payment "github.com/RoyceAzure/lab/storefront/internal/infra/payment/mock"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	mock_producer "github.com/RoyceAzure/lab/storefront/internal/infra/producer/mock"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	mock_service "github.com/RoyceAzure/lab/storefront/internal/service/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{6}$`)

type orderFixture struct {
	svc       *OrderService
	store     *memdb.Store
	coupons   *CouponService
	settings  *SettingsService
	notifier  *mock_service.MockINotifier
	publisher *mock_producer.MockOrderEventPublisher
	gateway   *mock_payment.MockGateway
	now       time.Time
}

// newOrderFixture 背景工作改為同步執行，gateway 以 gatewayName 註冊
func newOrderFixture(t *testing.T, gatewayName string) *orderFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &orderFixture{
		store:     memdb.NewStore(),
		notifier:  mock_service.NewMockINotifier(ctrl),
		publisher: mock_producer.NewMockOrderEventPublisher(ctrl),
		gateway:   mock_payment.NewMockGateway(ctrl),
		now:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	f.gateway.EXPECT().Name().Return(gatewayName).AnyTimes()
	f.gateway.EXPECT().Mode().Return(payment.ModeLive).AnyTimes()

	registry := payment.NewRegistry(f.gateway)
	f.coupons = NewCouponService(f.store)
	f.settings = NewSettingsService(f.store, registry.Modes())
	f.svc = NewOrderService(
		f.store, f.store, f.settings, f.coupons, registry, f.notifier, f.publisher,
		"https://shop.example.com/", nil,
		WithAsyncRunner(func(fn func()) { fn() }),
		WithOrderClock(func() time.Time { return f.now }),
		WithStripeWebhookSecret(testWebhookSecret),
	)

	ctx := context.Background()
	require.NoError(t, f.store.CreateProduct(ctx, &model.Product{ID: "p1", Name: "Cap", Price: 20, Stock: 10, Category: "hats", Active: true, Images: []string{"cap.png"}}))
	require.NoError(t, f.store.CreateProduct(ctx, &model.Product{ID: "p2", Name: "Sneaker", Price: 35, Stock: 2, Category: "shoes", Active: true}))
	require.NoError(t, f.store.CreateProduct(ctx, &model.Product{ID: "p3", Name: "Retired", Price: 5, Stock: 50, Active: false}))
	return f
}

func (f *orderFixture) allowNotifications() {
	f.notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendAdminNewOrderNotification(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendPaymentConfirmation(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendShipmentNotification(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func checkoutInput(method model.PaymentMethod, items ...CheckoutItem) CheckoutInput {
	return CheckoutInput{
		Email: "Buyer@Example.com",
		Name:  "Buyer",
		Items: items,
		ShippingAddress: model.Address{
			FullName:   "Buyer",
			Line1:      "1 Main St",
			City:       "Taipei",
			PostalCode: "100",
			Country:    "TW",
		},
		ShippingMethod: model.ShippingStandard,
		PaymentMethod:  method,
	}
}

func TestCheckoutManual(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	ctx := context.Background()

	f.notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().SendAdminNewOrderNotification(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev producer.OrderEvent) error {
		require.Equal(t, producer.EventOrderCreated, ev.Type)
		require.Equal(t, string(model.OrderStatusPending), ev.Status)
		return nil
	}).Times(1)

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual,
		CheckoutItem{ProductID: "p1", Quantity: 2},
		CheckoutItem{ProductID: "p2", Quantity: 1},
	))
	require.NoError(t, err)
	require.Regexp(t, orderNumberPattern, order.OrderNumber)
	require.Contains(t, order.OrderNumber, "20260314")
	require.Equal(t, "buyer@example.com", order.UserEmail)
	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Equal(t, model.PaymentStatusAwaitingManual, order.PaymentStatus)
	require.Equal(t, 75.0, order.Subtotal)
	require.Equal(t, 5.99, order.ShippingCost)
	require.Equal(t, 80.99, order.Total)
	require.Equal(t, "USD", order.Currency)
	require.Len(t, order.Items, 2)
	require.Equal(t, "Cap", order.Items[0].Name)
	require.Equal(t, "cap.png", order.Items[0].Image)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.Total, stored.Total)
	id, url := stored.PaymentReference()
	require.Empty(t, id)
	require.Empty(t, url)
}

func TestCheckoutMergesDuplicateItems(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()

	order, err := f.svc.Checkout(context.Background(), checkoutInput(model.PaymentMethodManual,
		CheckoutItem{ProductID: "p1", Quantity: 1},
		CheckoutItem{ProductID: "p1", Quantity: 3},
	))
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.Equal(t, 4, order.Items[0].Quantity)
}

func TestCheckoutValidation(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	_, err := f.settings.UpdatePaymentGateway(ctx, string(model.PaymentMethodPaypal), PaymentGatewayUpdate{Enabled: new(bool)})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		modify func(in *CheckoutInput)
	}{
		{"no items", func(in *CheckoutInput) { in.Items = nil }},
		{"zero quantity", func(in *CheckoutInput) { in.Items = []CheckoutItem{{ProductID: "p1"}} }},
		{"bad email", func(in *CheckoutInput) { in.Email = "not-an-email" }},
		{"missing address", func(in *CheckoutInput) { in.ShippingAddress.Line1 = "" }},
		{"unknown shipping", func(in *CheckoutInput) { in.ShippingMethod = "drone" }},
		{"unknown payment", func(in *CheckoutInput) { in.PaymentMethod = "cash" }},
		{"disabled payment", func(in *CheckoutInput) { in.PaymentMethod = model.PaymentMethodPaypal }},
		{"unknown product", func(in *CheckoutInput) { in.Items = []CheckoutItem{{ProductID: "nope", Quantity: 1}} }},
		{"inactive product", func(in *CheckoutInput) { in.Items = []CheckoutItem{{ProductID: "p3", Quantity: 1}} }},
		{"insufficient stock", func(in *CheckoutInput) { in.Items = []CheckoutItem{{ProductID: "p2", Quantity: 3}} }},
		{"invalid coupon", func(in *CheckoutInput) { in.CouponCode = "MISSING" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1})
			tc.modify(&in)
			_, err := f.svc.Checkout(ctx, in)
			require.Error(t, err)
			require.Equal(t, er.BadRequestCode, er.CodeOf(err))
		})
	}

	_, total, err := f.svc.ListOrders(ctx, model.OrderFilter{})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestCheckoutStripeSuccess(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.CreatePaymentRequest) (*payment.Result, error) {
		require.Equal(t, 100.99, req.Amount)
		require.Equal(t, "USD", req.Currency)
		require.Equal(t, "buyer@example.com", req.CustomerEmail)
		require.Equal(t, fmt.Sprintf("https://shop.example.com/orders/%s?payment=success", req.OrderID), req.ReturnURL)
		return &payment.Result{Success: true, Gateway: payment.GatewayStripe, PaymentID: "plink_123", CheckoutURL: "https://buy.stripe.com/test", Status: payment.StatusPending}, nil
	}).Times(1)

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodStripe,
		CheckoutItem{ProductID: "p1", Quantity: 3},
		CheckoutItem{ProductID: "p2", Quantity: 1},
	))
	require.NoError(t, err)
	// 95 未達免運門檻
	require.Equal(t, 100.99, order.Total)
	require.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	require.Equal(t, "plink_123", *order.StripePaymentID)
	require.Equal(t, "https://buy.stripe.com/test", *order.StripePaymentURL)
	require.Nil(t, order.PaypalOrderID)
	require.Nil(t, order.PaymentError)

	stored, err := f.store.FindOrderByPaymentRef(ctx, model.PaymentMethodStripe, "plink_123")
	require.NoError(t, err)
	require.Equal(t, order.ID, stored.ID)
}

func TestCheckoutGatewayFailureThenRetry(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayPaypal)
	f.notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.notifier.EXPECT().SendAdminNewOrderNotification(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	ctx := context.Background()

	var events []producer.EventType
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev producer.OrderEvent) error {
		events = append(events, ev.Type)
		return nil
	}).AnyTimes()

	gomock.InOrder(
		f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil, &payment.Error{
			Kind:    payment.KindUnreachable,
			Gateway: payment.GatewayPaypal,
			Message: "dial tcp: connection refused",
		}),
		f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(&payment.Result{
			Success:     true,
			PaymentID:   "PAYPAL-1",
			CheckoutURL: "https://paypal.example/approve",
			Status:      payment.StatusPending,
		}, nil),
	)

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodPaypal, CheckoutItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPendingPaymentFailed, order.Status)
	require.Equal(t, model.PaymentStatusFailed, order.PaymentStatus)
	require.NotNil(t, order.PaymentError)
	require.Equal(t, string(payment.KindUnreachable), order.PaymentError.Kind)
	require.Contains(t, order.PaymentError.Message, "connection refused")
	require.Equal(t, []producer.EventType{producer.EventOrderCreated, producer.EventOrderPaymentFailed}, events)

	retried, err := f.svc.RetryPayment(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, retried.Status)
	require.Equal(t, model.PaymentStatusPending, retried.PaymentStatus)
	require.Nil(t, retried.PaymentError)
	require.Equal(t, "PAYPAL-1", *retried.PaypalOrderID)

	// 已成功建立付款的訂單不可再重試
	_, err = f.svc.RetryPayment(ctx, order.ID)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = f.svc.RetryPayment(ctx, "missing")
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestCheckoutCryptoWithCoupon(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayPlisio)
	f.allowNotifications()
	ctx := context.Background()

	_, err := f.coupons.CreateCoupon(ctx, &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		Active:        true,
		MaxUses:       1,
	})
	require.NoError(t, err)

	f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req payment.CreatePaymentRequest) (*payment.Result, error) {
		require.Equal(t, 82.49, req.Amount)
		return &payment.Result{Success: true, PaymentID: "txn_1", CheckoutURL: "https://plisio.example/invoice/txn_1"}, nil
	}).Times(1)

	in := checkoutInput(model.PaymentMethodPlisio, CheckoutItem{ProductID: "p1", Quantity: 5})
	in.CouponCode = "SAVE10"
	order, err := f.svc.Checkout(ctx, in)
	require.NoError(t, err)
	require.Equal(t, 100.0, order.Subtotal)
	require.Equal(t, 10.0, order.DiscountAmount)
	// 折扣後 90 未達免運門檻
	require.Equal(t, 5.99, order.ShippingCost)
	require.Equal(t, 13.5, order.CryptoDiscount)
	require.Equal(t, 82.49, order.Total)
	require.Equal(t, "SAVE10", order.CouponCode)
	require.Equal(t, "txn_1", *order.PlisioInvoiceID)

	c, err := f.store.GetCouponByCode(ctx, "SAVE10")
	require.NoError(t, err)
	require.Equal(t, 1, c.UsesCount)

	// 使用次數已滿
	_, err = f.svc.Checkout(ctx, in)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}

// failingOrderStore 讓 CreateOrder 失敗，其餘沿用 memdb
type failingOrderStore struct {
	*memdb.Store
}

func (failingOrderStore) CreateOrder(context.Context, *model.Order) error {
	return errors.New("mongo write failed")
}

func TestCheckoutReleasesCouponWhenOrderWriteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memdb.NewStore()
	ctx := context.Background()
	require.NoError(t, store.CreateProduct(ctx, &model.Product{ID: "p1", Name: "Cap", Price: 20, Stock: 10, Category: "hats", Active: true}))

	coupons := NewCouponService(store)
	_, err := coupons.CreateCoupon(ctx, &model.Coupon{
		Code:          "ONCE",
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 5,
		Active:        true,
		MaxUses:       1,
	})
	require.NoError(t, err)

	registry := payment.NewRegistry()
	svc := NewOrderService(
		failingOrderStore{Store: store}, store, NewSettingsService(store, registry.Modes()), coupons, registry,
		mock_service.NewMockINotifier(ctrl), mock_producer.NewMockOrderEventPublisher(ctrl),
		"https://shop.example.com/", nil,
		WithAsyncRunner(func(fn func()) { fn() }),
	)

	in := checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1})
	in.CouponCode = "ONCE"
	_, err = svc.Checkout(ctx, in)
	require.Equal(t, er.InternalErrorCode, er.CodeOf(err))
	require.NotContains(t, err.Error(), "mongo write failed")

	c, err := store.GetCouponByCode(ctx, "ONCE")
	require.NoError(t, err)
	require.Equal(t, 0, c.UsesCount)

	v, err := coupons.Validate(ctx, "ONCE", 20, nil)
	require.NoError(t, err)
	require.True(t, v.Valid, v.Message)
}

func TestUpdateStatusAppliesInventoryOnce(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 2}))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID, "teleported")
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	for i := 0; i < 2; i++ {
		updated, err := f.svc.UpdateStatus(ctx, order.ID, string(model.OrderStatusProcessing))
		require.NoError(t, err)
		require.Equal(t, model.OrderStatusProcessing, updated.Status)
	}

	p, err := f.store.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 8, p.Stock)
	require.Equal(t, 2, p.SalesCount)

	delivered, err := f.svc.UpdateStatus(ctx, order.ID, string(model.OrderStatusDelivered))
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	// 不檢查狀態轉換
	back, err := f.svc.UpdateStatus(ctx, order.ID, string(model.OrderStatusPending))
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, back.Status)
}

func TestUpdateTracking(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendAdminNewOrderNotification(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendShipmentNotification(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *model.Order) error {
		require.Equal(t, "1Z999", o.TrackingNumber)
		return nil
	}).Times(1)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, err = f.svc.UpdateTracking(ctx, order.ID, "  ", "UPS")
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	shipped, err := f.svc.UpdateTracking(ctx, order.ID, "1Z999", "UPS")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusShipped, shipped.Status)
	require.Equal(t, "UPS", shipped.TrackingCarrier)
	require.NotNil(t, shipped.ShippedAt)
	require.True(t, shipped.ShippedAt.Equal(f.now))

	_, err = f.svc.UpdateTracking(ctx, "missing", "1Z999", "UPS")
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func createStripeOrder(t *testing.T, f *orderFixture, paymentID string) *model.Order {
	t.Helper()
	f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(&payment.Result{
		Success:     true,
		PaymentID:   paymentID,
		CheckoutURL: "https://buy.stripe.com/" + paymentID,
	}, nil).Times(1)
	order, err := f.svc.Checkout(context.Background(), checkoutInput(model.PaymentMethodStripe, CheckoutItem{ProductID: "p2", Quantity: 2}))
	require.NoError(t, err)
	return order
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.notifier.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendAdminNewOrderNotification(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().SendPaymentConfirmation(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	ctx := context.Background()

	order := createStripeOrder(t, f, "plink_a")
	for i := 0; i < 3; i++ {
		paid, err := f.svc.ConfirmPayment(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
		require.Equal(t, model.OrderStatusProcessing, paid.Status)
		require.NotNil(t, paid.PaidAt)
	}

	p, err := f.store.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)
	require.Equal(t, 2, p.SalesCount)
}

func TestVerifyPayment(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	t.Run("still pending", func(t *testing.T) {
		order := createStripeOrder(t, f, "plink_pending")
		f.gateway.EXPECT().QueryPayment(gomock.Any(), "plink_pending").Return(&payment.Result{Status: payment.StatusPending}, nil)

		res, err := f.svc.VerifyPayment(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
		require.Equal(t, model.OrderStatusPending, res.Status)
	})

	t.Run("paid", func(t *testing.T) {
		order := createStripeOrder(t, f, "plink_paid")
		f.gateway.EXPECT().QueryPayment(gomock.Any(), "plink_paid").Return(&payment.Result{Status: payment.StatusPaid}, nil)

		res, err := f.svc.VerifyPayment(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
		require.Equal(t, model.OrderStatusProcessing, res.Status)

		// 已付款不再查詢 gateway
		res, err = f.svc.VerifyPayment(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
	})

	t.Run("gateway error", func(t *testing.T) {
		require.NoError(t, f.store.IncrementProductCounters(ctx, "p2", model.ProductCounterDelta{Stock: 10}))
		order := createStripeOrder(t, f, "plink_err")
		f.gateway.EXPECT().QueryPayment(gomock.Any(), "plink_err").Return(nil, &payment.Error{Kind: payment.KindRejected, Gateway: "stripe", Message: "boom", StatusCode: 500})

		_, err := f.svc.VerifyPayment(ctx, order.ID)
		require.Equal(t, er.BadGatewayCode, er.CodeOf(err))
	})

	t.Run("manual", func(t *testing.T) {
		order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1}))
		require.NoError(t, err)
		_, err = f.svc.VerifyPayment(ctx, order.ID)
		require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	})
}

func signedStripePayload(t *testing.T, ts time.Time, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	sig := payment.ComputeStripeSignature(ts.Unix(), payload, testWebhookSecret)
	return payload, fmt.Sprintf("t=%d,v1=%s", ts.Unix(), sig)
}

func TestHandleStripeWebhook(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	t.Run("metadata order id", func(t *testing.T) {
		order := createStripeOrder(t, f, "plink_meta")
		payload, header := signedStripePayload(t, f.now, map[string]any{
			"id":   "evt_1",
			"type": payment.StripeEventCheckoutCompleted,
			"data": map[string]any{"object": map[string]any{
				"id":             "cs_1",
				"payment_status": payment.StripePaymentStatusPaid,
				"metadata":       map[string]string{"order_id": order.ID},
			}},
		})
		require.NoError(t, f.svc.HandleStripeWebhook(ctx, payload, header))

		stored, err := f.svc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
	})

	t.Run("payment link fallback", func(t *testing.T) {
		require.NoError(t, f.store.IncrementProductCounters(ctx, "p2", model.ProductCounterDelta{Stock: 10}))
		order := createStripeOrder(t, f, "plink_link")
		payload, header := signedStripePayload(t, f.now, map[string]any{
			"id":   "evt_2",
			"type": payment.StripeEventCheckoutCompleted,
			"data": map[string]any{"object": map[string]any{"id": "cs_2", "payment_link": "plink_link", "payment_status": "paid"}},
		})
		require.NoError(t, f.svc.HandleStripeWebhook(ctx, payload, header))

		stored, err := f.svc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
	})

	t.Run("completed but unpaid waits for async success", func(t *testing.T) {
		order := createStripeOrder(t, f, "plink_async")
		before, err := f.store.GetProductByID(ctx, "p2")
		require.NoError(t, err)

		payload, header := signedStripePayload(t, f.now, map[string]any{
			"id":   "evt_7",
			"type": payment.StripeEventCheckoutCompleted,
			"data": map[string]any{"object": map[string]any{
				"id":             "cs_7",
				"payment_status": "unpaid",
				"metadata":       map[string]string{"order_id": order.ID},
			}},
		})
		require.NoError(t, f.svc.HandleStripeWebhook(ctx, payload, header))

		stored, err := f.svc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.NotEqual(t, model.PaymentStatusPaid, stored.PaymentStatus)
		require.Equal(t, order.Status, stored.Status)
		p, err := f.store.GetProductByID(ctx, "p2")
		require.NoError(t, err)
		require.Equal(t, before.Stock, p.Stock)

		payload, header = signedStripePayload(t, f.now, map[string]any{
			"id":   "evt_8",
			"type": payment.StripeEventAsyncPaymentSucceeded,
			"data": map[string]any{"object": map[string]any{
				"id":             "cs_7",
				"payment_status": payment.StripePaymentStatusPaid,
				"metadata":       map[string]string{"order_id": order.ID},
			}},
		})
		require.NoError(t, f.svc.HandleStripeWebhook(ctx, payload, header))

		stored, err = f.svc.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
	})

	t.Run("other events ignored", func(t *testing.T) {
		payload, header := signedStripePayload(t, f.now, map[string]any{"id": "evt_3", "type": "charge.refunded"})
		require.NoError(t, f.svc.HandleStripeWebhook(ctx, payload, header))
	})

	t.Run("bad signature", func(t *testing.T) {
		payload, _ := signedStripePayload(t, f.now, map[string]any{"id": "evt_4", "type": payment.StripeEventCheckoutCompleted})
		err := f.svc.HandleStripeWebhook(ctx, payload, fmt.Sprintf("t=%d,v1=deadbeef", f.now.Unix()))
		require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		payload, header := signedStripePayload(t, f.now.Add(-time.Hour), map[string]any{"id": "evt_5", "type": payment.StripeEventCheckoutCompleted})
		err := f.svc.HandleStripeWebhook(ctx, payload, header)
		require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	})

	t.Run("unknown order", func(t *testing.T) {
		payload, header := signedStripePayload(t, f.now, map[string]any{
			"id":   "evt_6",
			"type": payment.StripeEventCheckoutCompleted,
			"data": map[string]any{"object": map[string]any{
				"payment_status": payment.StripePaymentStatusPaid,
				"metadata":       map[string]string{"order_id": "missing"},
			}},
		})
		err := f.svc.HandleStripeWebhook(ctx, payload, header)
		require.Equal(t, er.NotFoundCode, er.CodeOf(err))
	})
}

func TestSendInvoice(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)

	f.notifier.EXPECT().SendInvoice(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	require.NoError(t, f.svc.SendInvoice(ctx, order.ID))

	f.notifier.EXPECT().SendInvoice(gomock.Any(), gomock.Any()).Return(fmt.Errorf("smtp down")).Times(1)
	err = f.svc.SendInvoice(ctx, order.ID)
	require.Equal(t, er.BadGatewayCode, er.CodeOf(err))
}

func TestListOrdersForUser(t *testing.T) {
	f := newOrderFixture(t, payment.GatewayStripe)
	f.allowNotifications()
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	other := checkoutInput(model.PaymentMethodManual, CheckoutItem{ProductID: "p1", Quantity: 1})
	other.Email = "someone@example.com"
	_, err = f.svc.Checkout(ctx, other)
	require.NoError(t, err)

	orders, total, err := f.svc.ListOrdersForUser(ctx, "BUYER@example.com", model.NewPaging(1, 10))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "buyer@example.com", orders[0].UserEmail)

	_, _, err = f.svc.ListOrders(ctx, model.OrderFilter{Status: "bogus"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}
