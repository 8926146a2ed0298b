package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const notifyTimeout = 30 * time.Second

type CheckoutItem struct {
	ProductID string
	Quantity  int
}

type CheckoutInput struct {
	UserID          string
	Email           string
	Name            string
	Phone           string
	Items           []CheckoutItem
	ShippingAddress model.Address
	ShippingMethod  model.ShippingMethod
	PaymentMethod   model.PaymentMethod
	CouponCode      string
	Notes           string
}

type IOrderService interface {
	// Checkout 建立訂單並送往金流
	// 金流失敗時訂單仍會建立，status=pending_payment_failed 並記錄 payment_error
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 輸入錯誤、商品不存在或庫存不足、付款方式停用、優惠碼無效
	//   - er.InternalErrorCode 500: 資料庫錯誤
	Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error)
	// RetryPayment 只允許 pending_payment_failed 或 payment_status=failed 的訂單
	//
	// 錯誤:
	//   - er.NotFoundCode 404: 訂單不存在
	//   - er.BadRequestCode 400: 訂單狀態不可重試
	RetryPayment(ctx context.Context, orderID string) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrdersForUser(ctx context.Context, email string, paging model.Paging) ([]model.Order, int64, error)
	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error)
	// UpdateTracking 設定物流單號並將訂單改為 shipped
	UpdateTracking(ctx context.Context, id, number, carrier string) (*model.Order, error)
	// UpdateStatus 不檢查狀態轉換，進入 processing 時扣庫存(只扣一次)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error)
	// VerifyPayment 向金流查詢付款狀態，已付款則確認訂單
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 手動付款或尚無付款編號
	//   - er.BadGatewayCode 502: 金流查詢失敗
	VerifyPayment(ctx context.Context, id string) (*model.Order, error)
	// ConfirmPayment 已付款訂單重複呼叫不會有副作用
	ConfirmPayment(ctx context.Context, id string) (*model.Order, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error
	SendInvoice(ctx context.Context, id string) error
}

type OrderServiceOption func(*OrderService)

// WithAsyncRunner 替換背景執行方式，測試時可改為同步
func WithAsyncRunner(run func(func())) OrderServiceOption {
	return func(s *OrderService) { s.async = run }
}

func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func WithStripeWebhookSecret(secret string) OrderServiceOption {
	return func(s *OrderService) { s.webhookSecret = secret }
}

type OrderService struct {
	orders        db.IOrderRepository
	products      db.IProductRepository
	settings      ISettingsService
	coupons       ICouponService
	gateways      *payment.Registry
	notifier      INotifier
	publisher     producer.OrderEventPublisher
	frontendURL   string
	webhookSecret string
	logger        *zerolog.Logger
	async         func(func())
	now           func() time.Time
}

func NewOrderService(
	orders db.IOrderRepository,
	products db.IProductRepository,
	settings ISettingsService,
	coupons ICouponService,
	gateways *payment.Registry,
	notifier INotifier,
	publisher producer.OrderEventPublisher,
	frontendURL string,
	logger *zerolog.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	if util.IsNil(orders) {
		panic("order service initialization failed: orders repository cannot be nil")
	}
	if util.IsNil(products) {
		panic("order service initialization failed: products repository cannot be nil")
	}
	if util.IsNil(settings) {
		panic("order service initialization failed: settings service cannot be nil")
	}
	if util.IsNil(coupons) {
		panic("order service initialization failed: coupon service cannot be nil")
	}
	if gateways == nil {
		panic("order service initialization failed: gateway registry cannot be nil")
	}
	if util.IsNil(notifier) {
		panic("order service initialization failed: notifier cannot be nil")
	}
	if publisher == nil {
		publisher = producer.NoopPublisher{}
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}

	s := &OrderService{
		orders:      orders,
		products:    products,
		settings:    settings,
		coupons:     coupons,
		gateways:    gateways,
		notifier:    notifier,
		publisher:   publisher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
		async:       func(f func()) { go f() },
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) validateCheckout(in *CheckoutInput) error {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	if len(in.Items) == 0 {
		return er.New(er.BadRequestCode, "order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return er.New(er.BadRequestCode, "product_id is required")
		}
		if it.Quantity < 1 {
			return er.Newf(er.BadRequestCode, "quantity for product %s must be at least 1", it.ProductID)
		}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return er.New(er.BadRequestCode, "a valid email is required")
	}
	if in.Name == "" {
		in.Name = in.ShippingAddress.FullName
	}
	addr := in.ShippingAddress
	if addr.FullName == "" || addr.Line1 == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return er.New(er.BadRequestCode, "shipping address is incomplete")
	}
	switch in.ShippingMethod {
	case "":
		in.ShippingMethod = model.ShippingStandard
	case model.ShippingStandard, model.ShippingExpress:
	default:
		return er.Newf(er.BadRequestCode, "unknown shipping method %s", in.ShippingMethod)
	}
	if !model.IsValidPaymentMethod(string(in.PaymentMethod)) {
		return er.Newf(er.BadRequestCode, "unknown payment method %s", in.PaymentMethod)
	}
	return nil
}

// resolveItems 名稱與價格以商品資料為準
func (s *OrderService) resolveItems(ctx context.Context, items []CheckoutItem) ([]model.OrderItem, error) {
	qty := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := qty[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}

	res := make([]model.OrderItem, 0, len(order))
	for _, id := range order {
		p, err := s.products.GetProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, er.Newf(er.BadRequestCode, "product %s not found", id)
			}
			return nil, repoErr(err, "product")
		}
		if !p.Active {
			return nil, er.Newf(er.BadRequestCode, "product %s is not available", p.Name)
		}
		if p.Stock < qty[id] {
			return nil, er.Newf(er.BadRequestCode, "insufficient stock for %s", p.Name)
		}
		res = append(res, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty[id],
			Image:     p.MainImage(),
			Category:  p.Category,
		})
	}
	return res, nil
}

// releaseCoupon 訂單沒寫入時退回優惠碼次數，request 已取消仍要執行
func (s *OrderService) releaseCoupon(ctx context.Context, code string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.coupons.Release(ctx, code); err != nil {
		s.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to release coupon after order write failure")
	}
}

func (s *OrderService) newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", s.now().UTC().Format("20060102"), util.RandomUpper(6))
}

func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if err := s.validateCheckout(&in); err != nil {
		return nil, err
	}
	enabled, err := s.settings.IsPaymentMethodEnabled(ctx, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, er.Newf(er.BadRequestCode, "payment method %s is not available", in.PaymentMethod)
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	subtotal := itemsSubtotal(items).Round(2).InexactFloat64()

	settings, err := s.settings.GetStoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	var discount float64
	couponCode := strings.TrimSpace(in.CouponCode)
	if couponCode != "" {
		v, err := s.coupons.Validate(ctx, couponCode, subtotal, items)
		if err != nil {
			return nil, err
		}
		if !v.Valid {
			return nil, er.New(er.BadRequestCode, v.Message)
		}
		redeemed, err := s.coupons.Redeem(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		couponCode = redeemed.Code
		discount = v.DiscountAmount
	}

	afterDiscount := subtotal - discount
	quote := CalculateQuote(items, discount, in.PaymentMethod, ShippingCost(settings, in.ShippingMethod, afterDiscount))

	now := s.now().UTC()
	order := &model.Order{
		ID:             uuid.NewString(),
		OrderNumber:    s.newOrderNumber(),
		UserID:         in.UserID,
		UserEmail:      in.Email,
		UserName:       in.Name,
		Phone:          in.Phone,
		Items:          items,
		ShippingAddr:   in.ShippingAddress,
		ShippingMethod: string(in.ShippingMethod),
		ShippingCost:   quote.ShippingCost,
		PaymentMethod:  in.PaymentMethod,
		CouponCode:     couponCode,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.DiscountAmount,
		CryptoDiscount: quote.CryptoDiscount,
		Total:          quote.Total,
		Currency:       settings.Currency,
		Status:         model.OrderStatusPending,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.PaymentMethod == model.PaymentMethodManual {
		order.PaymentStatus = model.PaymentStatusAwaitingManual
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if couponCode != "" {
			s.releaseCoupon(ctx, couponCode)
		}
		return nil, repoErr(err, "order")
	}

	if order.PaymentMethod != model.PaymentMethodManual {
		if err := s.dispatchPayment(ctx, order); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("payment_method", string(order.PaymentMethod)).
		Str("status", string(order.Status)).
		Float64("total", order.Total).
		Msg("order created")

	s.publish(order, producer.EventOrderCreated)
	if order.Status == model.OrderStatusPendingPaymentFailed {
		s.publish(order, producer.EventOrderPaymentFailed)
	}
	snapshot := *order
	s.notify("order confirmation", func(ctx context.Context) error {
		return s.notifier.SendOrderConfirmation(ctx, &snapshot)
	})
	s.notify("admin new order", func(ctx context.Context) error {
		return s.notifier.SendAdminNewOrderNotification(ctx, &snapshot)
	})
	return order, nil
}

/*
dispatchPayment 建立金流付款並寫回訂單
金流錯誤不回傳，改記錄在訂單上；只有資料庫錯誤會回傳
*/
func (s *OrderService) dispatchPayment(ctx context.Context, order *model.Order) error {
	req := payment.CreatePaymentRequest{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Amount:        order.Total,
		Currency:      order.Currency,
		Description:   fmt.Sprintf("Order %s", order.OrderNumber),
		CustomerEmail: order.UserEmail,
		ReturnURL:     fmt.Sprintf("%s/orders/%s?payment=success", s.frontendURL, order.ID),
		CancelURL:     fmt.Sprintf("%s/orders/%s?payment=cancelled", s.frontendURL, order.ID),
	}

	var res *payment.Result
	gw, ok := s.gateways.Get(string(order.PaymentMethod))
	var err error
	if !ok {
		err = &payment.Error{Kind: payment.KindNotConfigured, Gateway: string(order.PaymentMethod), Message: "gateway is not registered"}
	} else {
		res, err = gw.CreatePayment(ctx, req)
	}

	order.UpdatedAt = s.now().UTC()
	if err != nil {
		s.logger.Error().Err(err).
			Str("order_id", order.ID).
			Str("gateway", string(order.PaymentMethod)).
			Str("kind", string(payment.KindOf(err))).
			Msg("payment dispatch failed")
		order.Status = model.OrderStatusPendingPaymentFailed
		order.PaymentStatus = model.PaymentStatusFailed
		order.PaymentError = &model.PaymentError{Kind: string(payment.KindOf(err)), Message: err.Error()}
	} else {
		order.SetPaymentReference(res.PaymentID, res.CheckoutURL)
		order.Status = model.OrderStatusPending
		order.PaymentStatus = model.PaymentStatusPending
		order.PaymentError = nil
	}
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return repoErr(err, "order")
	}
	return nil
}

func (s *OrderService) RetryPayment(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, repoErr(err, "order")
	}
	if order.PaymentMethod == model.PaymentMethodManual {
		return nil, er.New(er.BadRequestCode, "manual payment orders cannot be retried")
	}
	if order.Status != model.OrderStatusPendingPaymentFailed && order.PaymentStatus != model.PaymentStatusFailed {
		return nil, er.New(er.BadRequestCode, "order payment cannot be retried")
	}

	if err := s.dispatchPayment(ctx, order); err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusPendingPaymentFailed {
		s.publish(order, producer.EventOrderPaymentFailed)
	} else {
		s.publish(order, producer.EventOrderStatusChanged)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "order")
	}
	return order, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, email string, paging model.Paging) ([]model.Order, int64, error) {
	if email == "" {
		return nil, 0, er.New(er.UnauthenticatedCode, "missing user email")
	}
	return s.ListOrders(ctx, model.OrderFilter{UserEmail: strings.ToLower(email), Paging: paging})
}

func (s *OrderService) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	if filter.Status != "" && !model.IsValidOrderStatus(filter.Status) {
		return nil, 0, er.Newf(er.BadRequestCode, "invalid order status %s", filter.Status)
	}
	orders, total, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, 0, repoErr(err, "order")
	}
	return orders, total, nil
}

func (s *OrderService) UpdateTracking(ctx context.Context, id, number, carrier string) (*model.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, er.New(er.BadRequestCode, "tracking_number is required")
	}
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "order")
	}

	now := s.now().UTC()
	order.TrackingNumber = number
	order.TrackingCarrier = strings.TrimSpace(carrier)
	order.Status = model.OrderStatusShipped
	order.ShippedAt = &now
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, repoErr(err, "order")
	}

	s.publish(order, producer.EventOrderShipped)
	snapshot := *order
	s.notify("shipment", func(ctx context.Context) error {
		return s.notifier.SendShipmentNotification(ctx, &snapshot)
	})
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, er.Newf(er.BadRequestCode, "invalid order status %s", status)
	}
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "order")
	}

	now := s.now().UTC()
	order.Status = model.OrderStatus(status)
	switch order.Status {
	case model.OrderStatusProcessing:
		s.applyInventory(ctx, order)
	case model.OrderStatusShipped:
		if order.ShippedAt == nil {
			order.ShippedAt = &now
		}
	case model.OrderStatusDelivered:
		order.DeliveredAt = &now
	}
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, repoErr(err, "order")
	}

	s.publish(order, producer.EventOrderStatusChanged)
	return order, nil
}

// applyInventory 扣庫存並累加銷量，單一商品失敗只記錄
func (s *OrderService) applyInventory(ctx context.Context, order *model.Order) {
	if order.InventoryApplied {
		return
	}
	for _, it := range order.Items {
		delta := model.ProductCounterDelta{Stock: -it.Quantity, Sales: it.Quantity}
		if err := s.products.IncrementProductCounters(ctx, it.ProductID, delta); err != nil {
			s.logger.Warn().Err(err).
				Str("order_id", order.ID).
				Str("product_id", it.ProductID).
				Msg("failed to apply inventory")
		}
	}
	order.InventoryApplied = true
}

func toPaymentStatus(st payment.Status) model.PaymentStatus {
	switch st {
	case payment.StatusPaid:
		return model.PaymentStatusPaid
	case payment.StatusFailed:
		return model.PaymentStatusFailed
	case payment.StatusExpired:
		return model.PaymentStatusExpired
	case payment.StatusCancelled:
		return model.PaymentStatusCancelled
	default:
		return model.PaymentStatusPending
	}
}

func (s *OrderService) VerifyPayment(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "order")
	}
	if order.PaymentMethod == model.PaymentMethodManual {
		return nil, er.New(er.BadRequestCode, "manual payments are confirmed by updating the order status")
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		return order, nil
	}
	paymentID, _ := order.PaymentReference()
	if paymentID == "" {
		return nil, er.New(er.BadRequestCode, "order has no payment reference")
	}
	gw, ok := s.gateways.Get(string(order.PaymentMethod))
	if !ok {
		return nil, er.Newf(er.BadRequestCode, "payment gateway %s is not available", order.PaymentMethod)
	}

	res, err := gw.QueryPayment(ctx, paymentID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Str("gateway", gw.Name()).Msg("payment query failed")
		return nil, er.Newf(er.BadGatewayCode, "payment gateway query failed: %s", err.Error())
	}

	status := toPaymentStatus(res.Status)
	if status == model.PaymentStatusPaid {
		return s.ConfirmPayment(ctx, order.ID)
	}
	if status != order.PaymentStatus {
		order.PaymentStatus = status
		order.UpdatedAt = s.now().UTC()
		if err := s.orders.UpdateOrder(ctx, order); err != nil {
			return nil, repoErr(err, "order")
		}
	}
	return order, nil
}

func (s *OrderService) ConfirmPayment(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "order")
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		return order, nil
	}

	now := s.now().UTC()
	order.PaymentStatus = model.PaymentStatusPaid
	order.PaymentError = nil
	order.PaidAt = &now
	if order.Status == model.OrderStatusPending || order.Status == model.OrderStatusPendingPaymentFailed {
		order.Status = model.OrderStatusProcessing
	}
	s.applyInventory(ctx, order)
	order.UpdatedAt = now
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		return nil, repoErr(err, "order")
	}

	s.logger.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).Msg("payment confirmed")
	s.publish(order, producer.EventOrderPaid)
	snapshot := *order
	s.notify("payment confirmation", func(ctx context.Context) error {
		return s.notifier.SendPaymentConfirmation(ctx, &snapshot)
	})
	return order, nil
}

func (s *OrderService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if s.webhookSecret == "" {
		return er.New(er.BadRequestCode, "stripe webhook secret is not configured")
	}
	if err := payment.VerifyStripeSignature(payload, sigHeader, s.webhookSecret, payment.DefaultWebhookTolerance, s.now()); err != nil {
		return er.New(er.BadRequestCode, err.Error())
	}
	ev, err := payment.ParseStripeEvent(payload)
	if err != nil {
		return er.New(er.BadRequestCode, "invalid webhook payload")
	}
	if ev.Type != payment.StripeEventCheckoutCompleted && ev.Type != payment.StripeEventAsyncPaymentSucceeded {
		s.logger.Debug().Str("event_id", ev.ID).Str("type", ev.Type).Msg("stripe event ignored")
		return nil
	}

	obj := ev.Data.Object
	if obj.PaymentStatus != payment.StripePaymentStatusPaid {
		// 等 async_payment_succeeded 再確認
		s.logger.Info().
			Str("event_id", ev.ID).
			Str("type", ev.Type).
			Str("payment_status", obj.PaymentStatus).
			Msg("stripe session not paid yet")
		return nil
	}
	var order *model.Order
	if orderID := obj.Metadata["order_id"]; orderID != "" {
		order, err = s.orders.GetOrderByID(ctx, orderID)
	} else if obj.PaymentLink != "" {
		order, err = s.orders.FindOrderByPaymentRef(ctx, model.PaymentMethodStripe, obj.PaymentLink)
	} else {
		return er.New(er.BadRequestCode, "webhook event does not reference an order")
	}
	if err != nil {
		return repoErr(err, "order")
	}

	_, err = s.ConfirmPayment(ctx, order.ID)
	return err
}

func (s *OrderService) SendInvoice(ctx context.Context, id string) error {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return repoErr(err, "order")
	}
	if err := s.notifier.SendInvoice(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to send invoice")
		return er.Newf(er.BadGatewayCode, "failed to send invoice: %s", err.Error())
	}
	return nil
}

func (s *OrderService) publish(order *model.Order, typ producer.EventType) {
	ev := producer.OrderEvent{
		Type:          typ,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Total:         order.Total,
		OccurredAt:    s.now().UTC(),
	}
	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn().Err(err).Str("order_id", ev.OrderID).Str("event", string(ev.Type)).Msg("failed to publish order event")
		}
	})
}

// notify 背景寄信，不受 request context 取消影響
func (s *OrderService) notify(what string, send func(ctx context.Context) error) {
	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Warn().Err(err).Str("email", what).Msg("failed to send notification")
		}
	})
}
