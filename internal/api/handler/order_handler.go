package handler

import (
	"io"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

const stripeSignatureHeader = "Stripe-Signature"

// stripe event 上限 64KB
const maxWebhookBytes = 64 << 10

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if util.IsNil(orderService) {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		orderService: orderService,
	}
}

// @Summary checkout
// @Description 建立訂單並取得付款連結，金流失敗時訂單狀態為 pending_payment_failed，可呼叫 retry-payment
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CheckoutDTO true "checkout"
// @Success 201 {object} api.Response{data=dto.CheckoutResponse} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 429 {object} api.ResponseError{data=string} "TooManyRequestsCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /orders [post]
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	// 已登入時記錄 user id，訪客結帳為空
	var userID string
	if payload := util.GetTokenPayloadFromContext(r.Context()); payload != nil {
		userID = payload.UserID
	}

	order, err := h.orderService.Checkout(r.Context(), req.ToInput(userID))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, dto.NewCheckoutResponse(order))
}

// @Summary retry payment
// @Description 只允許 pending_payment_failed 或 payment_status=failed 的訂單
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} api.Response{data=dto.CheckoutResponse} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /orders/{id}/retry-payment [post]
func (h *OrderHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.RetryPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, dto.NewCheckoutResponse(order), nil)
}

// @Summary get order
// @Tags orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} api.Response{data=model.Order} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// @Summary my orders
// @Description 以 token 的 email 查詢，包含登入前以同 email 建立的訂單
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Order} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Router /orders/my [get]
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())
	if payload == nil {
		writeError(w, er.New(er.UnauthenticatedCode, "unauthenticated"))
		return
	}

	paging := pagingFromQuery(r)
	orders, total, err := h.orderService.ListOrdersForUser(r.Context(), payload.UPN, paging)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, orders, pagination(paging, total))
}

// @Summary update tracking
// @Description 設定物流單號，訂單狀態改為 shipped 並寄出出貨通知；參數可用 query string 或 json body
// @Tags admin-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Param tracking_number query string false "tracking number"
// @Param tracking_carrier query string false "carrier"
// @Param tracking body dto.TrackingDTO false "tracking"
// @Success 200 {object} api.Response{data=model.Order} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /orders/{id}/tracking [put]
func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackingDTO
	if hasJSONBody(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	} else {
		q := r.URL.Query()
		req.TrackingNumber = q.Get("tracking_number")
		req.TrackingCarrier = q.Get("tracking_carrier")
		if err := validateStruct(&req); err != nil {
			writeError(w, err)
			return
		}
	}

	order, err := h.orderService.UpdateTracking(r.Context(), chi.URLParam(r, "id"), req.TrackingNumber, req.TrackingCarrier)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// @Summary admin list orders
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "order status"
// @Param email query string false "customer email"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Order} "success"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.OrderFilter{
		Status:    q.Get("status"),
		UserEmail: q.Get("email"),
		Paging:    pagingFromQuery(r),
	}
	if filter.Status != "" && !model.IsValidOrderStatus(filter.Status) {
		writeError(w, er.Newf(er.BadRequestCode, "invalid status %s", filter.Status))
		return
	}

	orders, total, err := h.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, orders, pagination(filter.Paging, total))
}

// @Summary update order status
// @Description 不檢查狀態轉換
// @Tags admin-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Param status body dto.OrderStatusDTO true "status"
// @Success 200 {object} api.Response{data=model.Order} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderStatusDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	order, err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// @Summary verify payment
// @Description 向金流查詢付款狀態
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} api.Response{data=model.Order} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 502 {object} api.ResponseError{data=string} "BadGatewayCode"
// @Router /admin/orders/{id}/verify-payment [post]
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.VerifyPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// @Summary send invoice
// @Tags admin-orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "order id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Failure 502 {object} api.ResponseError{data=string} "BadGatewayCode"
// @Router /admin/orders/{id}/invoice [post]
func (h *OrderHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.SendInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "invoice sent", nil)
}

// @Summary stripe webhook
// @Description checkout.session.completed 確認付款，簽章錯誤回 400
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "stripe signature"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /webhooks/stripe [post]
func (h *OrderHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, er.New(er.BadRequestCode, "invalid webhook body"))
		return
	}
	if err := h.orderService.HandleStripeWebhook(r.Context(), payload, r.Header.Get(stripeSignatureHeader)); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "received", nil)
}
