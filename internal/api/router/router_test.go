package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/mail"
	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testPermissionYaml = `
permissions:
  - id: 1
    name: product_manage
    resource: products
    actions: [read, write]
  - id: 2
    name: order_read
    resource: orders
    actions: [read]
role_permissions:
  - name: admin
    permissions: [1, 2]
  - name: support
    permissions: [2]
`

type testApp struct {
	router *chi.Mux
	store  *memdb.Store
	maker  token.Maker
}

func newTestApp(t *testing.T, limiter ratelimit.Limiter) *testApp {
	t.Helper()
	store := memdb.NewStore()
	maker, err := token.NewJWTMaker(strings.Repeat("k", 32))
	require.NoError(t, err)
	perms, err := config.ParsePermissionConfig([]byte(testPermissionYaml))
	require.NoError(t, err)
	if limiter == nil {
		limiter = ratelimit.NewTokenBucket(&ratelimit.LimiterConfig{Capacity: 1000, RatePS: 1000})
	}

	registry := payment.BuildRegistry(payment.Credentials{FrontendURL: "https://shop.example.com"}, nil)
	notifier := service.NewNotifier(mail.NewLogSender(nil), store, []string{"admin@example.com"}, "https://shop.example.com", nil)
	settingsService := service.NewSettingsService(store, registry.Modes())
	couponService := service.NewCouponService(store)
	orderService := service.NewOrderService(store, store, settingsService, couponService, registry, notifier, nil,
		"https://shop.example.com", nil,
		service.WithAsyncRunner(func(fn func()) { fn() }),
	)

	server := api.NewServer(
		handler.NewProductHandler(service.NewProductService(store, nil)),
		handler.NewCategoryHandler(service.NewCategoryService(store)),
		handler.NewOrderHandler(orderService),
		handler.NewCouponHandler(couponService),
		handler.NewAuthHandler(service.NewAuthService(store, notifier, maker, time.Hour, "https://shop.example.com", nil)),
		handler.NewSettingsHandler(settingsService),
		handler.NewAdminHandler(
			service.NewCustomerService(store, store, nil),
			service.NewTeamService(store, perms),
			service.NewBulkEmailService(store, notifier, nil),
			service.NewDashboardService(store),
		),
		handler.NewHealthHandler(store),
	)
	return &testApp{
		router: SetupRouter(server, maker, m.NewAuthorizer(perms), limiter, nil),
		store:  store,
		maker:  maker,
	}
}

func (a *testApp) tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := a.maker.CreateToken(role+"@example.com", "user-"+role, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestValidateCouponByQuery(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, app.store.CreateCoupon(context.Background(), &model.Coupon{
		ID:            "c1",
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		Active:        true,
	}))

	rec := app.do(t, http.MethodPost, "/api/coupons/validate?code=SAVE10&cart_total=100", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.CouponValidation
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	require.True(t, res.Valid)
	require.Equal(t, 10.0, res.DiscountAmount)

	// 驗證不累加使用次數
	c, err := app.store.GetCouponByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	require.Zero(t, c.UsesCount)
}

func TestValidateCouponByJSONBody(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/coupons/validate", `{"code":"NOPE","cart_total":50}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.CouponValidation
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	require.False(t, res.Valid)
	require.Equal(t, service.MsgCouponNotFound, res.Message)
}

func TestValidateCouponMissingCode(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodPost, "/api/coupons/validate?cart_total=100", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec).Detail, "code is required")
}

func TestExternalLinksMaxThree(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.tokenFor(t, constants.RoleAdmin)

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"title":"link %d","url":"https://example.com/%d"}`, i, i)
		rec := app.do(t, http.MethodPost, "/api/admin/external-links", body, admin)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := app.do(t, http.MethodPost, "/api/admin/external-links", `{"title":"fourth","url":"https://example.com/4"}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Maximum 3 external links allowed", decode(t, rec).Detail)

	rec = app.do(t, http.MethodGet, "/api/external-links", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var links []model.ExternalLink
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &links))
	require.Len(t, links, 3)
}

func TestUpdateTrackingMarksShipped(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	require.NoError(t, app.store.CreateOrder(ctx, &model.Order{
		ID:            "o1",
		OrderNumber:   "ORD-20260314-ABC123",
		UserEmail:     "buyer@example.com",
		UserName:      "Buyer",
		PaymentMethod: model.PaymentMethodManual,
		Status:        model.OrderStatusProcessing,
		Items:         []model.OrderItem{{ProductID: "p1", Name: "Cap", Price: 20, Quantity: 1}},
		Subtotal:      20,
		Total:         20,
	}))

	// 未登入
	rec := app.do(t, http.MethodPut, "/api/orders/o1/tracking?tracking_number=TEST123&tracking_carrier=fedex", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/orders/o1/tracking?tracking_number=TEST123&tracking_carrier=fedex", "", app.tokenFor(t, constants.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var order model.Order
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &order))
	require.Equal(t, model.OrderStatusShipped, order.Status)
	require.Equal(t, "TEST123", order.TrackingNumber)
	require.Equal(t, "fedex", order.TrackingCarrier)

	stored, err := app.store.GetOrderByID(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusShipped, stored.Status)
	require.NotNil(t, stored.ShippedAt)
}

func TestAdminPermissions(t *testing.T) {
	app := newTestApp(t, nil)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		role   string
		status int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/admin/orders", status: http.StatusUnauthorized},
		{name: "customer", method: http.MethodGet, path: "/api/admin/orders", role: constants.RoleCustomer, status: http.StatusForbidden},
		{name: "support read orders", method: http.MethodGet, path: "/api/admin/orders", role: "support", status: http.StatusOK},
		{name: "support cannot change status", method: http.MethodPut, path: "/api/admin/orders/o1/status", body: `{"status":"shipped"}`, role: "support", status: http.StatusForbidden},
		{name: "support cannot edit products", method: http.MethodGet, path: "/api/admin/products", role: "support", status: http.StatusForbidden},
		{name: "admin full access", method: http.MethodGet, path: "/api/admin/dashboard/stats", role: constants.RoleAdmin, status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var bearer string
			if tc.role != "" {
				bearer = app.tokenFor(t, tc.role)
			}
			rec := app.do(t, tc.method, tc.path, tc.body, bearer)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCheckoutSandboxReturnsCheckoutURL(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, app.store.CreateProduct(context.Background(), &model.Product{
		ID: "p1", Name: "Cap", Price: 20, Stock: 5, Active: true,
	}))

	body := `{
		"email": "buyer@example.com",
		"name": "Buyer",
		"items": [{"product_id": "p1", "quantity": 2}],
		"shipping_address": {"full_name": "Buyer", "line1": "1 Main St", "city": "Taipei", "postal_code": "100", "country": "TW"},
		"payment_method": "stripe"
	}`
	rec := app.do(t, http.MethodPost, "/api/orders", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res struct {
		Order       model.Order `json:"order"`
		CheckoutURL string      `json:"checkout_url"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	require.NotEmpty(t, res.CheckoutURL)
	require.Equal(t, model.PaymentStatusPending, res.Order.PaymentStatus)
	require.Equal(t, 45.99, res.Order.Total)

	rec = app.do(t, http.MethodGet, "/api/orders/"+res.Order.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutValidation(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodPost, "/api/orders", `{"email":"not-an-email","items":[],"payment_method":"cash"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decode(t, rec).Detail
	require.Contains(t, detail, "email must be a valid email")
	require.Contains(t, detail, "payment_method must be one of")
}

func TestRateLimitedRoutes(t *testing.T) {
	limiter := ratelimit.NewTokenBucket(&ratelimit.LimiterConfig{Capacity: 1, RatePS: 1, IdleTTL: time.Minute})
	app := newTestApp(t, limiter)

	rec := app.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong-password"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong-password"}`, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// 非限流路由不受影響
	rec = app.do(t, http.MethodGet, "/api/settings", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
