package router

import (
	"net/http"
	"time"

	_ "github.com/RoyceAzure/lab/storefront/docs"
	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// 後台權限 resource，對應 docs/permission.yaml
const (
	resourceProducts  = "products"
	resourceOrders    = "orders"
	resourceCoupons   = "coupons"
	resourceCustomers = "customers"
	resourceSettings  = "settings"
	resourceMarketing = "marketing"
	resourceDashboard = "dashboard"
	resourceTeam      = "team"
)

const requestTimeout = 60 * time.Second

func SetupRouter(server *api.Server, tokenMaker token.Maker, authorizer *m.Authorizer, limiter ratelimit.Limiter, logger *zerolog.Logger) *chi.Mux {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(m.DeviceInfoMiddleware)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(middleware.Timeout(requestTimeout))

	rateLimit := ratelimit.NewRateLimitMiddleware(limiter)
	read := func(resource string) func(http.Handler) http.Handler {
		return authorizer.RequirePermission(resource, constants.ActionRead)
	}
	write := func(resource string) func(http.Handler) http.Handler {
		return authorizer.RequirePermission(resource, constants.ActionWrite)
	}

	r.Get("/healthz", server.HealthHandler.Healthz)

	// Swagger 文檔
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Get("/search", server.ProductHandler.SearchProducts)
			r.Get("/best-sellers", server.ProductHandler.BestSellers)
			r.Get("/featured", server.ProductHandler.Featured)
			r.Get("/{id}", server.ProductHandler.GetProduct)
		})
		r.Get("/categories", server.CategoryHandler.ListCategories)

		r.Route("/orders", func(r chi.Router) {
			r.With(rateLimit).Post("/", server.OrderHandler.Checkout)
			r.With(m.AuthMiddleware).Get("/my", server.OrderHandler.MyOrders)
			r.Get("/{id}", server.OrderHandler.GetOrder)
			r.With(rateLimit).Post("/{id}/retry-payment", server.OrderHandler.RetryPayment)
			r.With(m.AuthMiddleware, write(resourceOrders)).Put("/{id}/tracking", server.OrderHandler.UpdateTracking)
		})
		r.With(rateLimit).Post("/coupons/validate", server.CouponHandler.ValidateCoupon)

		//Auth相關路由
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rateLimit)
				r.Post("/register", server.AuthHandler.Register)
				r.Post("/login", server.AuthHandler.Login)
				r.Post("/google", server.AuthHandler.GoogleLogin)
				r.Post("/facebook", server.AuthHandler.FacebookLogin)
				r.Post("/forgot-password", server.AuthHandler.ForgotPassword)
				r.Post("/reset-password", server.AuthHandler.ResetPassword)
			})
			r.With(m.AuthMiddleware).Get("/me", server.AuthHandler.Me)
		})

		r.Get("/settings", server.SettingsHandler.GetStoreSettings)
		r.Get("/payment-methods", server.SettingsHandler.ListPaymentMethods)
		r.Get("/social-links", server.SettingsHandler.ListActiveSocialLinks)
		r.Get("/external-links", server.SettingsHandler.ListExternalLinks)
		r.Get("/floating-announcement", server.SettingsHandler.GetFloatingAnnouncement)

		r.Post("/webhooks/stripe", server.OrderHandler.StripeWebhook)

		r.Route("/admin", func(r chi.Router) {
			r.Use(m.AuthMiddleware)

			r.Route("/products", func(r chi.Router) {
				r.With(read(resourceProducts)).Get("/", server.ProductHandler.AdminListProducts)
				r.With(write(resourceProducts)).Post("/", server.ProductHandler.CreateProduct)
				r.With(read(resourceProducts)).Get("/{id}", server.ProductHandler.AdminGetProduct)
				r.With(write(resourceProducts)).Put("/{id}", server.ProductHandler.UpdateProduct)
				r.With(write(resourceProducts)).Delete("/{id}", server.ProductHandler.DeleteProduct)
			})
			r.Route("/categories", func(r chi.Router) {
				r.With(read(resourceProducts)).Get("/", server.CategoryHandler.ListCategories)
				r.With(write(resourceProducts)).Post("/", server.CategoryHandler.CreateCategory)
				r.With(write(resourceProducts)).Put("/{id}", server.CategoryHandler.UpdateCategory)
				r.With(write(resourceProducts)).Delete("/{id}", server.CategoryHandler.DeleteCategory)
			})
			r.Route("/orders", func(r chi.Router) {
				r.With(read(resourceOrders)).Get("/", server.OrderHandler.ListOrders)
				r.With(read(resourceOrders)).Get("/{id}", server.OrderHandler.GetOrder)
				r.With(write(resourceOrders)).Put("/{id}/status", server.OrderHandler.UpdateStatus)
				r.With(write(resourceOrders)).Put("/{id}/tracking", server.OrderHandler.UpdateTracking)
				r.With(write(resourceOrders)).Post("/{id}/verify-payment", server.OrderHandler.VerifyPayment)
				r.With(write(resourceOrders)).Post("/{id}/invoice", server.OrderHandler.SendInvoice)
			})
			r.Route("/coupons", func(r chi.Router) {
				r.With(read(resourceCoupons)).Get("/", server.CouponHandler.ListCoupons)
				r.With(write(resourceCoupons)).Post("/", server.CouponHandler.CreateCoupon)
				r.With(read(resourceCoupons)).Get("/{id}", server.CouponHandler.GetCoupon)
				r.With(write(resourceCoupons)).Put("/{id}", server.CouponHandler.UpdateCoupon)
				r.With(write(resourceCoupons)).Delete("/{id}", server.CouponHandler.DeleteCoupon)
			})
			r.Route("/customers", func(r chi.Router) {
				r.With(read(resourceCustomers)).Get("/", server.AdminHandler.ListCustomers)
				r.With(write(resourceCustomers)).Post("/rebuild", server.AdminHandler.RebuildCustomers)
				r.With(read(resourceCustomers)).Get("/{email}", server.AdminHandler.GetCustomer)
				r.With(write(resourceCustomers)).Put("/{email}", server.AdminHandler.UpdateCustomer)
			})

			r.With(read(resourceSettings)).Get("/settings", server.SettingsHandler.GetStoreSettings)
			r.With(write(resourceSettings)).Put("/settings", server.SettingsHandler.UpdateStoreSettings)
			r.With(read(resourceSettings)).Get("/payment-gateways", server.SettingsHandler.ListPaymentGateways)
			r.With(write(resourceSettings)).Put("/payment-gateways/{id}", server.SettingsHandler.UpdatePaymentGateway)
			r.Route("/social-links", func(r chi.Router) {
				r.With(read(resourceSettings)).Get("/", server.SettingsHandler.ListSocialLinks)
				r.With(write(resourceSettings)).Post("/", server.SettingsHandler.CreateSocialLink)
				r.With(write(resourceSettings)).Put("/{id}", server.SettingsHandler.UpdateSocialLink)
				r.With(write(resourceSettings)).Delete("/{id}", server.SettingsHandler.DeleteSocialLink)
			})
			r.Route("/external-links", func(r chi.Router) {
				r.With(read(resourceSettings)).Get("/", server.SettingsHandler.ListExternalLinks)
				r.With(write(resourceSettings)).Post("/", server.SettingsHandler.CreateExternalLink)
				r.With(write(resourceSettings)).Put("/{id}", server.SettingsHandler.UpdateExternalLink)
				r.With(write(resourceSettings)).Delete("/{id}", server.SettingsHandler.DeleteExternalLink)
			})
			r.With(read(resourceMarketing)).Get("/floating-announcement", server.SettingsHandler.GetFloatingAnnouncement)
			r.With(write(resourceMarketing)).Put("/floating-announcement", server.SettingsHandler.UpdateFloatingAnnouncement)
			r.With(write(resourceMarketing)).Post("/bulk-email", server.AdminHandler.SendBulkEmail)

			r.Route("/team", func(r chi.Router) {
				r.With(read(resourceTeam)).Get("/", server.AdminHandler.ListTeamMembers)
				r.With(read(resourceTeam)).Get("/roles", server.AdminHandler.ListTeamRoles)
				r.With(write(resourceTeam)).Post("/", server.AdminHandler.CreateTeamMember)
				r.With(write(resourceTeam)).Put("/{id}", server.AdminHandler.UpdateTeamMember)
				r.With(write(resourceTeam)).Delete("/{id}", server.AdminHandler.DeleteTeamMember)
			})

			r.With(read(resourceDashboard)).Get("/dashboard/stats", server.AdminHandler.DashboardStats)
		})
	})

	// 在設置完所有路由後記錄路由樹
	if err := chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		logger.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to walk routes")
	}
	return r
}
