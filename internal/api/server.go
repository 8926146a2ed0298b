package api

import "github.com/RoyceAzure/lab/storefront/internal/api/handler"

type Server struct {
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	OrderHandler    *handler.OrderHandler
	CouponHandler   *handler.CouponHandler
	AuthHandler     *handler.AuthHandler
	SettingsHandler *handler.SettingsHandler
	AdminHandler    *handler.AdminHandler
	HealthHandler   *handler.HealthHandler
}

func NewServer(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	orderHandler *handler.OrderHandler,
	couponHandler *handler.CouponHandler,
	authHandler *handler.AuthHandler,
	settingsHandler *handler.SettingsHandler,
	adminHandler *handler.AdminHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	return &Server{
		ProductHandler:  productHandler,
		CategoryHandler: categoryHandler,
		OrderHandler:    orderHandler,
		CouponHandler:   couponHandler,
		AuthHandler:     authHandler,
		SettingsHandler: settingsHandler,
		AdminHandler:    adminHandler,
		HealthHandler:   healthHandler,
	}
}
