package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/logger"
)

// @title storefront
// @version 1.0
// @description 電商前台與後台管理 API

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.

func main() {
	cf := config.GetConfig()
	log := logger.NewLogger(cf.Env, cf.LogLevel)

	app, err := appcontext.NewApplicationContext(cf, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init application context")
		return
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewProductHandler(app.ProductService),
		handler.NewCategoryHandler(app.CategoryService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewCouponHandler(app.CouponService),
		handler.NewAuthHandler(app.AuthService),
		handler.NewSettingsHandler(app.SettingsService),
		handler.NewAdminHandler(app.CustomerService, app.TeamService, app.BulkEmailService, app.DashboardService),
		handler.NewHealthHandler(app.DbDao),
	)

	// 設置路由
	r := router.SetupRouter(server, app.TokenMaker, app.Authorizer, app.Limiter, app.Logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cf.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{}, 1)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("application shutdown error")
		}
		shutdownCompleted <- struct{}{}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Server starting")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	<-shutdownCompleted
	log.Info().Msg("closed completed")
}
