package appcontext

import (
	"context"
	"errors"
	"fmt"
	"time"

	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/facebook_auth"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/google_auth"
	"github.com/RoyceAzure/lab/storefront/internal/infra/mail"
	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/cache"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "storefront"

type ApplicationContext struct {
	Cf          *config.Config
	Logger      *zerolog.Logger
	Permissions *config.PermissionConfig

	DbDao        db.IStore
	ProductRepo  db.IProductRepository
	RedisClient  *redis.Client
	Publisher    producer.OrderEventPublisher
	Gateways     *payment.Registry
	MailSender   mail.Sender
	TokenMaker   token.Maker
	Limiter      ratelimit.Limiter
	Authorizer   *m.Authorizer
	GoogleAuth   google_auth.IAuthVerifier
	FacebookAuth facebook_auth.IAuthVerifier

	Notifier         service.INotifier
	SettingsService  service.ISettingsService
	CouponService    service.ICouponService
	ProductService   service.IProductService
	CategoryService  service.ICategoryService
	OrderService     service.IOrderService
	CustomerService  service.ICustomerService
	AuthService      service.IAuthService
	TeamService      service.ITeamService
	BulkEmailService service.IBulkEmailService
	DashboardService service.IDashboardService
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	if cf == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	logger.Info().
		Str("env", cf.Env).
		Str("port", cf.ServerPort).
		Str("db_name", cf.DbName).
		Bool("mongo", cf.MongoUrl != "").
		Bool("redis", cf.RedisAddr != "").
		Bool("kafka", cf.KafkaBrokers != "").
		Bool("smtp", cf.SmtpHost != "").
		Msg("loaded config")

	if err := app.Init(); err != nil {
		// 已建立的連線要釋放
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Shutdown(shutdownCtx)
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []func() error{
		app.setUpPermissionConfig,
		app.setUpDbDao,
		app.setUpRedis,
		app.setUpProducer,
		app.setUpPaymentGateways,
		app.setUpMailSender,
		app.setUpTokenMaker,
		app.setUpAuthVerifiers,
		app.setUpServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpPermissionConfig() error {
	app.Logger.Info().Msg("Start setup permission config")
	perms, err := config.LoadPermissionConfig(app.Cf.PermissionConfigPath)
	if err != nil {
		return fmt.Errorf("load permission config %s: %w", app.Cf.PermissionConfigPath, err)
	}
	app.Permissions = perms
	app.Authorizer = m.NewAuthorizer(perms)
	app.Logger.Info().Msg("Finish setup permission config")
	return nil
}

// setUpDbDao MONGO_URL 為空時使用記憶體 store，資料不會保留
func (app *ApplicationContext) setUpDbDao() error {
	app.Logger.Info().Msg("Start setup database DAO")
	if app.Cf.MongoUrl == "" {
		app.Logger.Warn().Msg("MONGO_URL is empty, running with in-memory store")
		app.DbDao = memdb.NewStore()
		app.ProductRepo = app.DbDao
		app.Logger.Info().Msg("Finish setup database DAO")
		return nil
	}

	if app.Cf.RunMigration {
		app.Logger.Info().Str("source", app.Cf.MigrationUrl).Msg("Start db migration")
		if err := db.RunMigration(app.Cf.MigrationUrl, app.Cf.MongoUrl, app.Cf.DbName); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
		app.Logger.Info().Msg("Finish db migration")
	}

	store, err := db.Connect(context.Background(), app.Cf.MongoUrl, app.Cf.DbName)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	app.DbDao = store
	app.ProductRepo = store
	app.Logger.Info().Msg("Finish setup database DAO")
	return nil
}

// setUpRedis 設定 REDIS_ADDR 時商品讀取走 cache aside，限流改用 redis token bucket
func (app *ApplicationContext) setUpRedis() error {
	app.Logger.Info().Msg("Start setup redis")
	limiterCf := &ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		RatePS:   app.Cf.RateLimitPerSecond,
	}
	if app.Cf.RedisAddr == "" {
		app.Limiter = ratelimit.NewTokenBucket(limiterCf)
		app.Logger.Info().Msg("REDIS_ADDR is empty, using local rate limiter without product cache")
		app.Logger.Info().Msg("Finish setup redis")
		return nil
	}

	client := cache.GetRedisClient(app.Cf.RedisAddr,
		cache.WithPassword(app.Cf.RedisPassword),
		cache.WithDB(app.Cf.RedisDB),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}
	app.RedisClient = client
	app.ProductRepo = redis_decorator.NewCacheAsideProductRepo(app.DbDao, cache.NewRedisCache(client, redisKeyPrefix), app.Cf.ProductCacheTTL)
	app.Limiter = ratelimit.NewRedisTokenBucket(client, limiterCf)
	app.Logger.Info().Msg("Finish setup redis")
	return nil
}

func (app *ApplicationContext) setUpProducer() error {
	app.Logger.Info().Msg("Start setup order event producer")
	brokers := app.Cf.KafkaBrokerList()
	if len(brokers) == 0 {
		app.Publisher = producer.NoopPublisher{}
		app.Logger.Info().Msg("KAFKA_BROKERS is empty, order events disabled")
		app.Logger.Info().Msg("Finish setup order event producer")
		return nil
	}

	w, err := producer.NewKafkaWriter(producer.DefaultConfig(brokers, app.Cf.KafkaOrderTopic))
	if err != nil {
		return fmt.Errorf("create kafka writer: %w", err)
	}
	app.Publisher = producer.NewKafkaOrderPublisher(w, app.Cf.KafkaOrderTopic, app.Logger)
	app.Logger.Info().Msg("Finish setup order event producer")
	return nil
}

// setUpPaymentGateways 每個 gateway 的 live/sandbox 只在這裡決定一次
func (app *ApplicationContext) setUpPaymentGateways() error {
	app.Logger.Info().Msg("Start setup payment gateways")
	app.Gateways = payment.BuildRegistry(payment.Credentials{
		StripeSecretKey:    app.Cf.StripeSecretKey,
		PaypalClientID:     app.Cf.PaypalClientID,
		PaypalClientSecret: app.Cf.PaypalClientSecret,
		PaypalMode:         app.Cf.PaypalMode,
		PlisioAPIKey:       app.Cf.PlisioAPIKey,
		BinancePayAPIKey:   app.Cf.BinancePayAPIKey,
		BinancePaySecret:   app.Cf.BinancePaySecret,
		FrontendURL:        app.Cf.FrontendUrl,
		Timeout:            app.Cf.HttpClientTimeout,
		Configured:         config.IsConfigured,
	}, app.Logger)
	app.Logger.Info().Msg("Finish setup payment gateways")
	return nil
}

func (app *ApplicationContext) setUpMailSender() error {
	app.Logger.Info().Msg("Start setup mail sender")
	if !config.IsConfigured(app.Cf.SmtpHost, app.Cf.SmtpUser, app.Cf.SmtpPassword) {
		app.Logger.Warn().Msg("smtp credentials missing, emails will only be logged")
		app.MailSender = mail.NewLogSender(app.Logger)
	} else {
		app.MailSender = mail.NewSMTPSender(app.Cf.SmtpFromName, app.Cf.SmtpUser, app.Cf.SmtpPassword, app.Cf.SmtpHost, app.Cf.SmtpPort)
	}
	app.Logger.Info().Msg("Finish setup mail sender")
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	app.Logger.Info().Msg("Start setup token maker")
	tokenMaker, err := token.NewMaker(app.Cf.TokenType, app.Cf.JwtSecret)
	if err != nil {
		return fmt.Errorf("create token maker: %w", err)
	}
	app.TokenMaker = tokenMaker
	app.Logger.Info().Msg("Finish setup token maker")
	return nil
}

// setUpAuthVerifiers 未設定的第三方登入保持 nil，登入時回 400
func (app *ApplicationContext) setUpAuthVerifiers() error {
	app.Logger.Info().Msg("Start setup oauth verifiers")
	if config.IsConfigured(app.Cf.GoogleClientID) {
		app.GoogleAuth = google_auth.NewGoogleAuthVerifier(app.Cf.GoogleClientID, app.Cf.HttpClientTimeout)
	} else {
		app.Logger.Warn().Msg("google login disabled")
	}
	if config.IsConfigured(app.Cf.FacebookAppID, app.Cf.FacebookAppSecret) {
		app.FacebookAuth = facebook_auth.NewVerifier(app.Cf.FacebookAppID, app.Cf.FacebookAppSecret, app.Cf.HttpClientTimeout)
	} else {
		app.Logger.Warn().Msg("facebook login disabled")
	}
	app.Logger.Info().Msg("Finish setup oauth verifiers")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	app.Logger.Info().Msg("Start setup services")
	notifier := service.NewNotifier(app.MailSender, app.DbDao, app.Cf.AdminEmails(), app.Cf.FrontendUrl, app.Logger)
	settingsService := service.NewSettingsService(app.DbDao, app.Gateways.Modes())
	couponService := service.NewCouponService(app.DbDao)

	var authOpts []service.AuthServiceOption
	if app.GoogleAuth != nil {
		authOpts = append(authOpts, service.WithGoogleVerifier(app.GoogleAuth))
	}
	if app.FacebookAuth != nil {
		authOpts = append(authOpts, service.WithFacebookVerifier(app.FacebookAuth))
	}

	app.Notifier = notifier
	app.SettingsService = settingsService
	app.CouponService = couponService
	app.ProductService = service.NewProductService(app.ProductRepo, app.Logger)
	app.CategoryService = service.NewCategoryService(app.DbDao)
	app.OrderService = service.NewOrderService(
		app.DbDao, app.ProductRepo, settingsService, couponService, app.Gateways, notifier, app.Publisher,
		app.Cf.FrontendUrl, app.Logger,
		service.WithStripeWebhookSecret(app.Cf.StripeWebhookSecret),
	)
	app.CustomerService = service.NewCustomerService(app.DbDao, app.DbDao, app.Logger)
	app.AuthService = service.NewAuthService(app.DbDao, notifier, app.TokenMaker, app.Cf.AccessTokenDuration, app.Cf.FrontendUrl, app.Logger, authOpts...)
	app.TeamService = service.NewTeamService(app.DbDao, app.Permissions)
	app.BulkEmailService = service.NewBulkEmailService(app.DbDao, notifier, app.Logger)
	app.DashboardService = service.NewDashboardService(app.DbDao)
	app.Logger.Info().Msg("Finish setup services")
	return nil
}

// Shutdown 依序關閉 kafka、redis、db，任一失敗仍繼續關閉其他資源
func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error
		if app.Publisher != nil {
			app.Logger.Info().Msg("Closing order event producer...")
			if err := app.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close producer: %w", err))
			}
		}
		if app.RedisClient != nil {
			app.Logger.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
		if app.DbDao != nil {
			app.Logger.Info().Msg("Closing database connection...")
			if err := app.DbDao.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close db: %w", err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		if err != nil {
			app.Logger.Error().Err(err).Msg("application shutdown with errors")
			return err
		}
		app.Logger.Info().Msg("Application shutdown complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
