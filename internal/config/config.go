package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	viper "github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀取  需要使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	Env        string `mapstructure:"ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	MongoUrl     string `mapstructure:"MONGO_URL"`
	DbName       string `mapstructure:"DB_NAME"`
	RunMigration bool   `mapstructure:"RUN_MIGRATION"`
	MigrationUrl string `mapstructure:"MIGRATION_URL"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`

	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC"`

	JwtSecret           string        `mapstructure:"JWT_SECRET"`
	TokenType           string        `mapstructure:"TOKEN_TYPE"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaypalClientID      string `mapstructure:"PAYPAL_CLIENT_ID"`
	PaypalClientSecret  string `mapstructure:"PAYPAL_CLIENT_SECRET"`
	PaypalMode          string `mapstructure:"PAYPAL_MODE"`
	PlisioAPIKey        string `mapstructure:"PLISIO_API_KEY"`
	BinancePayAPIKey    string `mapstructure:"BINANCE_PAY_API_KEY"`
	BinancePaySecret    string `mapstructure:"BINANCE_PAY_SECRET"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	FacebookAppID      string `mapstructure:"FACEBOOK_APP_ID"`
	FacebookAppSecret  string `mapstructure:"FACEBOOK_APP_SECRET"`

	SmtpHost          string `mapstructure:"SMTP_HOST"`
	SmtpPort          int    `mapstructure:"SMTP_PORT"`
	SmtpUser          string `mapstructure:"SMTP_USER"`
	SmtpPassword      string `mapstructure:"SMTP_PASSWORD"`
	SmtpFromName      string `mapstructure:"SMTP_FROM_NAME"`
	AdminNotifyEmails string `mapstructure:"ADMIN_NOTIFY_EMAILS"`

	FrontendUrl string `mapstructure:"FRONTEND_URL"`
	BackendUrl  string `mapstructure:"BACKEND_URL"`

	PermissionConfigPath string        `mapstructure:"PERMISSION_CONFIG_PATH"`
	RateLimitCapacity    int           `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitPerSecond   int           `mapstructure:"RATE_LIMIT_PER_SECOND"`
	HttpClientTimeout    time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT"`
}

// AdminEmails 解析 ADMIN_NOTIFY_EMAILS 逗號分隔清單
func (c *Config) AdminEmails() []string {
	var res []string
	for _, s := range strings.Split(c.AdminNotifyEmails, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func (c *Config) KafkaBrokerList() []string {
	var res []string
	for _, s := range strings.Split(c.KafkaBrokers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

var placeholderValues = []string{"changeme", "placeholder", "demo", "xxx"}

// IsConfigured 判斷憑證是否為真實值，空字串與範例值都視為未設定
func IsConfigured(values ...string) bool {
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" || strings.HasPrefix(v, "your_") || strings.HasPrefix(v, "your-") {
			return false
		}
		for _, p := range placeholderValues {
			if v == p {
				return false
			}
		}
	}
	return true
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			fromFile, err := loadConfig()
			if err != nil {
				log.Fatal().Err(err).Msg("error read config")
			}
			if !fromFile {
				return
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				log.Info().Str("file", e.Name).Msg("config file changed, reloading")
				if _, err := loadConfig(); err != nil {
					log.Error().Err(err).Msg("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤  由外部決定要不要Fatal
.env 不存在時只讀環境變數
*/
func loadConfig() (fromFile bool, err error) {
	config_singleton.mu.Lock()
	defer config_singleton.mu.Unlock()

	cf, fromFile, err := readConfig(viper.GetViper(), configPath())
	if err != nil {
		return false, err
	}
	config_singleton.Config = cf
	return fromFile, nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return ".env"
}

func readConfig(v *viper.Viper, path string) (*Config, bool, error) {
	setDefaults(v)
	v.AutomaticEnv()

	fromFile := false
	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, false, err
		}
		fromFile = true
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, false, err
	}
	return cf, fromFile, nil
}

// 所有 key 都要有 default，viper Unmarshal 才會讀到只存在於環境變數的值
func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_URL", "")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("RUN_MIGRATION", false)
	v.SetDefault("MIGRATION_URL", "file://internal/infra/repository/db/migrations")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRODUCT_CACHE_TTL", 5*time.Minute)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDER_TOPIC", "storefront.orders")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TYPE", "jwt")
	v.SetDefault("ACCESS_TOKEN_DURATION", 24*time.Hour)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("PAYPAL_CLIENT_ID", "")
	v.SetDefault("PAYPAL_CLIENT_SECRET", "")
	v.SetDefault("PAYPAL_MODE", "sandbox")
	v.SetDefault("PLISIO_API_KEY", "")
	v.SetDefault("BINANCE_PAY_API_KEY", "")
	v.SetDefault("BINANCE_PAY_SECRET", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("FACEBOOK_APP_ID", "")
	v.SetDefault("FACEBOOK_APP_SECRET", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM_NAME", "Storefront")
	v.SetDefault("ADMIN_NOTIFY_EMAILS", "admin@storefront.local,orders@storefront.local")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("PERMISSION_CONFIG_PATH", "docs/permission.yaml")
	v.SetDefault("RATE_LIMIT_CAPACITY", 20)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 2)
	v.SetDefault("HTTP_CLIENT_TIMEOUT", 30*time.Second)
}
