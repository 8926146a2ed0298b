package payment

import (
	"time"

	"github.com/rs/zerolog"
)

// Credentials 各家憑證，Configured 決定用正式或 sandbox
type Credentials struct {
	StripeSecretKey    string
	PaypalClientID     string
	PaypalClientSecret string
	PaypalMode         string
	PlisioAPIKey       string
	BinancePayAPIKey   string
	BinancePaySecret   string
	// 空字串代表不設 callback，改由後台 verify-payment 查詢
	PlisioCallbackURL  string
	FrontendURL        string
	Timeout            time.Duration
	// 判斷憑證是否為真實值
	Configured func(values ...string) bool
}

// BuildRegistry 每個 gateway 只在啟動時決定一次 live 或 sandbox
func BuildRegistry(c Credentials, logger *zerolog.Logger) *Registry {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	configured := c.Configured
	if configured == nil {
		configured = func(values ...string) bool {
			for _, v := range values {
				if v == "" {
					return false
				}
			}
			return true
		}
	}

	pick := func(name string, live func() Gateway, creds ...string) Gateway {
		if configured(creds...) {
			logger.Info().Str("gateway", name).Msg("payment gateway in live mode")
			return live()
		}
		logger.Warn().Str("gateway", name).Msg("payment gateway credentials missing, using sandbox")
		return NewSandboxGateway(name, c.FrontendURL)
	}

	return NewRegistry(
		pick(GatewayStripe, func() Gateway {
			return NewStripeGateway(c.StripeSecretKey, c.Timeout)
		}, c.StripeSecretKey),
		pick(GatewayPaypal, func() Gateway {
			return NewPaypalGateway(c.PaypalClientID, c.PaypalClientSecret, c.PaypalMode, c.Timeout)
		}, c.PaypalClientID, c.PaypalClientSecret),
		pick(GatewayPlisio, func() Gateway {
			return NewPlisioGateway(c.PlisioAPIKey, c.PlisioCallbackURL, c.Timeout)
		}, c.PlisioAPIKey),
		pick(GatewayBinance, func() Gateway {
			return NewBinanceGateway(c.BinancePayAPIKey, c.BinancePaySecret, c.Timeout)
		}, c.BinancePayAPIKey, c.BinancePaySecret),
	)
}
