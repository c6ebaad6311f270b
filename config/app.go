package config

// App holds every runtime setting the service reads from the environment.
type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Admin dashboard login.
	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// Hosted card checkout provider.
	CheckoutAPIKey        string `env:"CHECKOUT_API_KEY"`
	CheckoutWebhookSecret string `env:"CHECKOUT_WEBHOOK_SECRET"`
	CheckoutBaseURL       string `env:"CHECKOUT_BASE_URL" default:"https://api.paymongo.com/v1"`
	CheckoutSuccessURL    string `env:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL     string `env:"CHECKOUT_CANCEL_URL"`

	// Stablecoin rail.
	RateAPIURL     string  `env:"RATE_API_URL"`
	RateFallback   float64 `env:"RATE_FALLBACK_PHP_USD" default:"0.0172"`
	CryptoFeePct   float64 `env:"CRYPTO_FEE_PCT" default:"6"`
	OperatorWallet string  `env:"OPERATOR_WALLET"`
	Chains         map[string]Chain

	// Outbound push notifications (ntfy-style topic URL).
	NotifyURL string `env:"NOTIFY_URL"`
}

// Chain describes one supported network and its stablecoin contract.
type Chain struct {
	Name          string
	RPCURL        string
	TokenContract string
	// Decimals the contract is expected to report. The live value is
	// fetched and checked against this before any amount conversion:
	// the same ticker uses 6 decimals on one chain and 18 on another.
	ExpectedDecimals int
}
