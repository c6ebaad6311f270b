package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CheckoutAPIKey:        os.Getenv("CHECKOUT_API_KEY"),
		CheckoutWebhookSecret: os.Getenv("CHECKOUT_WEBHOOK_SECRET"),
		CheckoutBaseURL:    getenv("CHECKOUT_BASE_URL", "https://api.paymongo.com/v1"),
		CheckoutSuccessURL: os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:  os.Getenv("CHECKOUT_CANCEL_URL"),

		RateAPIURL:     os.Getenv("RATE_API_URL"),
		RateFallback:   getfloat("RATE_FALLBACK_PHP_USD", 0.0172),
		CryptoFeePct:   getfloat("CRYPTO_FEE_PCT", 6),
		OperatorWallet: os.Getenv("OPERATOR_WALLET"),
		Chains: map[string]Chain{
			"polygon": {
				Name:             "polygon",
				RPCURL:           getenv("POLYGON_RPC_URL", "https://polygon-rpc.com"),
				TokenContract:    getenv("POLYGON_USDC_CONTRACT", "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"),
				ExpectedDecimals: 6,
			},
			"base": {
				Name:             "base",
				RPCURL:           getenv("BASE_RPC_URL", "https://mainnet.base.org"),
				TokenContract:    getenv("BASE_USDC_CONTRACT", "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
				ExpectedDecimals: 6,
			},
		},

		NotifyURL: os.Getenv("NOTIFY_URL"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("bad float env, using default", "key", k, "value", v)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
