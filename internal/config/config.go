// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	DataDir string

	// Static assets（空の場合はプレースホルダーページを配信する）
	StaticDir string

	// Session
	SessionMaxAge int

	// Stripe
	// StripeSecretKeyが未設定の場合、チェックアウトはデモモードで動作する。
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string

	// Checkout
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// Rate Limit（req/min単位）
	RateLimitGeneral  int
	RateLimitCheckout int

	// Logging
	LogLevel string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// すべての項目にデフォルト値があり、必須の環境変数はない。
// Stripe関連が未設定の場合はデモモードで起動できる。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DataDir = getEnvString("DATA_DIR", "./data")
	cfg.StaticDir = getEnvString("STATIC_DIR", "")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)

	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.StripePriceID = os.Getenv("STRIPE_PRICE_ID")

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)

	cfg.CheckoutSuccessURL = getEnvString("CHECKOUT_SUCCESS_URL", cfg.BaseURL+"/app?checkout=success")
	cfg.CheckoutCancelURL = getEnvString("CHECKOUT_CANCEL_URL", cfg.BaseURL+"/app?checkout=cancel")

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCheckout = getEnvInt("RATE_LIMIT_CHECKOUT", 10)

	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", cfg.BaseURL)

	return cfg, nil
}

// DemoMode は決済プロバイダーが未設定かどうかを返す。
func (c *Config) DemoMode() bool {
	return c.StripeSecretKey == ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
