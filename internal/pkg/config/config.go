package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr        string        `env:"SERVER_ADDR" envDefault:":8080"`
	MetricsAddr       string        `env:"METRICS_ADDR" envDefault:":9091"`
	PostgresURL       string        `env:"POSTGRES_URL,required"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	JWTSecret         string        `env:"JWT_SECRET,required"`
	SessionMaxAge     time.Duration `env:"SESSION_MAX_AGE" envDefault:"0"` // 0 disables expiry
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"false"`
	ResetTokenTTL     time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	ItemCacheTTL      time.Duration `env:"ITEM_CACHE_TTL" envDefault:"5m"`
	PaymentURL        string        `env:"PAYMENT_URL,required"`
	PaymentSecretKey  string        `env:"PAYMENT_SECRET_KEY,required"`
	PaymentTimeout    time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"30s"`
	SMTPAddr          string        `env:"SMTP_ADDR"`
	SMTPFrom          string        `env:"SMTP_FROM" envDefault:"store@example.com"`
	FrontendURL       string        `env:"FRONTEND_URL" envDefault:"http://localhost:7777"`
	SigninRatePerMin  int           `env:"SIGNIN_RATE_PER_MIN" envDefault:"10"`
	SigninRateBurst   int           `env:"SIGNIN_RATE_BURST" envDefault:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
