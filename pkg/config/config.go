package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration. Everything comes from the
// environment; collaborator credentials are passed down explicitly from here
// instead of being read by the SDKs themselves.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`

	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            int           `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"freehold"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"dev"`
	DBName            string        `env:"DB_NAME" envDefault:"freehold"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	// Identity provider settings. Keys are downloaded from IdentityKeysURL and
	// refreshed periodically; tokens must carry IdentityIssuer as issuer.
	IdentityKeysURL     string        `env:"IDENTITY_KEYS_URL"`
	IdentityIssuer      string        `env:"IDENTITY_ISSUER"`
	IdentityAdminURL    string        `env:"IDENTITY_ADMIN_URL"`
	IdentityAPIKey      string        `env:"IDENTITY_API_KEY"`
	IdentityKeyRefresh  time.Duration `env:"IDENTITY_KEY_REFRESH" envDefault:"6h"`
	IdentityHTTPTimeout time.Duration `env:"IDENTITY_HTTP_TIMEOUT" envDefault:"10s"`

	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"labspt.propman@gmail.com"`

	// Rate limit for authenticated principals, requests per second with burst.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// .env file is optional, mainly for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
