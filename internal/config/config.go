// Package config reads the catalog service configuration from the
// environment. Every ingestion option is optional: an unset option
// silently disables the corresponding source rather than failing
// startup, since the static fallback keeps the catalog serving regardless.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/housevarsha/catalog-service/pkg/config"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int      `env:"CATALOG_HTTP_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Google service account (authenticated sheet source)
	ServiceAccountEmail string `env:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	ServiceAccountKey   string `env:"GOOGLE_PRIVATE_KEY"`
	SheetID             string `env:"GOOGLE_SHEET_ID"`
	ProductsRange       string `env:"GOOGLE_SHEETS_PRODUCTS_RANGE" envDefault:"Products!A:N"`
	SettingsRange       string `env:"GOOGLE_SHEETS_SETTINGS_RANGE" envDefault:"Site-Settings!A:B"`
	SheetsBaseURL       string `env:"GOOGLE_SHEETS_BASE_URL" envDefault:"https://sheets.googleapis.com"`
	TokenURL            string `env:"GOOGLE_OAUTH_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	SheetsScope         string `env:"GOOGLE_SHEETS_SCOPE" envDefault:"https://www.googleapis.com/auth/spreadsheets.readonly"`

	// Published CSV feeds (public fallback source)
	ProductsFeedURL string `env:"GOOGLE_SHEETS_PRODUCTS_URL"`
	SettingsFeedURL string `env:"GOOGLE_SHEETS_SETTINGS_URL"`

	// Image hosting
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`

	// Cache
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	// Outbound fetches
	FetchTimeoutSeconds int `env:"FETCH_TIMEOUT_SECONDS" envDefault:"10"`

	// Revalidation endpoint
	RevalidationSecret string `env:"REVALIDATION_SECRET"`
	RevalidateRPS      int    `env:"REVALIDATE_RATE_LIMIT" envDefault:"1"`
	RevalidateBurst    int    `env:"REVALIDATE_RATE_BURST" envDefault:"3"`

	// Redis snapshot store (optional; in-memory slot when unset)
	RedisAddr string `env:"REDIS_ADDR"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka (optional; events disabled when unset)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CacheTTLSeconds < 1 {
		return fmt.Errorf("invalid cache TTL: %d", c.CacheTTLSeconds)
	}
	if c.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("invalid fetch timeout: %d", c.FetchTimeoutSeconds)
	}
	return nil
}

// CacheTTL returns the snapshot TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the per-source fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// SheetsConfigured reports whether the authenticated source has the
// credentials and sheet id it needs.
func (c *Config) SheetsConfigured() bool {
	return c.ServiceAccountEmail != "" && c.ServiceAccountKey != "" && c.SheetID != ""
}
