// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// DBURL selects the postgres-backed product catalog when set. When
	// empty the catalog is read from CatalogPath instead.
	DBURL       string `env:"DB_URL"`
	CatalogPath string `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`

	// RedisURL selects the Redis analysis cache when set; otherwise an
	// in-process cache is used.
	RedisURL    string        `env:"REDIS_URL"`
	AnalysisTTL time.Duration `env:"ANALYSIS_TTL" envDefault:"30m"`

	// AnalyzerBaseURL points at the external skin analysis backend.
	// When empty the deterministic stub analyzer is used, which keeps
	// local development and tests network-free.
	AnalyzerBaseURL string        `env:"ANALYZER_BASE_URL"`
	AnalyzerAPIKey  string        `env:"ANALYZER_API_KEY"`
	AnalyzerTimeout time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"30s"`
	// Analyzer Backoff Configuration
	AnalyzerBackoffMaxElapsedTime  time.Duration `env:"ANALYZER_BACKOFF_MAX_ELAPSED_TIME" envDefault:"60s"`
	AnalyzerBackoffInitialInterval time.Duration `env:"ANALYZER_BACKOFF_INITIAL_INTERVAL" envDefault:"1s"`
	AnalyzerBackoffMaxInterval     time.Duration `env:"ANALYZER_BACKOFF_MAX_INTERVAL" envDefault:"10s"`
	AnalyzerBackoffMultiplier      float64       `env:"ANALYZER_BACKOFF_MULTIPLIER" envDefault:"2.0"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"shine-skin-analysis"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// GetAnalyzerBackoffConfig returns backoff settings appropriate for the
// current environment. Test runs use much shorter intervals.
func (c Config) GetAnalyzerBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.AnalyzerBackoffMaxElapsedTime, c.AnalyzerBackoffInitialInterval, c.AnalyzerBackoffMaxInterval, c.AnalyzerBackoffMultiplier
}
