package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sentinel/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Storage       StorageConfig
	Airtable      AirtableConfig
	AI            AIConfig
	RateLimit     RateLimitConfig
	Assessments   AssessmentConfig
	Audit         AuditConfig
	Redis         RedisConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sentinel"`
	Version  string `envconfig:"APP_VERSION" default:"1.1.0"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port           int    `envconfig:"SERVER_PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// Origins parses the comma-separated CORS origin list
func (c ServerConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type StorageConfig struct {
	Type        string `envconfig:"STORAGE_TYPE" default:"local"`
	Path        string `envconfig:"STORAGE_PATH" default:"./uploads"`
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	GCSBucket   string `envconfig:"GCS_BUCKET_NAME"`
	MaxFileSize int64  `envconfig:"MAX_FILE_SIZE" default:"10485760"` // 10MB
}

type AirtableConfig struct {
	APIKey         string `envconfig:"AIRTABLE_API_KEY"`
	BaseID         string `envconfig:"AIRTABLE_BASE_ID"`
	VendorsTable   string `envconfig:"AIRTABLE_VENDORS_TABLE" default:"Vendors"`
	DocumentsTable string `envconfig:"AIRTABLE_DOCUMENTS_TABLE" default:"Documents"`
}

// Configured reports whether real Airtable credentials are present.
// Without them the repositories run in mock mode.
func (c AirtableConfig) Configured() bool {
	return c.APIKey != "" && c.BaseID != ""
}

type AIConfig struct {
	GeminiKey      string  `envconfig:"GEMINI_API_KEY"`
	Model          string  `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	TimeoutSeconds int     `envconfig:"GEMINI_TIMEOUT_SECONDS" default:"60"`
	ReqPerMinute   float64 `envconfig:"GEMINI_REQ_PER_MINUTE" default:"60"`
	Burst          int     `envconfig:"GEMINI_BURST" default:"5"`
}

// Configured reports whether a Gemini API key is present.
// Without one the analyzer and synthesizer run in mock mode.
func (c AIConfig) Configured() bool {
	return c.GeminiKey != ""
}

type RateLimitConfig struct {
	Enabled              bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	AnalyzePerMinute     float64 `envconfig:"RATE_LIMIT_ANALYZE_PER_MINUTE" default:"5"`
	ComprehensivePerHour float64 `envconfig:"RATE_LIMIT_COMPREHENSIVE_PER_HOUR" default:"3"`
}

type AssessmentConfig struct {
	Path string `envconfig:"ASSESSMENTS_PATH" default:"./assessments"`
}

type AuditConfig struct {
	Enabled bool   `envconfig:"AUDIT_LOG_ENABLED" default:"true"`
	Path    string `envconfig:"AUDIT_LOG_PATH" default:"logs/audit.log"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	switch cfg.Storage.Type {
	case "local", "gcs":
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown storage type %q", cfg.Storage.Type)
	}

	return &cfg, nil
}
