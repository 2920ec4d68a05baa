package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Webhook   WebhookConfig
	Gateway   GatewayConfig
	Email     EmailConfig
	Reconcile ReconcileConfig
	Report    ReportConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// WebhookConfig holds the shared secret for payment gateway callbacks.
type WebhookConfig struct {
	CallbackToken string
}

// GatewayConfig holds payment gateway API configuration.
type GatewayConfig struct {
	BaseURL        string
	SecretKey      string
	TimeoutSeconds int
}

// EmailConfig holds transactional email API configuration.
type EmailConfig struct {
	BaseURL                string
	APIKey                 string
	SenderEmail            string
	SenderName             string
	ConfirmationTemplateID int
	CartAbandonTemplateID  int
	SiteAbandonTemplateID  int
	TimeoutSeconds         int
}

// ReconcileConfig holds reconciliation sweep configuration.
type ReconcileConfig struct {
	LookbackDays int
	Concurrency  int
}

// ReportConfig holds sweep report archiving configuration.
type ReportConfig struct {
	S3Enabled bool
	Bucket    string
	Region    string
	Prefix    string // Path prefix within bucket (e.g., "reports/")
	LocalDir  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "vapemart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Webhook: WebhookConfig{
			CallbackToken: getEnv("WEBHOOK_CALLBACK_TOKEN", ""),
		},
		Gateway: GatewayConfig{
			BaseURL:        getEnv("GATEWAY_BASE_URL", "https://api.xendit.co"),
			SecretKey:      getEnv("GATEWAY_SECRET_KEY", ""),
			TimeoutSeconds: getEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 10),
		},
		Email: EmailConfig{
			BaseURL:                getEnv("EMAIL_BASE_URL", "https://api.brevo.com"),
			APIKey:                 getEnv("EMAIL_API_KEY", ""),
			SenderEmail:            getEnv("EMAIL_SENDER_ADDRESS", "orders@vapemart.id"),
			SenderName:             getEnv("EMAIL_SENDER_NAME", "VapeMart"),
			ConfirmationTemplateID: getEnvAsInt("EMAIL_CONFIRMATION_TEMPLATE_ID", 1),
			CartAbandonTemplateID:  getEnvAsInt("EMAIL_CART_ABANDON_TEMPLATE_ID", 2),
			SiteAbandonTemplateID:  getEnvAsInt("EMAIL_SITE_ABANDON_TEMPLATE_ID", 3),
			TimeoutSeconds:         getEnvAsInt("EMAIL_TIMEOUT_SECONDS", 10),
		},
		Reconcile: ReconcileConfig{
			LookbackDays: getEnvAsInt("RECONCILE_LOOKBACK_DAYS", 30),
			Concurrency:  getEnvAsInt("RECONCILE_CONCURRENCY", 4),
		},
		Report: ReportConfig{
			S3Enabled: getEnvAsBool("REPORT_S3_ENABLED", false),
			Bucket:    getEnv("REPORT_S3_BUCKET", ""),
			Region:    getEnv("REPORT_S3_REGION", "ap-southeast-1"),
			Prefix:    getEnv("REPORT_S3_PREFIX", "reports/"),
			LocalDir:  getEnv("REPORT_LOCAL_DIR", "reports"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Webhook.CallbackToken == "" {
		return fmt.Errorf("webhook callback token is required")
	}

	if c.Gateway.SecretKey == "" {
		return fmt.Errorf("gateway secret key is required")
	}

	if c.Email.APIKey == "" {
		return fmt.Errorf("email API key is required")
	}

	if c.Reconcile.LookbackDays < 1 {
		return fmt.Errorf("reconcile lookback days must be at least 1")
	}

	if c.Reconcile.Concurrency < 1 {
		return fmt.Errorf("reconcile concurrency must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Report.S3Enabled {
		if c.Report.Bucket == "" {
			return fmt.Errorf("report S3 bucket is required when S3 archiving is enabled")
		}
		if c.Report.Region == "" {
			return fmt.Errorf("report S3 region is required when S3 archiving is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the gateway HTTP client timeout.
func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the email HTTP client timeout.
func (c *EmailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LookbackWindow returns the reconcile lookback as a duration.
func (c *ReconcileConfig) LookbackWindow() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
