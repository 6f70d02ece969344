package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Payment   PaymentConfig   `yaml:"payment"`
	Cache     CacheConfig     `yaml:"cache"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RedisConfig enables the shared config cache when Addr is set.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SendGridConfig enables notification emails when APIKey is set.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PaymentConfig selects the payment and delivery providers
type PaymentConfig struct {
	Provider       string `yaml:"provider"` // "mock" or "http"
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"` // used by the mock provider for payment URLs
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type CacheConfig struct {
	ConfigTTLSeconds int `yaml:"config_ttl_seconds"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ExpireNegotiationHolds string `yaml:"expire_negotiation_holds"`
	SendRentalReminders    string `yaml:"send_rental_reminders"`
	RetryPendingPayments   string `yaml:"retry_pending_payments"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applies environment
// overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)
	envString("DB_MIGRATIONS_DIR", &c.Database.MigrationsDir)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)

	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	// Redis
	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	// SendGrid
	envString("SENDGRID_API_KEY", &c.SendGrid.APIKey)
	envString("SENDGRID_FROM_EMAIL", &c.SendGrid.FromEmail)
	envString("SENDGRID_FROM_NAME", &c.SendGrid.FromName)

	// Payment
	envString("PAYMENT_PROVIDER", &c.Payment.Provider)
	envString("PAYMENT_ENDPOINT", &c.Payment.Endpoint)
	envString("PAYMENT_API_KEY", &c.Payment.APIKey)
}

// Validate checks the configuration and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "migrations"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "sharewardrobe"
	}

	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when api_key is set")
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "ShareWardrobe"
	}

	switch c.Payment.Provider {
	case "":
		c.Payment.Provider = "mock"
	case "mock":
	case "http":
		if c.Payment.Endpoint == "" {
			return fmt.Errorf("payment endpoint is required for the http provider")
		}
	default:
		return fmt.Errorf("unsupported payment provider: %s", c.Payment.Provider)
	}
	if c.Payment.TimeoutSeconds <= 0 {
		c.Payment.TimeoutSeconds = 10
	}

	if c.Cache.ConfigTTLSeconds < 0 {
		return fmt.Errorf("invalid cache TTL: %d", c.Cache.ConfigTTLSeconds)
	}
	if c.Cache.ConfigTTLSeconds == 0 {
		c.Cache.ConfigTTLSeconds = 60
	}

	if c.Scheduler.ExpireNegotiationHolds == "" {
		c.Scheduler.ExpireNegotiationHolds = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.SendRentalReminders == "" {
		c.Scheduler.SendRentalReminders = "0 0 9 * * *" // 9 AM daily
	}
	if c.Scheduler.RetryPendingPayments == "" {
		c.Scheduler.RetryPendingPayments = "0 */10 * * * *" // every 10 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ConfigCacheTTL() time.Duration {
	return time.Duration(c.Cache.ConfigTTLSeconds) * time.Second
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.Payment.TimeoutSeconds) * time.Second
}
