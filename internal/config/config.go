package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Email       EmailConfig       `yaml:"email"`
	Events      EventsConfig      `yaml:"events"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Pricing     PricingConfig     `yaml:"pricing"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig contains HTTP and gRPC health listener settings
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	GRPCHealthPort         int    `yaml:"grpc_health_port"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings. When Enabled is false mail is only logged.
type EmailConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	AdminEmail     string `yaml:"admin_email"`
}

// EventsConfig contains NSQ publisher settings
type EventsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	NSQAddress  string `yaml:"nsq_address"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// RateLimitConfig throttles login attempts per client address
type RateLimitConfig struct {
	LoginPerMinute int `yaml:"login_per_minute"`
	LoginBurst     int `yaml:"login_burst"`
}

// PricingConfig overrides the rental pricing policy
type PricingConfig struct {
	TaxRate       string `yaml:"tax_rate"`
	DepositDays   int32  `yaml:"deposit_days"`
	MaxRentalDays int32  `yaml:"max_rental_days"`
}

// MaintenanceConfig controls the upcoming-maintenance report
type MaintenanceConfig struct {
	UpcomingWindowDays int   `yaml:"upcoming_window_days"`
	MileageThreshold   int32 `yaml:"mileage_threshold"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MaintenanceDigest string `yaml:"maintenance_digest"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file. A .env file in the working
// directory, when present, is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

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

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")

	// JWT
	setString(&c.JWT.Secret, "JWT_SECRET")

	// Server
	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")
	setInt(&c.Server.GRPCHealthPort, "GRPC_HEALTH_PORT")

	// Email
	setString(&c.Email.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Email.FromEmail, "EMAIL_FROM")
	setString(&c.Email.AdminEmail, "ADMIN_EMAIL")
	setBool(&c.Email.Enabled, "EMAIL_ENABLED")

	// Events
	setString(&c.Events.NSQAddress, "NSQ_ADDRESS")
	setBool(&c.Events.Enabled, "EVENTS_ENABLED")

	// Log
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCHealthPort < 0 || c.Server.GRPCHealthPort > 65535 {
		return fmt.Errorf("invalid grpc health port: %d", c.Server.GRPCHealthPort)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 7 * 24 * 60 // 7 days
	}

	// Email validation
	if c.Email.Enabled {
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Vehicle Rental"
	}

	// Events validation
	if c.Events.Enabled && c.Events.NSQAddress == "" {
		return fmt.Errorf("nsq address is required when events are enabled")
	}
	if c.Events.TopicPrefix == "" {
		c.Events.TopicPrefix = "rental"
	}

	// Rate limit defaults
	if c.RateLimit.LoginPerMinute == 0 {
		c.RateLimit.LoginPerMinute = 10
	}
	if c.RateLimit.LoginBurst == 0 {
		c.RateLimit.LoginBurst = 5
	}

	// Pricing defaults
	if c.Pricing.TaxRate == "" {
		c.Pricing.TaxRate = utils.DefaultTaxRate
	}
	if _, err := decimal.NewFromString(c.Pricing.TaxRate); err != nil {
		return fmt.Errorf("invalid pricing tax rate %q: %w", c.Pricing.TaxRate, err)
	}
	if c.Pricing.DepositDays == 0 {
		c.Pricing.DepositDays = utils.DefaultDepositDays
	}
	if c.Pricing.MaxRentalDays == 0 {
		c.Pricing.MaxRentalDays = utils.DefaultMaxRentalDays
	}

	// Maintenance defaults
	if c.Maintenance.UpcomingWindowDays == 0 {
		c.Maintenance.UpcomingWindowDays = 7
	}
	if c.Maintenance.MileageThreshold == 0 {
		c.Maintenance.MileageThreshold = 500
	}

	// Scheduler defaults
	if c.Scheduler.MaintenanceDigest == "" {
		c.Scheduler.MaintenanceDigest = "0 0 6 * * *" // 6 AM UTC
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

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCHealthAddress returns the gRPC health listener address, or "" when disabled
func (c *Config) GetGRPCHealthAddress() string {
	if c.Server.GRPCHealthPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCHealthPort)
}

// PricingPolicy converts the pricing section into the engine's policy
func (c *Config) PricingPolicy() utils.PricingPolicy {
	return utils.PricingPolicy{
		TaxRate:       decimal.RequireFromString(c.Pricing.TaxRate),
		DepositDays:   c.Pricing.DepositDays,
		MaxRentalDays: c.Pricing.MaxRentalDays,
	}
}

// AccessTokenTTL returns the access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

// UpcomingMaintenanceWindow returns the look-ahead used by the maintenance report
func (c *Config) UpcomingMaintenanceWindow() time.Duration {
	return time.Duration(c.Maintenance.UpcomingWindowDays) * 24 * time.Hour
}
