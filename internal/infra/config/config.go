package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Log          LogConfig          `mapstructure:"log"`
	Email        EmailConfig        `mapstructure:"email"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	IdempotencyTTL  time.Duration `mapstructure:"idempotency_ttl"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	Issuer            string        `mapstructure:"issuer"`
	AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmailConfig holds email configuration.
type EmailConfig struct {
	Provider    string        `mapstructure:"provider"` // "smtp" or "noop"
	SMTP        SMTPConfig    `mapstructure:"smtp"`
	FromAddress string        `mapstructure:"from_address"`
	FromName    string        `mapstructure:"from_name"`
	BaseURL     string        `mapstructure:"base_url"` // For dashboard links
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

// SMTPConfig holds SMTP configuration.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// BreakerConfig holds circuit breaker settings for outgoing mail.
type BreakerConfig struct {
	FailureThreshold    uint32        `mapstructure:"failure_threshold"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxHalfOpenRequests uint32        `mapstructure:"max_half_open_requests"`
}

// SubscriptionConfig holds the fallback values for the subscription settings
// rows and lifecycle tuning.
type SubscriptionConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MonthlyFee       int64         `mapstructure:"monthly_fee"`
	FreeTrialDays    int           `mapstructure:"free_trial_days"`
	GracePeriodDays  int           `mapstructure:"grace_period_days"`
	RenewalWindow    time.Duration `mapstructure:"renewal_window"`
	SettingsCacheTTL time.Duration `mapstructure:"settings_cache_ttl"`
}

// SchedulerConfig holds the sweeper schedule.
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AutoRenewCron string `mapstructure:"auto_renew_cron"`
	ExpiryCron    string `mapstructure:"expiry_cron"`
	Timezone      string `mapstructure:"timezone"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowOrigins     []string      `mapstructure:"allow_origins"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from the given file, or from the default
// search paths when path is empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/homerent")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("HOMERENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Sensitive values
	if secret := os.Getenv("HOMERENT_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password := os.Getenv("HOMERENT_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("HOMERENT_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if password := os.Getenv("HOMERENT_SMTP_PASSWORD"); password != "" {
		cfg.Email.SMTP.Password = password
	}
	if s := os.Getenv("HOMERENT_CORS_ORIGINS"); s != "" {
		cfg.CORS.AllowOrigins = parseCommaSeparatedList(s)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Subscription.MonthlyFee < 0 {
		return fmt.Errorf("subscription.monthly_fee must not be negative")
	}
	if c.Subscription.FreeTrialDays < 0 || c.Subscription.GracePeriodDays < 0 {
		return fmt.Errorf("subscription day counts must not be negative")
	}
	switch c.Email.Provider {
	case "smtp", "noop":
	default:
		return fmt.Errorf("unknown email.provider %q", c.Email.Provider)
	}
	if c.Scheduler.Enabled && (c.Scheduler.AutoRenewCron == "" || c.Scheduler.ExpiryCron == "") {
		return fmt.Errorf("scheduler cron expressions are required when scheduler is enabled")
	}
	return nil
}

func parseCommaSeparatedList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.idempotency_ttl", 24*time.Hour)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "homerent")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "homerent:")

	// Auth defaults
	v.SetDefault("auth.issuer", "homerent")
	v.SetDefault("auth.access_token_expiry", 15*time.Minute)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.from_name", "HomeRent")
	v.SetDefault("email.breaker.failure_threshold", 5)
	v.SetDefault("email.breaker.timeout", 60*time.Second)
	v.SetDefault("email.breaker.max_half_open_requests", 1)

	// Subscription defaults
	v.SetDefault("subscription.enabled", true)
	v.SetDefault("subscription.monthly_fee", 299000)
	v.SetDefault("subscription.free_trial_days", 30)
	v.SetDefault("subscription.grace_period_days", 3)
	v.SetDefault("subscription.renewal_window", 24*time.Hour)
	v.SetDefault("subscription.settings_cache_ttl", 5*time.Minute)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.auto_renew_cron", "0 0 * * *")
	v.SetDefault("scheduler.expiry_cron", "30 0 * * *")
	v.SetDefault("scheduler.timezone", "Asia/Ho_Chi_Minh")

	// Metrics defaults
	v.SetDefault("metrics.namespace", "homerent")

	// CORS defaults
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 12*time.Hour)
}
