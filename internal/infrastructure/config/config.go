package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Log           LogConfig
	HTTP          HTTPConfig
	Commerce      CommerceConfig
	Sync          SyncConfig
	Rates         RatesConfig
	Replenishment ReplenishmentConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CommerceConfig holds upstream commerce API settings. BaseURL and Token
// are required; their absence is a configuration error surfaced before any
// network call is attempted.
type CommerceConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// SyncConfig holds sync scheduler settings
type SyncConfig struct {
	Enabled  bool
	Schedule string // cron expression, fires on wall-clock boundaries
	Timezone string
}

// RatesConfig holds exchange-rate source settings
type RatesConfig struct {
	SourceURL     string
	Timeout       time.Duration
	BufferPercent float64 // markup applied to the raw rate to hedge currency risk
}

// ReplenishmentConfig holds purchasing-signal parameters
type ReplenishmentConfig struct {
	LeadTimeDays    int
	MinStock        int
	DeliveryPerUnit float64 // fixed per-unit delivery cost in RUB
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with PHARMADASH_ prefix (e.g. PHARMADASH_COMMERCE_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PHARMADASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Commerce: CommerceConfig{
			BaseURL: v.GetString("commerce.base_url"),
			Token:   v.GetString("commerce.token"),
			Timeout: v.GetDuration("commerce.timeout"),
		},
		Sync: SyncConfig{
			Enabled:  v.GetBool("sync.enabled"),
			Schedule: v.GetString("sync.schedule"),
			Timezone: v.GetString("sync.timezone"),
		},
		Rates: RatesConfig{
			SourceURL:     v.GetString("rates.source_url"),
			Timeout:       v.GetDuration("rates.timeout"),
			BufferPercent: v.GetFloat64("rates.buffer_percent"),
		},
		Replenishment: ReplenishmentConfig{
			LeadTimeDays:    v.GetInt("replenishment.lead_time_days"),
			MinStock:        v.GetInt("replenishment.min_stock"),
			DeliveryPerUnit: v.GetFloat64("replenishment.delivery_per_unit"),
		},
	}

	// sync.enabled defaults to true unless explicitly set
	if !v.IsSet("sync.enabled") {
		cfg.Sync.Enabled = true
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pharmadash-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "pharmadash"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Commerce.Timeout == 0 {
		cfg.Commerce.Timeout = 30 * time.Second
	}
	if cfg.Sync.Schedule == "" {
		cfg.Sync.Schedule = "*/5 * * * *"
	}
	if cfg.Sync.Timezone == "" {
		cfg.Sync.Timezone = "Europe/Moscow"
	}
	if cfg.Rates.Timeout == 0 {
		cfg.Rates.Timeout = 10 * time.Second
	}
	if cfg.Rates.BufferPercent == 0 {
		cfg.Rates.BufferPercent = 5
	}
	if cfg.Replenishment.LeadTimeDays == 0 {
		cfg.Replenishment.LeadTimeDays = 14
	}
	if cfg.Replenishment.MinStock == 0 {
		cfg.Replenishment.MinStock = 5
	}
	if cfg.Replenishment.DeliveryPerUnit == 0 {
		cfg.Replenishment.DeliveryPerUnit = 350
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Replenishment.LeadTimeDays < 0 {
		return fmt.Errorf("replenishment.lead_time_days cannot be negative")
	}
	if c.Replenishment.MinStock < 0 {
		return fmt.Errorf("replenishment.min_stock cannot be negative")
	}
	if c.Rates.BufferPercent < 0 {
		return fmt.Errorf("rates.buffer_percent cannot be negative")
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("sync.timezone %q is not a valid IANA timezone: %w", c.Sync.Timezone, err)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Commerce.BaseURL == "" {
			return fmt.Errorf("commerce.base_url is required in production")
		}
		if c.Commerce.Token == "" {
			return fmt.Errorf("commerce.token is required in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
