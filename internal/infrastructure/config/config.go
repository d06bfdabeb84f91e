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
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Scheduler    SchedulerConfig
	Orchestrator OrchestratorConfig
	Storage      StorageConfig
	Marketplaces MarketplacesConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
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

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// DictionaryTTL bounds how long marketplace reference values stay cached
	DictionaryTTL time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// SchedulerConfig holds sync worker pool configuration
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	QueueSize         int
}

// OrchestratorConfig holds sync orchestration intervals
type OrchestratorConfig struct {
	TickInterval       time.Duration
	OrderLookback      time.Duration
	OrdersInterval     time.Duration
	SuppliesInterval   time.Duration
	WarehousesInterval time.Duration
	AttributesInterval time.Duration
	ImportInterval     time.Duration
	PriceStockInterval time.Duration
}

// StorageConfig holds object storage settings for product images
type StorageConfig struct {
	// Driver selects the image store backend: "s3" or "stub"
	Driver          string
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible stores, empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	// TempPrefix is where upload sessions land before reconciliation
	// promotes them
	TempPrefix      string
	PermanentPrefix string
	PublicBaseURL   string
}

// MarketplaceAPIConfig holds per-marketplace HTTP client settings
type MarketplaceAPIConfig struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second against the marketplace API
	RateLimit float64
	Burst     int
}

// MarketplacesConfig holds settings for all marketplace adapters
type MarketplacesConfig struct {
	Ozon        MarketplaceAPIConfig
	Wildberries MarketplaceAPIConfig
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SELLERHUB_ prefix (e.g., SELLERHUB_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SELLERHUB")
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
		Redis: RedisConfig{
			Host:          v.GetString("redis.host"),
			Port:          v.GetInt("redis.port"),
			Password:      v.GetString("redis.password"),
			DB:            v.GetInt("redis.db"),
			DictionaryTTL: v.GetDuration("redis.dictionary_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
			RetryDelay:        v.GetDuration("scheduler.retry_delay"),
			QueueSize:         v.GetInt("scheduler.queue_size"),
		},
		Orchestrator: OrchestratorConfig{
			TickInterval:       v.GetDuration("orchestrator.tick_interval"),
			OrderLookback:      v.GetDuration("orchestrator.order_lookback"),
			OrdersInterval:     v.GetDuration("orchestrator.orders_interval"),
			SuppliesInterval:   v.GetDuration("orchestrator.supplies_interval"),
			WarehousesInterval: v.GetDuration("orchestrator.warehouses_interval"),
			AttributesInterval: v.GetDuration("orchestrator.attributes_interval"),
			ImportInterval:     v.GetDuration("orchestrator.import_interval"),
			PriceStockInterval: v.GetDuration("orchestrator.price_stock_interval"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("storage.driver"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			TempPrefix:      v.GetString("storage.temp_prefix"),
			PermanentPrefix: v.GetString("storage.permanent_prefix"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
		},
		Marketplaces: MarketplacesConfig{
			Ozon: MarketplaceAPIConfig{
				BaseURL:   v.GetString("marketplaces.ozon.base_url"),
				Timeout:   v.GetDuration("marketplaces.ozon.timeout"),
				RateLimit: v.GetFloat64("marketplaces.ozon.rate_limit"),
				Burst:     v.GetInt("marketplaces.ozon.burst"),
			},
			Wildberries: MarketplaceAPIConfig{
				BaseURL:   v.GetString("marketplaces.wildberries.base_url"),
				Timeout:   v.GetDuration("marketplaces.wildberries.timeout"),
				RateLimit: v.GetFloat64("marketplaces.wildberries.rate_limit"),
				Burst:     v.GetInt("marketplaces.wildberries.burst"),
			},
		},
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
		cfg.App.Name = "sellerhub-backend"
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
		cfg.Database.DBName = "sellerhub"
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
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.DictionaryTTL == 0 {
		cfg.Redis.DictionaryTTL = 6 * time.Hour
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
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB, batch payloads can be large
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until
	// explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 5
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 15 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = time.Minute
	}
	if cfg.Scheduler.QueueSize == 0 {
		cfg.Scheduler.QueueSize = 256
	}
	if cfg.Orchestrator.TickInterval == 0 {
		cfg.Orchestrator.TickInterval = time.Minute
	}
	if cfg.Orchestrator.OrderLookback == 0 {
		cfg.Orchestrator.OrderLookback = 30 * time.Minute
	}
	if cfg.Orchestrator.OrdersInterval == 0 {
		cfg.Orchestrator.OrdersInterval = 15 * time.Minute
	}
	if cfg.Orchestrator.SuppliesInterval == 0 {
		cfg.Orchestrator.SuppliesInterval = 30 * time.Minute
	}
	if cfg.Orchestrator.WarehousesInterval == 0 {
		cfg.Orchestrator.WarehousesInterval = 6 * time.Hour
	}
	if cfg.Orchestrator.AttributesInterval == 0 {
		cfg.Orchestrator.AttributesInterval = 24 * time.Hour
	}
	if cfg.Orchestrator.ImportInterval == 0 {
		cfg.Orchestrator.ImportInterval = 12 * time.Hour
	}
	if cfg.Orchestrator.PriceStockInterval == 0 {
		cfg.Orchestrator.PriceStockInterval = 30 * time.Minute
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "stub"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.TempPrefix == "" {
		cfg.Storage.TempPrefix = "uploads/tmp"
	}
	if cfg.Storage.PermanentPrefix == "" {
		cfg.Storage.PermanentPrefix = "uploads"
	}
	if cfg.Marketplaces.Ozon.BaseURL == "" {
		cfg.Marketplaces.Ozon.BaseURL = "https://api-seller.ozon.ru"
	}
	if cfg.Marketplaces.Ozon.Timeout == 0 {
		cfg.Marketplaces.Ozon.Timeout = 30 * time.Second
	}
	if cfg.Marketplaces.Ozon.RateLimit == 0 {
		cfg.Marketplaces.Ozon.RateLimit = 5
	}
	if cfg.Marketplaces.Ozon.Burst == 0 {
		cfg.Marketplaces.Ozon.Burst = 10
	}
	if cfg.Marketplaces.Wildberries.BaseURL == "" {
		cfg.Marketplaces.Wildberries.BaseURL = "https://suppliers-api.wildberries.ru"
	}
	if cfg.Marketplaces.Wildberries.Timeout == 0 {
		cfg.Marketplaces.Wildberries.Timeout = 30 * time.Second
	}
	if cfg.Marketplaces.Wildberries.RateLimit == 0 {
		// Wildberries throttles aggressively on taxonomy endpoints
		cfg.Marketplaces.Wildberries.RateLimit = 1
	}
	if cfg.Marketplaces.Wildberries.Burst == 0 {
		cfg.Marketplaces.Wildberries.Burst = 3
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

	if c.Storage.Driver != "s3" && c.Storage.Driver != "stub" {
		return fmt.Errorf("storage.driver must be 's3' or 'stub', got %q", c.Storage.Driver)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Storage.Driver == "stub" {
			return fmt.Errorf("storage.driver 'stub' is not allowed in production")
		}
		if c.Storage.Driver == "s3" && c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage.driver is 's3'")
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
