package config

import (
	"time"

	pkgconfig "github.com/simonai-git/restaurant-recommendations/pkg/config"
)

// PlaceholderAPIKey is the value shipped in sample env files. It is treated
// the same as an unset key.
const PlaceholderAPIKey = "DEMO_KEY_REPLACE_ME"

// Config holds all configuration for the restaurant service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Places   PlacesConfig   `mapstructure:"places"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, mysql, sqlite
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	TimeZone        string        `mapstructure:"timezone"`
	FilePath        string        `mapstructure:"file_path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime"` // minutes
	LogLevel        string        `mapstructure:"log_level"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig holds fast store configuration. An empty URL and address
// disables the fast tier.
type RedisConfig struct {
	URL              string        `mapstructure:"url"`
	Address          string        `mapstructure:"address"`
	Password         string        `mapstructure:"password"`
	DB               int           `mapstructure:"db"`
	KeyPrefix        string        `mapstructure:"key_prefix"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
	OpTimeout        time.Duration `mapstructure:"op_timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	RetryBaseBackoff time.Duration `mapstructure:"retry_base_backoff"`
	RetryMaxBackoff  time.Duration `mapstructure:"retry_max_backoff"`
}

// Enabled reports whether a Redis endpoint is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

// PlacesConfig holds upstream Places API configuration.
type PlacesConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Latitude  float64       `mapstructure:"latitude"`
	Longitude float64       `mapstructure:"longitude"`
	Radius    int           `mapstructure:"radius"`
}

// HasCredential reports whether a usable API key is configured.
func (c PlacesConfig) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// CacheConfig holds per-resource TTLs for both tiers.
type CacheConfig struct {
	SearchFastTTL       time.Duration `mapstructure:"search_fast_ttl"`
	SearchPersistentTTL time.Duration `mapstructure:"search_persistent_ttl"`
	PlaceFastTTL        time.Duration `mapstructure:"place_fast_ttl"`
	PlaceFreshness      time.Duration `mapstructure:"place_freshness"`
	PhotoFastTTL        time.Duration `mapstructure:"photo_fast_ttl"`
	PhotoPersistentTTL  time.Duration `mapstructure:"photo_persistent_ttl"`
}

// CleanupConfig holds the expired-row sweeper configuration.
type CleanupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// AuthConfig holds the optional API key that guards write endpoints.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "restaurants")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.file_path", "restaurants.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", "200ms")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "")
	v.SetDefault("redis.dial_timeout", "2s")
	v.SetDefault("redis.op_timeout", "500ms")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_base_backoff", "200ms")
	v.SetDefault("redis.retry_max_backoff", "2s")

	v.SetDefault("places.api_key", "")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.timeout", "10s")
	v.SetDefault("places.latitude", 37.7749)
	v.SetDefault("places.longitude", -122.4194)
	v.SetDefault("places.radius", 50000)

	v.SetDefault("cache.search_fast_ttl", "1h")
	v.SetDefault("cache.search_persistent_ttl", "24h")
	v.SetDefault("cache.place_fast_ttl", "24h")
	v.SetDefault("cache.place_freshness", "24h")
	v.SetDefault("cache.photo_fast_ttl", "24h")
	v.SetDefault("cache.photo_persistent_ttl", "24h")

	v.SetDefault("cleanup.enabled", true)
	v.SetDefault("cleanup.interval", "1h")

	v.SetDefault("auth.api_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Bind environment variables
	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":        "PORT",
		"server.mode":        "GIN_MODE",
		"database.driver":    "DB_DRIVER",
		"database.url":       "DATABASE_URL",
		"database.host":      "DB_HOST",
		"database.port":      "DB_PORT",
		"database.user":      "DB_USER",
		"database.password":  "DB_PASSWORD",
		"database.dbname":    "DB_NAME",
		"database.sslmode":   "DB_SSLMODE",
		"database.timezone":  "DB_TIMEZONE",
		"database.file_path": "DB_FILE_PATH",
		"redis.url":          "REDIS_URL",
		"redis.address":      "REDIS_ADDRESS",
		"redis.password":     "REDIS_PASSWORD",
		"redis.db":           "REDIS_DB",
		"places.api_key":     "GOOGLE_PLACES_API_KEY",
		"places.base_url":    "GOOGLE_PLACES_BASE_URL",
		"auth.api_key":       "RESTAURANTS_API_KEY",
		"log.level":          "LOG_LEVEL",
		"log.pretty":         "LOG_PRETTY",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
