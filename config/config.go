package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Meili     MeiliConfig     `mapstructure:"meili"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// MeiliConfig holds search engine configuration
type MeiliConfig struct {
	URL              string        `mapstructure:"url"`
	APIKey           string        `mapstructure:"api_key"`
	Index            string        `mapstructure:"index"`
	TaskPollInterval time.Duration `mapstructure:"task_poll_interval"`
}

// CatalogConfig holds catalog pipeline settings
type CatalogConfig struct {
	ImageBaseURL string `mapstructure:"image_base_url"`
	ReindexLimit int64  `mapstructure:"reindex_limit"`
	SearchLimit  int64  `mapstructure:"search_limit"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/veganlens/")

	// VEGANLENS_MEILI_API_KEY maps to meili.api_key
	v.SetEnvPrefix("VEGANLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set in the
// environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout", "30s")

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "off")
	v.SetDefault("mongo.collection", "products")

	v.SetDefault("meili.url", "")
	v.SetDefault("meili.api_key", "")
	v.SetDefault("meili.index", "products")
	v.SetDefault("meili.task_poll_interval", "50ms")

	v.SetDefault("catalog.image_base_url", "https://images.openfoodfacts.org/images/products")
	v.SetDefault("catalog.reindex_limit", 1000)
	v.SetDefault("catalog.search_limit", 20)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Mongo.URI == "" {
		return fmt.Errorf("mongo URI is required (set VEGANLENS_MONGO_URI)")
	}

	if config.Meili.URL == "" {
		return fmt.Errorf("meilisearch URL is required (set VEGANLENS_MEILI_URL)")
	}

	if config.Catalog.ReindexLimit <= 0 {
		return fmt.Errorf("reindex limit must be positive, got: %d", config.Catalog.ReindexLimit)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	return nil
}
