package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat   string `yaml:"logFormat" validate:"oneof=text json"`
}

// DatabaseConfig selects the backing store and holds its connection settings
type DatabaseConfig struct {
	Driver      string        `yaml:"driver" validate:"oneof=postgres sqlite"`
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Database    string        `yaml:"database"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	SSLMode     string        `yaml:"sslMode"`
	MaxConns    int           `yaml:"maxConns" validate:"min=1"`
	MinConns    int           `yaml:"minConns" validate:"min=0"`
	MaxIdleTime time.Duration `yaml:"maxIdleTime"`
	MaxLifetime time.Duration `yaml:"maxLifetime"`
	SQLitePath  string        `yaml:"sqlitePath"`
	Migrate     bool          `yaml:"migrate"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Backend  string        `yaml:"backend" validate:"oneof=memory redis"`
	TagTTL   time.Duration `yaml:"tagTTL"`
	ImageTTL time.Duration `yaml:"imageTTL"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

// StorageConfig describes the public object store images are served from
type StorageConfig struct {
	// PublicBaseURL is prefixed to every stored path, e.g.
	// https://<project>.supabase.co/storage/v1/object/public
	PublicBaseURL string `yaml:"publicBaseURL" validate:"required,url"`
}

// GalleryConfig holds image listing limits
type GalleryConfig struct {
	DefaultLimit       int `yaml:"defaultLimit" validate:"min=1"`
	MaxLimit           int `yaml:"maxLimit" validate:"min=1"`
	LegacyDefaultLimit int `yaml:"legacyDefaultLimit" validate:"min=1"`
	LegacyMaxLimit     int `yaml:"legacyMaxLimit" validate:"min=1"`
	TagJoinBatchSize   int `yaml:"tagJoinBatchSize" validate:"min=1"`
}

// RateLimitConfig holds per-client rate limiting settings (requires Redis)
type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"`
	Limit         int  `yaml:"limit" validate:"min=1"`
	WindowSeconds int  `yaml:"windowSeconds" validate:"min=1"`
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool `yaml:"enablePprof"`
	PprofPort   int  `yaml:"pprofPort"`
}

var validate = validator.New()

// Load loads configuration from defaults, an optional YAML file at CONFIG_PATH
// and environment variables, in that order of precedence.
func Load(serviceName string) (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg := Defaults(serviceName)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	return cfg, cfg.Validate()
}

// Defaults returns the built-in configuration
func Defaults(serviceName string) *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        8080,
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "text",
		},
		Database: DatabaseConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        5432,
			Database:    "postgres",
			User:        "postgres",
			Password:    "postgres",
			SSLMode:     "disable",
			MaxConns:    20,
			MinConns:    2,
			MaxIdleTime: 30 * time.Minute,
			MaxLifetime: 1 * time.Hour,
			SQLitePath:  "./gallery.db",
		},
		Cache: CacheConfig{
			Enabled:  true,
			Backend:  "memory",
			TagTTL:   1 * time.Hour,
			ImageTTL: 60 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			PublicBaseURL: "http://localhost:54321/storage/v1/object/public",
		},
		Gallery: GalleryConfig{
			DefaultLimit:       20,
			MaxLimit:           100,
			LegacyDefaultLimit: 50,
			LegacyMaxLimit:     200,
			TagJoinBatchSize:   2000,
		},
		RateLimit: RateLimitConfig{
			Enabled:       false,
			Limit:         300,
			WindowSeconds: 60,
		},
		Telemetry: TelemetryConfig{
			EnablePprof: false,
			PprofPort:   6060,
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Service.Port = getEnvInt("PORT", c.Service.Port)
	c.Service.Environment = getEnv("ENVIRONMENT", c.Service.Environment)
	c.Service.LogLevel = getEnv("LOG_LEVEL", c.Service.LogLevel)
	c.Service.LogFormat = getEnv("LOG_FORMAT", c.Service.LogFormat)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("POSTGRES_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("POSTGRES_PORT", c.Database.Port)
	c.Database.Database = getEnv("POSTGRES_DB", c.Database.Database)
	c.Database.User = getEnv("POSTGRES_USER", c.Database.User)
	c.Database.Password = getEnv("POSTGRES_PASSWORD", c.Database.Password)
	c.Database.SSLMode = getEnv("POSTGRES_SSLMODE", c.Database.SSLMode)
	c.Database.MaxConns = getEnvInt("POSTGRES_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvInt("POSTGRES_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxIdleTime = getEnvDuration("POSTGRES_MAX_IDLE_TIME", c.Database.MaxIdleTime)
	c.Database.MaxLifetime = getEnvDuration("POSTGRES_MAX_LIFETIME", c.Database.MaxLifetime)
	c.Database.SQLitePath = getEnv("SQLITE_DB_PATH", c.Database.SQLitePath)
	c.Database.Migrate = getEnvBool("DB_MIGRATE", c.Database.Migrate)

	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.TagTTL = getEnvDuration("CACHE_TAG_TTL", c.Cache.TagTTL)
	c.Cache.ImageTTL = getEnvDuration("CACHE_IMAGE_TTL", c.Cache.ImageTTL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Storage.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", c.Storage.PublicBaseURL)

	c.Gallery.DefaultLimit = getEnvInt("GALLERY_DEFAULT_LIMIT", c.Gallery.DefaultLimit)
	c.Gallery.MaxLimit = getEnvInt("GALLERY_MAX_LIMIT", c.Gallery.MaxLimit)
	c.Gallery.LegacyDefaultLimit = getEnvInt("GALLERY_LEGACY_DEFAULT_LIMIT", c.Gallery.LegacyDefaultLimit)
	c.Gallery.LegacyMaxLimit = getEnvInt("GALLERY_LEGACY_MAX_LIMIT", c.Gallery.LegacyMaxLimit)
	c.Gallery.TagJoinBatchSize = getEnvInt("GALLERY_TAG_JOIN_BATCH", c.Gallery.TagJoinBatchSize)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Limit = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimit.Limit)
	c.RateLimit.WindowSeconds = getEnvInt("RATE_LIMIT_WINDOW_SECONDS", c.RateLimit.WindowSeconds)

	c.Telemetry.EnablePprof = getEnvBool("ENABLE_PPROF", c.Telemetry.EnablePprof)
	c.Telemetry.PprofPort = getEnvInt("PPROF_PORT", c.Telemetry.PprofPort)
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Database.Driver == "postgres" {
		if c.Database.Host == "" {
			return errors.New("database host is required")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			return errors.New("max_conns must be >= min_conns")
		}
	}

	if c.Database.Driver == "sqlite" && c.Database.SQLitePath == "" {
		return errors.New("sqlite path is required")
	}

	if c.Gallery.DefaultLimit > c.Gallery.MaxLimit {
		return fmt.Errorf("default limit %d exceeds max limit %d", c.Gallery.DefaultLimit, c.Gallery.MaxLimit)
	}
	if c.Gallery.LegacyDefaultLimit > c.Gallery.LegacyMaxLimit {
		return fmt.Errorf("legacy default limit %d exceeds legacy max limit %d", c.Gallery.LegacyDefaultLimit, c.Gallery.LegacyMaxLimit)
	}

	if c.RateLimit.Enabled && c.Redis.Addr == "" {
		return errors.New("rate limiting requires a redis address")
	}
	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis cache backend requires a redis address")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
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

// NeedsRedis reports whether any enabled component talks to Redis
func (c *Config) NeedsRedis() bool {
	return c.RateLimit.Enabled || (c.Cache.Enabled && c.Cache.Backend == "redis")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
