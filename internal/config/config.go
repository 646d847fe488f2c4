package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the gist proxy
type Config struct {
	// Server configuration
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream GitHub API configuration
	GitHub GitHubConfig

	// Cache configuration
	Cache CacheConfig

	// Redis configuration (used when the cache backend is redis)
	Redis RedisConfig

	// Timeouts
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// GitHubConfig holds upstream API configuration
type GitHubConfig struct {
	BaseURL   string        `env:"GITHUB_BASE_URL" envDefault:"https://api.github.com"`
	Token     string        `env:"GITHUB_TOKEN"`
	UserAgent string        `env:"GITHUB_USER_AGENT" envDefault:"gistproxy"`
	Timeout   time.Duration `env:"GITHUB_TIMEOUT" envDefault:"10s"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Backend         string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL             time.Duration `env:"CACHE_TTL" envDefault:"300s"`
	MonitorInterval time.Duration `env:"CACHE_MONITOR_INTERVAL" envDefault:"60s"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.GitHub.BaseURL == "" {
		return fmt.Errorf("github base URL is required")
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("github timeout must be positive")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be memory or redis)", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Cache.MonitorInterval <= 0 {
		return fmt.Errorf("cache monitor interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
