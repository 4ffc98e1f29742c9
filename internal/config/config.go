package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/hardercore-api/internal/api"
	"github.com/mcoot/hardercore-api/internal/factory"
	"github.com/mcoot/hardercore-api/internal/identity"
	"github.com/mcoot/hardercore-api/internal/services/auth"
	redisstorage "github.com/mcoot/hardercore-api/internal/storage/redis"
)

// Config is the server's environment configuration
type Config struct {
	Host     string `env:"HC_HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"HC_PORT" envDefault:"8080"`
	LogLevel string `env:"HC_LOG_LEVEL" envDefault:"info"`

	DataDir      string        `env:"HC_DATA_DIR" envDefault:"db"`
	SaveInterval time.Duration `env:"HC_SAVE_INTERVAL" envDefault:"1m"`

	AuthToken     string `env:"HC_AUTH_TOKEN"`
	AuthTokenHash string `env:"HC_AUTH_TOKEN_HASH"`

	ProfileCache string        `env:"HC_PROFILE_CACHE" envDefault:"memory"`
	RedisURL     string        `env:"HC_REDIS_URL"`
	RedisPrefix  string        `env:"HC_REDIS_PREFIX" envDefault:"hcstats"`
	ProfileTTL   time.Duration `env:"HC_PROFILE_TTL"`

	IdentityURL       string        `env:"HC_IDENTITY_URL" envDefault:"https://sessionserver.mojang.com/session/minecraft/profile"`
	IdentityTimeout   time.Duration `env:"HC_IDENTITY_TIMEOUT" envDefault:"10s"`
	IdentityRateLimit float64       `env:"HC_IDENTITY_RATE_LIMIT" envDefault:"1"`
	IdentityBurst     int           `env:"HC_IDENTITY_BURST" envDefault:"10"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with
func (c Config) Validate() error {
	switch c.ProfileCache {
	case factory.ProfileCacheMemory:
	case factory.ProfileCacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("HC_REDIS_URL required when HC_PROFILE_CACHE=%s", factory.ProfileCacheRedis)
		}
	default:
		return fmt.Errorf("invalid HC_PROFILE_CACHE %q: must be %q or %q",
			c.ProfileCache, factory.ProfileCacheMemory, factory.ProfileCacheRedis)
	}
	if c.SaveInterval <= 0 {
		return fmt.Errorf("HC_SAVE_INTERVAL must be positive, got %s", c.SaveInterval)
	}
	if c.DataDir == "" {
		return fmt.Errorf("HC_DATA_DIR must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level
func (c Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid HC_LOG_LEVEL %q", s)
	}
	return level, nil
}

// Server returns the HTTP server configuration
func (c Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	return cfg
}

// Factory returns the application factory configuration
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		DataDir:      c.DataDir,
		SaveInterval: c.SaveInterval,
		Logger:       logger,
		ProfileCache: c.ProfileCache,
		AuthConfig: auth.Config{
			Token:     c.AuthToken,
			TokenHash: c.AuthTokenHash,
		},
		IdentityConfig: identity.ClientConfig{
			BaseURL:           c.IdentityURL,
			Timeout:           c.IdentityTimeout,
			RequestsPerSecond: c.IdentityRateLimit,
			Burst:             c.IdentityBurst,
		},
	}

	if c.ProfileCache == factory.ProfileCacheRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.KeyPrefix = c.RedisPrefix
		redisCfg.ProfileTTL = c.ProfileTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
