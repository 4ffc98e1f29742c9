package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/hardercore-api/internal/dependencies/clock"
	"github.com/mcoot/hardercore-api/internal/identity"
	"github.com/mcoot/hardercore-api/internal/saver"
	"github.com/mcoot/hardercore-api/internal/services/auth"
	"github.com/mcoot/hardercore-api/internal/storage"
	"github.com/mcoot/hardercore-api/internal/storage/memory"
	redisstorage "github.com/mcoot/hardercore-api/internal/storage/redis"
	"github.com/mcoot/hardercore-api/internal/store"
)

// Profile cache backends
const (
	ProfileCacheMemory = "memory"
	ProfileCacheRedis  = "redis"
)

// DefaultSaveInterval is used when Config.SaveInterval is zero
const DefaultSaveInterval = time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Profiles storage.ProfileStore
	Store    *store.Store

	// External dependencies
	Clock    clock.Clock
	Identity identity.Resolver

	// Services
	IdentityCache *identity.Cache
	AuthService   *auth.Service
	Saver         *saver.Saver

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// DataDir is the store root. It is initialized on first use.
	DataDir string
	// SaveInterval is the period of the background flush (optional)
	SaveInterval time.Duration
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// IdentityConfig configures the profile lookup client (optional)
	// If zero value, defaults to identity.DefaultClientConfig()
	IdentityConfig identity.ClientConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// ProfileCache selects the resolved-profile backend ("memory" or "redis")
	// If empty, defaults to "memory"
	ProfileCache string
	// RedisConfig holds Redis connection settings (required if ProfileCache is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var profiles storage.ProfileStore
	var closers []io.Closer
	backend := cfg.ProfileCache
	if backend == "" {
		backend = ProfileCacheMemory
	}

	switch backend {
	case ProfileCacheMemory:
		profiles = memory.New()
	case ProfileCacheRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when ProfileCache is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		profiles = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid ProfileCache: must be 'memory' or 'redis'")
	}

	identityCfg := cfg.IdentityConfig
	if identityCfg == (identity.ClientConfig{}) {
		identityCfg = identity.DefaultClientConfig()
	}

	app, err := newWithDependencies(profiles, identity.NewClient(identityCfg), clock.New(), cfg, logger)
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, err
	}
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(profiles storage.ProfileStore, resolver identity.Resolver, clk clock.Clock, cfg Config, logger *slog.Logger) (*App, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("DataDir required")
	}
	interval := cfg.SaveInterval
	if interval == 0 {
		interval = DefaultSaveInterval
	}

	authService, err := auth.New(clk, cfg.AuthConfig)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	cache := identity.NewCache(resolver, profiles, logger)
	st, err := store.OpenOrInitialize(cfg.DataDir, cache, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &App{
		Profiles:      profiles,
		Store:         st,
		Clock:         clk,
		Identity:      resolver,
		IdentityCache: cache,
		AuthService:   authService,
		Saver:         saver.New(st, interval, clk, logger),
	}, nil
}

// Close releases external connections. It does not flush the store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
