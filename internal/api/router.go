package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/hardercore-api/internal/api/apierr"
	"github.com/mcoot/hardercore-api/internal/api/handler"
	"github.com/mcoot/hardercore-api/internal/api/middleware"
	corelog "github.com/mcoot/hardercore-api/internal/middleware"
	"github.com/mcoot/hardercore-api/internal/saver"
	"github.com/mcoot/hardercore-api/internal/services/auth"
	"github.com/mcoot/hardercore-api/internal/store"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Store       *store.Store
	Saver       *saver.Saver
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	worldHandler := handler.NewWorldHandler(cfg.Store, cfg.Saver)
	statsHandler := handler.NewStatsHandler(cfg.Store, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Saver)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(corelog.Logging(cfg.Logger))

	// Public routes
	r.HandleFunc("/", healthHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/database/path", worldHandler.DatabasePath).Methods(http.MethodGet)
	r.HandleFunc("/world/current", worldHandler.Current).Methods(http.MethodGet)
	r.HandleFunc("/world/uptime", worldHandler.Uptime).Methods(http.MethodGet)
	r.HandleFunc("/world/stats", statsHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/world/stats/{id}", statsHandler.Get).Methods(http.MethodGet)

	// Mutating routes require the shared token
	r.Handle("/world", protected(worldHandler.Switch)).Methods(http.MethodPut)
	r.Handle("/world/create", protected(worldHandler.Create)).Methods(http.MethodPut)
	r.Handle("/world/kill", protected(worldHandler.Kill)).Methods(http.MethodPut)
	r.Handle("/world/save", protected(worldHandler.Save)).Methods(http.MethodPut)
	// Registered before /world/stats/{id} so "uptime" is not taken as a player id
	r.Handle("/world/stats/uptime", protected(worldHandler.SetUptime)).Methods(http.MethodPut)
	r.Handle("/world/stats/{id}", protected(statsHandler.Put)).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	return r
}
