package handler

import (
	"net/http"

	"github.com/mcoot/hardercore-api/internal/api/response"
	"github.com/mcoot/hardercore-api/internal/saver"
	"github.com/mcoot/hardercore-api/internal/store"
)

// Homepage is the body served at the root path
const Homepage = "You have reached the homepage of hardercore-api"

// HealthHandler reports liveness and save status
type HealthHandler struct {
	store *store.Store
	saver *saver.Saver
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(st *store.Store, sv *saver.Saver) *HealthHandler {
	return &HealthHandler{
		store: st,
		saver: sv,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthFromStatus(h.store.ActiveGeneration(), h.saver.Status()))
}

// Home handles GET /
func (h *HealthHandler) Home(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, Homepage)
}
