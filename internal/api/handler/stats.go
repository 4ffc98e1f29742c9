package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/hardercore-api/internal/api/request"
	"github.com/mcoot/hardercore-api/internal/api/response"
	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/store"
)

// StatsHandler handles player stats endpoints
type StatsHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(st *store.Store, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		store:  st,
		logger: logger,
	}
}

// List handles GET /world/stats
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	world := h.store.ActiveGeneration()
	response.JSON(w, http.StatusOK, response.StatsListFromModel(world, h.store.GetAllStats()))
}

// Get handles GET /world/stats/{id}
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	stats, err := h.store.GetStats(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(id, stats))
}

// Put handles PUT /world/stats/{id}. Counters are added to the player's
// record; with a killInfo object the same update also ends the current world.
func (h *StatsHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.StatsRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	var death *model.DeathRecord
	if req.KillInfo != nil {
		d := req.KillInfo.ToModel()
		if d.Killer == "" {
			d.Killer = id
		}
		if err := d.Killer.Validate(); err != nil {
			WriteError(w, err)
			return
		}
		death = &d
	}

	var stats model.PlayerStats
	var err error
	if death != nil {
		stats, err = h.store.ApplyStatsAndEnd(r.Context(), id, req.Deltas(), *death)
	} else {
		err = h.store.ApplyStats(r.Context(), id, req.Deltas())
		if err == nil {
			stats, err = h.store.GetStats(id)
		}
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	if death != nil {
		h.logger.Info("world ended by player update",
			slog.String("player_id", string(id)),
			slog.String("killer", string(death.Killer)),
		)
	}

	response.JSON(w, http.StatusOK, response.StatsUpdate{
		Player:     response.PlayerStatsFromModel(id, stats),
		World:      h.store.ActiveGeneration(),
		WorldEnded: death != nil,
	})
}
