package handler

import (
	"net/http"

	"github.com/mcoot/hardercore-api/internal/api/request"
	"github.com/mcoot/hardercore-api/internal/api/response"
	"github.com/mcoot/hardercore-api/internal/saver"
	"github.com/mcoot/hardercore-api/internal/store"
)

// WorldHandler handles world lifecycle endpoints
type WorldHandler struct {
	store *store.Store
	saver *saver.Saver
}

// NewWorldHandler creates a new world handler
func NewWorldHandler(st *store.Store, sv *saver.Saver) *WorldHandler {
	return &WorldHandler{
		store: st,
		saver: sv,
	}
}

// Current handles GET /world/current
func (h *WorldHandler) Current(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.world())
}

// Switch handles PUT /world
func (h *WorldHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req request.SwitchWorldRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.World == nil {
		WriteError(w, NewInvalidRequestError("world is required"))
		return
	}

	if err := h.store.SwitchTo(*req.World); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.world())
}

// Create handles PUT /world/create
func (h *WorldHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.store.CreateNext(); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, h.world())
}

// Kill handles PUT /world/kill
func (h *WorldHandler) Kill(w http.ResponseWriter, r *http.Request) {
	var req request.KillRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	death := req.ToModel()
	if err := death.Killer.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.store.EndGeneration(death); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.world())
}

// Save handles PUT /world/save
func (h *WorldHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.saver.SaveNow(); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.world())
}

// Uptime handles GET /world/uptime
func (h *WorldHandler) Uptime(w http.ResponseWriter, r *http.Request) {
	total, active := h.store.Uptime()
	response.JSON(w, http.StatusOK, response.Uptime{World: active, Total: total})
}

// SetUptime handles PUT /world/stats/uptime. The posted value replaces the
// active world's uptime.
func (h *WorldHandler) SetUptime(w http.ResponseWriter, r *http.Request) {
	var req request.UptimeRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Uptime == nil {
		WriteError(w, NewInvalidRequestError("uptime is required"))
		return
	}

	if err := h.store.SetUptime(*req.Uptime); err != nil {
		WriteError(w, err)
		return
	}

	total, active := h.store.Uptime()
	response.JSON(w, http.StatusOK, response.Uptime{World: active, Total: total})
}

// DatabasePath handles GET /database/path
func (h *WorldHandler) DatabasePath(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.DatabasePath{Path: h.store.Root()})
}

func (h *WorldHandler) world() response.World {
	resp := response.World{
		World: h.store.ActiveGeneration(),
		Count: h.store.GenerationCount(),
	}
	if death, ok := h.store.Death(); ok {
		d := response.DeathRecordFromModel(death)
		resp.Death = &d
	}
	return resp
}
