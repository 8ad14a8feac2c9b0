package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/model"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// EntityHandler handles storefront profile and checklist requests.
type EntityHandler struct {
	entities *service.EntityService
	now      func() time.Time
	log      *logrus.Entry
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(entities *service.EntityService, now func() time.Time, logger logrus.FieldLogger) *EntityHandler {
	if now == nil {
		now = time.Now
	}
	return &EntityHandler{entities: entities, now: now, log: logging.Component(logger, "EntityHandler")}
}

// List handles GET /api/v1/entities
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.entities.List(r.Context(), middleware.GetOperatorID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, list, 0, int64(len(list)))
}

// Create handles POST /api/v1/entities
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e model.Entity
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	created, err := h.entities.Create(r.Context(), middleware.GetOperatorID(r.Context()), &e)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.Created(w, created)
}

// Get handles GET /api/v1/entities/{entityID}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	e, err := h.entities.Get(r.Context(), middleware.GetOperatorID(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, e)
}

// Update handles PUT /api/v1/entities/{entityID}
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var e model.Entity
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	updated, err := h.entities.Update(r.Context(), middleware.GetOperatorID(r.Context()), id, &e)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, updated)
}

// Checklist handles GET /api/v1/entities/{entityID}/checklist
func (h *EntityHandler) Checklist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ck, err := h.entities.Checklist(r.Context(), middleware.GetOperatorID(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, ck)
}

// TouchActivityRequest names the activity to stamp.
type TouchActivityRequest struct {
	Activity model.Activity `json:"activity"`
}

// TouchActivity handles POST /api/v1/entities/{entityID}/checklist/activity
func (h *EntityHandler) TouchActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req TouchActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ctx := r.Context()
	if err := h.entities.TouchActivity(ctx, middleware.GetOperatorID(ctx), id, req.Activity, h.now()); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ck, err := h.entities.Checklist(ctx, middleware.GetOperatorID(ctx), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, ck)
}

// SetFlags handles PATCH /api/v1/entities/{entityID}/checklist/flags
// with a body like {"has_place_desc": true}.
func (h *EntityHandler) SetFlags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var flags map[model.Flag]bool
	if err := decodeJSON(w, r, &flags); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ctx := r.Context()
	if err := h.entities.SetFlags(ctx, middleware.GetOperatorID(ctx), id, flags); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ck, err := h.entities.Checklist(ctx, middleware.GetOperatorID(ctx), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, ck)
}
