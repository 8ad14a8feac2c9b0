package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// GenerationHandler serves text generation and its history.
type GenerationHandler struct {
	gen *service.GenerationService
	log *logrus.Entry
}

// NewGenerationHandler creates a new generation handler.
func NewGenerationHandler(gen *service.GenerationService, logger logrus.FieldLogger) *GenerationHandler {
	return &GenerationHandler{gen: gen, log: logging.Component(logger, "GenerationHandler")}
}

// Features handles GET /api/v1/features
func (h *GenerationHandler) Features(w http.ResponseWriter, r *http.Request) {
	response.OK(w, service.Features())
}

// Generate handles POST /api/v1/entities/{entityID}/generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req service.GenerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.gen.Generate(r.Context(), middleware.GetOperatorID(r.Context()), id, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, res)
}

// History handles GET /api/v1/entities/{entityID}/history?feature=&q=&limit=
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = repository.DefaultHistoryLimit
	}
	filter := repository.HistoryFilter{
		Feature: q.Get("feature"),
		Keyword: q.Get("q"),
		Limit:   limit,
	}

	entries, err := h.gen.History(r.Context(), middleware.GetOperatorID(r.Context()), id, filter)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, entries, min(limit, 100), int64(len(entries)))
}
