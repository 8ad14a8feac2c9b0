package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// DashboardHandler serves the computed health view.
type DashboardHandler struct {
	dashboards *service.DashboardService
	log        *logrus.Entry
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboards *service.DashboardService, logger logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, log: logging.Component(logger, "DashboardHandler")}
}

// Get handles GET /api/v1/entities/{entityID}/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	d, err := h.dashboards.Dashboard(r.Context(), middleware.GetOperatorID(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.OK(w, d)
}

// Profile handles GET /api/v1/profiles?category=...&subcategory=...
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response.OK(w, h.dashboards.Profile(q.Get("category"), q.Get("subcategory")))
}
