package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// TaskHandler records what the operator did with recommended tasks.
type TaskHandler struct {
	tasks *service.TaskService
	log   *logrus.Entry
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks *service.TaskService, logger logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: logging.Component(logger, "TaskHandler")}
}

// Record handles POST /api/v1/entities/{entityID}/tasks/events
func (h *TaskHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var out service.TaskOutcome
	if err := decodeJSON(w, r, &out); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ev, err := h.tasks.Record(r.Context(), middleware.GetOperatorID(r.Context()), id, out)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.Created(w, ev)
}
