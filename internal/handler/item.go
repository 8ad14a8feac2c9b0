package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/model"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/response"
)

// ItemHandler handles linked purchase item requests.
type ItemHandler struct {
	items *service.ItemService
	log   *logrus.Entry
}

// NewItemHandler creates a new item handler.
func NewItemHandler(items *service.ItemService, logger logrus.FieldLogger) *ItemHandler {
	return &ItemHandler{items: items, log: logging.Component(logger, "ItemHandler")}
}

func (h *ItemHandler) ids(r *http.Request, withItem bool) (entityID, itemID int64, err error) {
	if entityID, err = pathID(r, "entityID"); err != nil {
		return 0, 0, err
	}
	if withItem {
		if itemID, err = pathID(r, "itemID"); err != nil {
			return 0, 0, err
		}
	}
	return entityID, itemID, nil
}

// List handles GET /api/v1/entities/{entityID}/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	entityID, _, err := h.ids(r, false)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	items, err := h.items.List(r.Context(), middleware.GetOperatorID(r.Context()), entityID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, items, 0, int64(len(items)))
}

// Create handles POST /api/v1/entities/{entityID}/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	entityID, _, err := h.ids(r, false)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var item model.LinkedItem
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	created, err := h.items.Create(r.Context(), middleware.GetOperatorID(r.Context()), entityID, &item)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.Created(w, created)
}

// Get handles GET /api/v1/entities/{entityID}/items/{itemID}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityID, itemID, err := h.ids(r, true)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	item, err := h.items.Get(r.Context(), middleware.GetOperatorID(r.Context()), entityID, itemID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, item)
}

// Update handles PUT /api/v1/entities/{entityID}/items/{itemID}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	entityID, itemID, err := h.ids(r, true)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var item model.LinkedItem
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	updated, err := h.items.Update(r.Context(), middleware.GetOperatorID(r.Context()), entityID, itemID, &item)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /api/v1/entities/{entityID}/items/{itemID}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entityID, itemID, err := h.ids(r, true)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.items.Delete(r.Context(), middleware.GetOperatorID(r.Context()), entityID, itemID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.NoContent(w)
}
