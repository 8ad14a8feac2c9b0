package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/model"
	"owners-health-api/internal/service"
	"owners-health-api/internal/syncproto"
	"owners-health-api/pkg/apierror"
	"owners-health-api/pkg/response"
)

// SyncHandler starts and cancels challenges for the operator and accepts
// results from external agents.
type SyncHandler struct {
	sync *service.SyncService
	log  *logrus.Entry
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(sync *service.SyncService, logger logrus.FieldLogger) *SyncHandler {
	return &SyncHandler{sync: sync, log: logging.Component(logger, "SyncHandler")}
}

// IssueReview handles POST /api/v1/entities/{entityID}/sync/review
func (h *SyncHandler) IssueReview(w http.ResponseWriter, r *http.Request) {
	h.issueEntity(w, r, h.sync.IssueReview)
}

// CancelReview handles DELETE /api/v1/entities/{entityID}/sync/review
func (h *SyncHandler) CancelReview(w http.ResponseWriter, r *http.Request) {
	h.cancelEntity(w, r, syncproto.ChannelReview, h.sync.CancelReview)
}

// IssueScan handles POST /api/v1/entities/{entityID}/sync/scan
func (h *SyncHandler) IssueScan(w http.ResponseWriter, r *http.Request) {
	h.issueEntity(w, r, h.sync.IssueScan)
}

// CancelScan handles DELETE /api/v1/entities/{entityID}/sync/scan
func (h *SyncHandler) CancelScan(w http.ResponseWriter, r *http.Request) {
	h.cancelEntity(w, r, syncproto.ChannelScan, h.sync.CancelScan)
}

// IssuePrice handles POST /api/v1/entities/{entityID}/items/{itemID}/sync
func (h *SyncHandler) IssuePrice(w http.ResponseWriter, r *http.Request) {
	entityID, itemID, ok := h.itemIDs(w, r)
	if !ok {
		return
	}

	ch, err := h.sync.IssuePrice(r.Context(), middleware.GetOperatorID(r.Context()), entityID, itemID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.Created(w, ch)
}

// CancelPrice handles DELETE /api/v1/entities/{entityID}/items/{itemID}/sync
func (h *SyncHandler) CancelPrice(w http.ResponseWriter, r *http.Request) {
	entityID, itemID, ok := h.itemIDs(w, r)
	if !ok {
		return
	}

	cancelled, err := h.sync.CancelPrice(r.Context(), middleware.GetOperatorID(r.Context()), entityID, itemID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, CancelResult{Channel: syncproto.ChannelPrice, ID: itemID, Cancelled: cancelled})
}

func (h *SyncHandler) itemIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	entityID, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return 0, 0, false
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, h.log, err)
		return 0, 0, false
	}
	return entityID, itemID, true
}

type issueFunc func(ctx context.Context, operatorID string, entityID int64) (*syncproto.Challenge, error)

func (h *SyncHandler) issueEntity(w http.ResponseWriter, r *http.Request, issue issueFunc) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	ch, err := issue(r.Context(), middleware.GetOperatorID(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.Created(w, ch)
}

// CancelResult is the body of a cancel response. Cancelled is false when
// the channel was not pending.
type CancelResult struct {
	Channel   syncproto.Channel `json:"channel"`
	ID        int64             `json:"id"`
	Cancelled bool              `json:"cancelled"`
}

type cancelFunc func(ctx context.Context, operatorID string, entityID int64) (bool, error)

func (h *SyncHandler) cancelEntity(w http.ResponseWriter, r *http.Request, c syncproto.Channel, cancel cancelFunc) {
	id, err := pathID(r, "entityID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	cancelled, err := cancel(r.Context(), middleware.GetOperatorID(r.Context()), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	response.OK(w, CancelResult{Channel: c, ID: id, Cancelled: cancelled})
}

// CallbackResult is the body of a callback response.
type CallbackResult struct {
	Channel  syncproto.Channel `json:"channel"`
	ID       int64             `json:"id"`
	Accepted bool              `json:"accepted"`
	Status   model.SyncStatus  `json:"status"`
}

// callbackParams holds the fields every callback carries. form holds the
// query string merged with a form-encoded POST body.
type callbackParams struct {
	id     int64
	nonce  string
	status model.SyncStatus
	form   url.Values
}

func parseCallback(r *http.Request, idKeys ...string) (callbackParams, error) {
	var p callbackParams
	if err := r.ParseForm(); err != nil {
		return p, apierror.BadRequest("invalid callback parameters")
	}
	q := r.Form
	p.form = q

	for _, k := range idKeys {
		if v := q.Get(k); v != "" {
			p.id = syncproto.ParseID(v)
			break
		}
	}
	if p.id <= 0 {
		return p, apierror.BadRequest(idKeys[0] + " is required")
	}

	p.nonce = strings.TrimSpace(q.Get("token"))
	if p.nonce == "" {
		p.nonce = strings.TrimSpace(q.Get("nonce"))
	}

	status, err := model.ParseResultStatus(q.Get("status"))
	if err != nil {
		return p, apierror.BadRequest(err.Error())
	}
	p.status = status
	return p, nil
}

func (h *SyncHandler) respondCallback(w http.ResponseWriter, r *http.Request, c syncproto.Channel, p callbackParams, accepted bool, err error) {
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !accepted {
		response.Error(w, apierror.NonceMismatch())
		return
	}
	response.OK(w, CallbackResult{Channel: c, ID: p.id, Accepted: true, Status: p.status})
}

// ReviewCallback handles GET/POST /callbacks/review-sync?entity_id=&token=&status=&unreplied=
func (h *SyncHandler) ReviewCallback(w http.ResponseWriter, r *http.Request) {
	p, err := parseCallback(r, "entity_id", "store_id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	accepted, err := h.sync.SubmitReview(r.Context(), p.id, p.nonce, p.status, p.form.Get("unreplied"))
	h.respondCallback(w, r, syncproto.ChannelReview, p, accepted, err)
}

// PriceCallback handles GET/POST /callbacks/price-sync?item_id=&token=&status=&price=&title=&url=
func (h *SyncHandler) PriceCallback(w http.ResponseWriter, r *http.Request) {
	p, err := parseCallback(r, "item_id", "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	q := p.form
	accepted, err := h.sync.SubmitPrice(r.Context(), p.id, p.nonce, p.status, q.Get("price"), q.Get("title"), q.Get("url"))
	h.respondCallback(w, r, syncproto.ChannelPrice, p, accepted, err)
}

// ScanCallback handles GET/POST /callbacks/scan?entity_id=&token=&has_desc=1&...
func (h *SyncHandler) ScanCallback(w http.ResponseWriter, r *http.Request) {
	p, err := parseCallback(r, "entity_id", "store_id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	q := p.form
	report := model.ScanReport{
		HasPlaceDesc:    syncproto.ParseFlag(q.Get("has_desc")),
		HasMenuGuide:    syncproto.ParseFlag(q.Get("has_menu")),
		HasKeywords:     syncproto.ParseFlag(q.Get("has_keywords")),
		HasParkingGuide: syncproto.ParseFlag(q.Get("has_parking")),
		HasWayGuide:     syncproto.ParseFlag(q.Get("has_way")),
		HasHours:        syncproto.ParseFlag(q.Get("has_hours")),
		HasPhone:        syncproto.ParseFlag(q.Get("has_phone")),
		HasAddress:      syncproto.ParseFlag(q.Get("has_address")),
		HasNews:         syncproto.ParseFlag(q.Get("has_news")),
	}

	accepted, err := h.sync.SubmitScan(r.Context(), p.id, p.nonce, p.status, report)
	h.respondCallback(w, r, syncproto.ChannelScan, p, accepted, err)
}
