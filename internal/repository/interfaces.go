package repository

import (
	"context"
	"errors"
	"time"

	"owners-health-api/internal/model"
)

// ErrNotFound is returned when a requested record does not exist or is not
// owned by the caller.
var ErrNotFound = errors.New("record not found")

// EntityRepository defines storefront profile data access methods.
type EntityRepository interface {
	// CreateEntity inserts e and fills in its ID and timestamps.
	CreateEntity(ctx context.Context, e *model.Entity) error

	// UpdateEntity overwrites the editable fields of an owned entity.
	UpdateEntity(ctx context.Context, e *model.Entity) error

	// GetEntity returns one entity owned by operatorID.
	GetEntity(ctx context.Context, operatorID string, id int64) (*model.Entity, error)

	// ListEntities returns the operator's entities, oldest first.
	ListEntities(ctx context.Context, operatorID string) ([]model.Entity, error)
}

// ChecklistRepository defines checklist data access methods.
type ChecklistRepository interface {
	// GetOrCreateChecklist returns the entity's checklist, creating a
	// default row on first access.
	GetOrCreateChecklist(ctx context.Context, entityID int64) (*model.ChecklistRecord, error)

	// SetFlags writes boolean content flags.
	SetFlags(ctx context.Context, entityID int64, flags map[model.Flag]bool) error

	// TouchActivity stamps an activity timestamp.
	TouchActivity(ctx context.Context, entityID int64, activity model.Activity, at time.Time) error
}

// SyncRepository stores challenge/response state for every sync channel.
// Apply* methods compare the supplied nonce against the stored one inside a
// single conditional update and report whether anything was written.
// Cancel* methods only move a PENDING channel to FAIL.
type SyncRepository interface {
	BeginReviewSync(ctx context.Context, entityID int64, nonce string, at time.Time) error
	ApplyReviewSync(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, unreplied int, at time.Time) (bool, error)
	CancelReviewSync(ctx context.Context, entityID int64) (bool, error)

	BeginScanSync(ctx context.Context, entityID int64, nonce string, at time.Time) error
	ApplyScanSync(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, report *model.ScanReport, at time.Time) (bool, error)
	CancelScanSync(ctx context.Context, entityID int64) (bool, error)

	BeginPriceSync(ctx context.Context, itemID int64, nonce string, at time.Time) error
	ApplyPriceSync(ctx context.Context, itemID int64, nonce string, status model.SyncStatus, report *model.PriceReport, at time.Time) (bool, error)
	CancelPriceSync(ctx context.Context, itemID int64) (bool, error)
}

// ItemRepository defines linked purchase item data access methods.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *model.LinkedItem) error
	UpdateItem(ctx context.Context, item *model.LinkedItem) error
	GetItem(ctx context.Context, entityID, itemID int64) (*model.LinkedItem, error)

	// ListItems returns pinned items first, then the rest by creation order.
	ListItems(ctx context.Context, entityID int64) ([]model.LinkedItem, error)

	DeleteItem(ctx context.Context, entityID, itemID int64) error
}

// TodoEventRepository records what operators did with recommended tasks.
type TodoEventRepository interface {
	RecordTodoEvent(ctx context.Context, ev *model.TodoEvent) error

	// DoneGroups returns the groups completed in [from, to).
	DoneGroups(ctx context.Context, operatorID string, entityID int64, from, to time.Time) (map[string]bool, error)

	// PruneTodoEvents deletes events created before cutoff.
	PruneTodoEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	Feature string
	Keyword string
	Limit   int
}

// HistoryRepository keeps generated texts.
type HistoryRepository interface {
	SaveHistory(ctx context.Context, h *model.HistoryEntry) error

	// RecentHistory returns newest entries first.
	RecentHistory(ctx context.Context, operatorID string, entityID int64, filter HistoryFilter) ([]model.HistoryEntry, error)

	// PruneHistory deletes entries created before cutoff.
	PruneHistory(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is the full storage collaborator.
type Store interface {
	EntityRepository
	ChecklistRepository
	SyncRepository
	ItemRepository
	TodoEventRepository
	HistoryRepository

	// Ping checks the connection.
	Ping(ctx context.Context) error

	// Stats returns row counts per table.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
