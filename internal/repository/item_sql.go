package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"owners-health-api/internal/model"
)

const itemColumns = `id, entity_id, alias, mall_name, url, memo, pinned,
	price_sync_status, price_sync_at, price_sync_nonce,
	last_confirmed_at, last_confirmed_price, last_confirmed_title, last_confirmed_url,
	created_at, updated_at`

// CreateItem inserts a linked item and fills in its ID and timestamps.
func (s *SQLStore) CreateItem(ctx context.Context, item *model.LinkedItem) error {
	now := storeTime(time.Now())
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO linked_items (entity_id, alias, mall_name, url, memo, pinned, created_at, updated_at)
		VALUES (:entity_id, :alias, :mall_name, :url, :memo, :pinned, :created_at, :updated_at)`, item)
	if err != nil {
		return fmt.Errorf("failed to insert linked item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read linked item id: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem overwrites the editable fields of a linked item.
func (s *SQLStore) UpdateItem(ctx context.Context, item *model.LinkedItem) error {
	item.UpdatedAt = storeTime(time.Now())

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE linked_items SET
			alias = :alias, mall_name = :mall_name, url = :url, memo = :memo,
			pinned = :pinned, updated_at = :updated_at
		WHERE id = :id AND entity_id = :entity_id`, item)
	if err != nil {
		return fmt.Errorf("failed to update linked item %d: %w", item.ID, err)
	}
	return expectRow(res)
}

// GetItem returns one linked item of an entity.
func (s *SQLStore) GetItem(ctx context.Context, entityID, itemID int64) (*model.LinkedItem, error) {
	var item model.LinkedItem
	err := s.db.GetContext(ctx, &item,
		`SELECT `+itemColumns+` FROM linked_items WHERE id = ? AND entity_id = ?`, itemID, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get linked item %d: %w", itemID, err)
	}
	return &item, nil
}

// ListItems returns pinned items first, then the rest by creation order.
func (s *SQLStore) ListItems(ctx context.Context, entityID int64) ([]model.LinkedItem, error) {
	items := []model.LinkedItem{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM linked_items WHERE entity_id = ? ORDER BY pinned DESC, id`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked items: %w", err)
	}
	return items, nil
}

// DeleteItem removes a linked item.
func (s *SQLStore) DeleteItem(ctx context.Context, entityID, itemID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM linked_items WHERE id = ? AND entity_id = ?`, itemID, entityID)
	if err != nil {
		return fmt.Errorf("failed to delete linked item %d: %w", itemID, err)
	}
	return expectRow(res)
}

// BeginPriceSync stores a fresh price nonce, overwriting any previous one.
func (s *SQLStore) BeginPriceSync(ctx context.Context, itemID int64, nonce string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE linked_items
		SET price_sync_status = ?, price_sync_at = ?, price_sync_nonce = ?
		WHERE id = ?`,
		model.SyncPending, storeTime(at), nonce, itemID)
	if err != nil {
		return fmt.Errorf("failed to begin price sync for item %d: %w", itemID, err)
	}
	return expectRow(res)
}

// ApplyPriceSync writes a price confirmation when nonce matches. The
// confirmed price, title and URL are only replaced for an OK result.
func (s *SQLStore) ApplyPriceSync(ctx context.Context, itemID int64, nonce string, status model.SyncStatus, report *model.PriceReport, at time.Time) (bool, error) {
	if nonce == "" {
		return false, nil
	}
	at = storeTime(at)

	var (
		query string
		args  []interface{}
	)
	if status == model.SyncOK && report != nil {
		query = `
			UPDATE linked_items
			SET price_sync_status = ?, price_sync_at = ?, last_confirmed_at = ?,
				last_confirmed_price = ?, last_confirmed_title = ?, last_confirmed_url = ?
			WHERE id = ? AND price_sync_nonce = ? AND price_sync_nonce <> ''`
		args = []interface{}{status, at, at, report.Price, report.Title, report.URL, itemID, nonce}
	} else {
		query = `
			UPDATE linked_items
			SET price_sync_status = ?, price_sync_at = ?
			WHERE id = ? AND price_sync_nonce = ? AND price_sync_nonce <> ''`
		args = []interface{}{status, at, itemID, nonce}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to apply price sync for item %d: %w", itemID, err)
	}
	return affected(res)
}

// CancelPriceSync moves a pending price confirmation to FAIL without
// checking the nonce. Other states are left alone and report false.
func (s *SQLStore) CancelPriceSync(ctx context.Context, itemID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE linked_items SET price_sync_status = ? WHERE id = ? AND price_sync_status = ?`,
		model.SyncFail, itemID, model.SyncPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel price sync for item %d: %w", itemID, err)
	}
	return affected(res)
}
