package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"owners-health-api/internal/model"
)

const entityColumns = `id, operator_id, name, category, subcategory, address, target,
	signature, strengths, keywords, review_url, insta_url, created_at, updated_at`

// storeTime normalizes timestamps before they hit the database.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// CreateEntity inserts e and fills in its ID and timestamps.
func (s *SQLStore) CreateEntity(ctx context.Context, e *model.Entity) error {
	now := storeTime(time.Now())
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO entities (
			operator_id, name, category, subcategory, address, target,
			signature, strengths, keywords, review_url, insta_url, created_at, updated_at
		) VALUES (
			:operator_id, :name, :category, :subcategory, :address, :target,
			:signature, :strengths, :keywords, :review_url, :insta_url, :created_at, :updated_at
		)`, e)
	if err != nil {
		return fmt.Errorf("failed to insert entity: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read entity id: %w", err)
	}
	e.ID = id
	return nil
}

// UpdateEntity overwrites the editable fields of an owned entity.
func (s *SQLStore) UpdateEntity(ctx context.Context, e *model.Entity) error {
	e.UpdatedAt = storeTime(time.Now())

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE entities SET
			name = :name, category = :category, subcategory = :subcategory,
			address = :address, target = :target, signature = :signature,
			strengths = :strengths, keywords = :keywords, review_url = :review_url,
			insta_url = :insta_url, updated_at = :updated_at
		WHERE id = :id AND operator_id = :operator_id`, e)
	if err != nil {
		return fmt.Errorf("failed to update entity %d: %w", e.ID, err)
	}
	return expectRow(res)
}

// GetEntity returns one entity owned by operatorID.
func (s *SQLStore) GetEntity(ctx context.Context, operatorID string, id int64) (*model.Entity, error) {
	var e model.Entity
	err := s.db.GetContext(ctx, &e,
		`SELECT `+entityColumns+` FROM entities WHERE id = ? AND operator_id = ?`, id, operatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	return &e, nil
}

// ListEntities returns the operator's entities, oldest first.
func (s *SQLStore) ListEntities(ctx context.Context, operatorID string) ([]model.Entity, error) {
	entities := []model.Entity{}
	err := s.db.SelectContext(ctx, &entities,
		`SELECT `+entityColumns+` FROM entities WHERE operator_id = ? ORDER BY id`, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// expectRow maps an update that touched nothing to ErrNotFound.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
