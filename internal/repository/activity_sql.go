package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"owners-health-api/internal/model"
)

// DefaultHistoryLimit bounds history listings without an explicit limit.
const DefaultHistoryLimit = 20

// RecordTodoEvent stores one completion or skip.
func (s *SQLStore) RecordTodoEvent(ctx context.Context, ev *model.TodoEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	ev.CreatedAt = storeTime(ev.CreatedAt)

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO todo_events (entity_id, operator_id, todo_group, todo_text, status, created_at)
		VALUES (:entity_id, :operator_id, :todo_group, :todo_text, :status, :created_at)`, ev)
	if err != nil {
		return fmt.Errorf("failed to insert todo event: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// DoneGroups returns the groups marked DONE in [from, to).
func (s *SQLStore) DoneGroups(ctx context.Context, operatorID string, entityID int64, from, to time.Time) (map[string]bool, error) {
	var groups []string
	err := s.db.SelectContext(ctx, &groups, `
		SELECT DISTINCT todo_group FROM todo_events
		WHERE operator_id = ? AND entity_id = ? AND status = ?
		  AND created_at >= ? AND created_at < ?`,
		operatorID, entityID, model.TodoDone, storeTime(from), storeTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query done groups: %w", err)
	}

	done := make(map[string]bool, len(groups))
	for _, g := range groups {
		done[g] = true
	}
	return done, nil
}

// PruneTodoEvents deletes events created before cutoff.
func (s *SQLStore) PruneTodoEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo_events WHERE created_at < ?`, storeTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune todo events: %w", err)
	}
	return res.RowsAffected()
}

// SaveHistory stores a generated text.
func (s *SQLStore) SaveHistory(ctx context.Context, h *model.HistoryEntry) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	h.CreatedAt = storeTime(h.CreatedAt)

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO history (entity_id, operator_id, feature, title, input_text, output_text, created_at)
		VALUES (:entity_id, :operator_id, :feature, :title, :input_text, :output_text, :created_at)`, h)
	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		h.ID = id
	}
	return nil
}

// RecentHistory returns newest entries first. An empty feature or "ALL"
// matches every feature; the keyword matches title, input or output.
func (s *SQLStore) RecentHistory(ctx context.Context, operatorID string, entityID int64, filter HistoryFilter) ([]model.HistoryEntry, error) {
	where := []string{"operator_id = ?", "entity_id = ?"}
	args := []interface{}{operatorID, entityID}

	if f := strings.TrimSpace(filter.Feature); f != "" && !strings.EqualFold(f, "ALL") {
		where = append(where, "feature = ?")
		args = append(args, f)
	}
	if k := strings.TrimSpace(filter.Keyword); k != "" {
		like := "%" + k + "%"
		where = append(where, "(title LIKE ? OR input_text LIKE ? OR output_text LIKE ?)")
		args = append(args, like, like, like)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	args = append(args, limit)

	entries := []model.HistoryEntry{}
	query := `SELECT id, entity_id, operator_id, feature, title, input_text, output_text, created_at
		FROM history WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return entries, nil
}

// PruneHistory deletes entries created before cutoff.
func (s *SQLStore) PruneHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE created_at < ?`, storeTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}
