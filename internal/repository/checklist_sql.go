package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"owners-health-api/internal/model"
)

const checklistColumns = `entity_id,
	has_keywords, has_review_url, has_insta_url, has_place_desc, has_menu_guide,
	has_way_guide, has_parking_guide, has_hours, has_phone, has_address, has_news,
	last_review_reply_at, last_insta_caption_at, last_blog_post_at, last_event_plan_at,
	last_place_qa_at, last_ad_analysis_at, last_place_news_at, last_scan_at,
	review_sync_status, review_sync_at, review_unreplied_count, review_sync_nonce,
	scan_sync_status, scan_sync_at, scan_sync_nonce`

// ensureChecklist creates the default checklist row if it is missing.
func (s *SQLStore) ensureChecklist(ctx context.Context, ext sqlx.ExecerContext, entityID int64) error {
	_, err := ext.ExecContext(ctx,
		s.dialect.insertIgnore+` INTO checklists (entity_id, review_unreplied_count) VALUES (?, ?)`,
		entityID, model.UnknownCount)
	if err != nil {
		return fmt.Errorf("failed to create checklist for entity %d: %w", entityID, err)
	}
	return nil
}

// GetOrCreateChecklist returns the entity's checklist, creating a default
// row on first access.
func (s *SQLStore) GetOrCreateChecklist(ctx context.Context, entityID int64) (*model.ChecklistRecord, error) {
	if err := s.ensureChecklist(ctx, s.db, entityID); err != nil {
		return nil, err
	}

	var ck model.ChecklistRecord
	err := s.db.GetContext(ctx, &ck, `SELECT `+checklistColumns+` FROM checklists WHERE entity_id = ?`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist for entity %d: %w", entityID, err)
	}
	return &ck, nil
}

// SetFlags writes boolean content flags. Unknown flags are rejected before
// anything is written.
func (s *SQLStore) SetFlags(ctx context.Context, entityID int64, flags map[model.Flag]bool) error {
	if len(flags) == 0 {
		return nil
	}

	names := make([]string, 0, len(flags))
	for f := range flags {
		if !f.Valid() {
			return fmt.Errorf("unknown checklist flag %q", f)
		}
		names = append(names, string(f))
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		sets = append(sets, name+" = ?")
		args = append(args, flags[model.Flag(name)])
	}
	args = append(args, entityID)

	if err := s.ensureChecklist(ctx, s.db, entityID); err != nil {
		return err
	}
	query := `UPDATE checklists SET ` + strings.Join(sets, ", ") + ` WHERE entity_id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set checklist flags for entity %d: %w", entityID, err)
	}
	return nil
}

// TouchActivity stamps an activity timestamp.
func (s *SQLStore) TouchActivity(ctx context.Context, entityID int64, activity model.Activity, at time.Time) error {
	col, ok := activity.Column()
	if !ok {
		return fmt.Errorf("unknown activity %q", activity)
	}

	if err := s.ensureChecklist(ctx, s.db, entityID); err != nil {
		return err
	}
	query := `UPDATE checklists SET ` + col + ` = ? WHERE entity_id = ?`
	if _, err := s.db.ExecContext(ctx, query, storeTime(at), entityID); err != nil {
		return fmt.Errorf("failed to touch %s for entity %d: %w", activity, entityID, err)
	}
	return nil
}

// BeginReviewSync stores a fresh nonce, overwriting any previous one.
func (s *SQLStore) BeginReviewSync(ctx context.Context, entityID int64, nonce string, at time.Time) error {
	if err := s.ensureChecklist(ctx, s.db, entityID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE checklists
		SET review_sync_status = ?, review_sync_at = ?, review_sync_nonce = ?
		WHERE entity_id = ?`,
		model.SyncPending, storeTime(at), nonce, entityID)
	if err != nil {
		return fmt.Errorf("failed to begin review sync for entity %d: %w", entityID, err)
	}
	return nil
}

// ApplyReviewSync writes the result when nonce matches the stored one.
// The nonce stays in place, so the same result may be applied again.
func (s *SQLStore) ApplyReviewSync(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, unreplied int, at time.Time) (bool, error) {
	if nonce == "" {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE checklists
		SET review_sync_status = ?, review_unreplied_count = ?, review_sync_at = ?
		WHERE entity_id = ? AND review_sync_nonce = ? AND review_sync_nonce <> ''`,
		status, unreplied, storeTime(at), entityID, nonce)
	if err != nil {
		return false, fmt.Errorf("failed to apply review sync for entity %d: %w", entityID, err)
	}
	return affected(res)
}

// CancelReviewSync moves a pending review sync to FAIL without checking the
// nonce. Terminal or never-issued states are left alone and report false.
func (s *SQLStore) CancelReviewSync(ctx context.Context, entityID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE checklists SET review_sync_status = ? WHERE entity_id = ? AND review_sync_status = ?`,
		model.SyncFail, entityID, model.SyncPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel review sync for entity %d: %w", entityID, err)
	}
	return affected(res)
}

// BeginScanSync stores a fresh scan nonce, overwriting any previous one.
func (s *SQLStore) BeginScanSync(ctx context.Context, entityID int64, nonce string, at time.Time) error {
	if err := s.ensureChecklist(ctx, s.db, entityID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE checklists
		SET scan_sync_status = ?, scan_sync_at = ?, scan_sync_nonce = ?
		WHERE entity_id = ?`,
		model.SyncPending, storeTime(at), nonce, entityID)
	if err != nil {
		return fmt.Errorf("failed to begin scan sync for entity %d: %w", entityID, err)
	}
	return nil
}

// ApplyScanSync writes a scan result when nonce matches. Content flags and
// the last scan time are only written for an OK result.
func (s *SQLStore) ApplyScanSync(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, report *model.ScanReport, at time.Time) (bool, error) {
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
			UPDATE checklists
			SET scan_sync_status = ?, scan_sync_at = ?, last_scan_at = ?,
				has_place_desc = ?, has_menu_guide = ?, has_keywords = ?,
				has_parking_guide = ?, has_way_guide = ?, has_hours = ?,
				has_phone = ?, has_address = ?, has_news = ?
			WHERE entity_id = ? AND scan_sync_nonce = ? AND scan_sync_nonce <> ''`
		args = []interface{}{
			status, at, at,
			report.HasPlaceDesc, report.HasMenuGuide, report.HasKeywords,
			report.HasParkingGuide, report.HasWayGuide, report.HasHours,
			report.HasPhone, report.HasAddress, report.HasNews,
			entityID, nonce,
		}
	} else {
		query = `
			UPDATE checklists
			SET scan_sync_status = ?, scan_sync_at = ?
			WHERE entity_id = ? AND scan_sync_nonce = ? AND scan_sync_nonce <> ''`
		args = []interface{}{status, at, entityID, nonce}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to apply scan sync for entity %d: %w", entityID, err)
	}
	return affected(res)
}

// CancelScanSync moves a pending scan sync to FAIL without checking the
// nonce. Terminal or never-issued states are left alone and report false.
func (s *SQLStore) CancelScanSync(ctx context.Context, entityID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE checklists SET scan_sync_status = ? WHERE entity_id = ? AND scan_sync_status = ?`,
		model.SyncFail, entityID, model.SyncPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel scan sync for entity %d: %w", entityID, err)
	}
	return affected(res)
}

func affected(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
