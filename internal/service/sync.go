package service

import (
	"context"

	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/syncproto"
)

// SyncStore is the storage SyncService checks ownership against.
type SyncStore interface {
	repository.EntityRepository
	repository.ItemRepository
}

// SyncService issues and cancels challenges on behalf of an operator.
// Results come back through the token-checked callbacks, which go straight
// to the protocol.
type SyncService struct {
	store    SyncStore
	protocol *syncproto.Service
}

// NewSyncService creates a sync service.
func NewSyncService(store SyncStore, protocol *syncproto.Service) *SyncService {
	return &SyncService{store: store, protocol: protocol}
}

func (s *SyncService) ownedItem(ctx context.Context, operatorID string, entityID, itemID int64) error {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return err
	}
	_, err := s.store.GetItem(ctx, entityID, itemID)
	return err
}

// IssueReview starts a review sync.
func (s *SyncService) IssueReview(ctx context.Context, operatorID string, entityID int64) (*syncproto.Challenge, error) {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	return s.protocol.IssueReview(ctx, entityID)
}

// CancelReview fails a pending review sync.
func (s *SyncService) CancelReview(ctx context.Context, operatorID string, entityID int64) (bool, error) {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return false, err
	}
	return s.protocol.CancelReview(ctx, entityID)
}

// IssueScan starts a profile scan.
func (s *SyncService) IssueScan(ctx context.Context, operatorID string, entityID int64) (*syncproto.Challenge, error) {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	return s.protocol.IssueScan(ctx, entityID)
}

// CancelScan fails a pending scan.
func (s *SyncService) CancelScan(ctx context.Context, operatorID string, entityID int64) (bool, error) {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return false, err
	}
	return s.protocol.CancelScan(ctx, entityID)
}

// IssuePrice starts a price confirmation for an item.
func (s *SyncService) IssuePrice(ctx context.Context, operatorID string, entityID, itemID int64) (*syncproto.Challenge, error) {
	if err := s.ownedItem(ctx, operatorID, entityID, itemID); err != nil {
		return nil, err
	}
	return s.protocol.IssuePrice(ctx, itemID)
}

// CancelPrice fails a pending price confirmation.
func (s *SyncService) CancelPrice(ctx context.Context, operatorID string, entityID, itemID int64) (bool, error) {
	if err := s.ownedItem(ctx, operatorID, entityID, itemID); err != nil {
		return false, err
	}
	return s.protocol.CancelPrice(ctx, itemID)
}

// SubmitReview forwards a callback result.
func (s *SyncService) SubmitReview(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, rawCount string) (bool, error) {
	return s.protocol.SubmitReview(ctx, entityID, nonce, status, rawCount)
}

// SubmitScan forwards a callback result.
func (s *SyncService) SubmitScan(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, report model.ScanReport) (bool, error) {
	return s.protocol.SubmitScan(ctx, entityID, nonce, status, report)
}

// SubmitPrice forwards a callback result.
func (s *SyncService) SubmitPrice(ctx context.Context, itemID int64, nonce string, status model.SyncStatus, price, title, url string) (bool, error) {
	return s.protocol.SubmitPrice(ctx, itemID, nonce, status, price, title, url)
}
