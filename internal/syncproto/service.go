package syncproto

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// Challenge is what an external agent needs to report back.
type Challenge struct {
	Channel  Channel   `json:"channel"`
	ID       int64     `json:"id"`
	Nonce    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// Options tunes the service.
type Options struct {
	NonceBytes int
	Now        func() time.Time
}

// Service issues challenges and verifies submitted results. A nonce
// mismatch is a normal outcome reported as accepted=false; only storage
// failures surface as errors.
type Service struct {
	repo       repository.SyncRepository
	nonceBytes int
	now        func() time.Time
	log        *logrus.Entry
}

// NewService creates a sync service over repo.
func NewService(repo repository.SyncRepository, opts Options, logger logrus.FieldLogger) *Service {
	if opts.NonceBytes <= 0 {
		opts.NonceBytes = DefaultNonceBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:       repo,
		nonceBytes: opts.NonceBytes,
		now:        opts.Now,
		log:        logging.Component(logger, "SyncService"),
	}
}

func (s *Service) issue(ctx context.Context, c Channel, id int64, begin func(context.Context, int64, string, time.Time) error) (*Challenge, error) {
	nonce, err := NewNonce(c, s.nonceBytes)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if err := begin(ctx, id, nonce, at); err != nil {
		return nil, fmt.Errorf("failed to issue %s challenge: %w", c, err)
	}

	s.log.WithFields(logrus.Fields{"channel": c, "id": id}).Info("challenge issued")
	return &Challenge{Channel: c, ID: id, Nonce: nonce, IssuedAt: at}, nil
}

func (s *Service) logResult(c Channel, id int64, status model.SyncStatus, accepted bool) {
	entry := s.log.WithFields(logrus.Fields{"channel": c, "id": id, "status": status})
	if accepted {
		entry.Info("result accepted")
	} else {
		entry.Warn("result rejected: nonce mismatch")
	}
}

func (s *Service) cancel(ctx context.Context, c Channel, id int64, cancel func(context.Context, int64) (bool, error)) (bool, error) {
	cancelled, err := cancel(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel %s challenge: %w", c, err)
	}
	s.log.WithFields(logrus.Fields{"channel": c, "id": id, "cancelled": cancelled}).Info("challenge cancel requested")
	return cancelled, nil
}

// IssueReview starts a review sync for an entity. Any previous token stops
// being valid.
func (s *Service) IssueReview(ctx context.Context, entityID int64) (*Challenge, error) {
	return s.issue(ctx, ChannelReview, entityID, s.repo.BeginReviewSync)
}

// SubmitReview applies a review sync result. rawCount is coerced with
// ParseCount.
func (s *Service) SubmitReview(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, rawCount string) (bool, error) {
	accepted, err := s.repo.ApplyReviewSync(ctx, entityID, nonce, status, ParseCount(rawCount), s.now())
	if err != nil {
		return false, err
	}
	s.logResult(ChannelReview, entityID, status, accepted)
	return accepted, nil
}

// CancelReview fails a pending review sync. It reports false when nothing
// was pending.
func (s *Service) CancelReview(ctx context.Context, entityID int64) (bool, error) {
	return s.cancel(ctx, ChannelReview, entityID, s.repo.CancelReviewSync)
}

// IssueScan starts a profile scan for an entity.
func (s *Service) IssueScan(ctx context.Context, entityID int64) (*Challenge, error) {
	return s.issue(ctx, ChannelScan, entityID, s.repo.BeginScanSync)
}

// SubmitScan applies the content flags found by the scanner.
func (s *Service) SubmitScan(ctx context.Context, entityID int64, nonce string, status model.SyncStatus, report model.ScanReport) (bool, error) {
	accepted, err := s.repo.ApplyScanSync(ctx, entityID, nonce, status, &report, s.now())
	if err != nil {
		return false, err
	}
	s.logResult(ChannelScan, entityID, status, accepted)
	return accepted, nil
}

// CancelScan fails a pending scan. It reports false when nothing
// was pending.
func (s *Service) CancelScan(ctx context.Context, entityID int64) (bool, error) {
	return s.cancel(ctx, ChannelScan, entityID, s.repo.CancelScanSync)
}

// IssuePrice starts a price confirmation for a linked item.
func (s *Service) IssuePrice(ctx context.Context, itemID int64) (*Challenge, error) {
	return s.issue(ctx, ChannelPrice, itemID, s.repo.BeginPriceSync)
}

// SubmitPrice applies a price confirmation built from raw callback fields.
func (s *Service) SubmitPrice(ctx context.Context, itemID int64, nonce string, status model.SyncStatus, price, title, url string) (bool, error) {
	report := NewPriceReport(price, title, url)
	accepted, err := s.repo.ApplyPriceSync(ctx, itemID, nonce, status, report, s.now())
	if err != nil {
		return false, err
	}
	s.logResult(ChannelPrice, itemID, status, accepted)
	return accepted, nil
}

// CancelPrice fails a pending price confirmation. It reports false when nothing
// was pending.
func (s *Service) CancelPrice(ctx context.Context, itemID int64) (bool, error) {
	return s.cancel(ctx, ChannelPrice, itemID, s.repo.CancelPriceSync)
}
