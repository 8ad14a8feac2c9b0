package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// EntityStore is the storage EntityService needs.
type EntityStore interface {
	repository.EntityRepository
	repository.ChecklistRepository
}

// EntityService manages storefront profiles.
type EntityService struct {
	repo EntityStore
	log  *logrus.Entry
}

// NewEntityService creates a new entity service.
func NewEntityService(repo EntityStore, logger logrus.FieldLogger) *EntityService {
	return &EntityService{repo: repo, log: logging.Component(logger, "EntityService")}
}

// normalize trims every free-text field.
func normalize(e *model.Entity) {
	for _, p := range []*string{
		&e.Name, &e.Category, &e.Subcategory, &e.Address, &e.Target,
		&e.Signature, &e.Strengths, &e.Keywords, &e.ReviewURL, &e.InstaURL,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Create validates and stores a new entity for operatorID.
func (s *EntityService) Create(ctx context.Context, operatorID string, e *model.Entity) (*model.Entity, error) {
	normalize(e)
	e.ID = 0
	e.OperatorID = operatorID
	if err := validate.Struct(e); err != nil {
		return nil, err
	}

	if err := s.repo.CreateEntity(ctx, e); err != nil {
		return nil, err
	}
	if err := s.refreshLinkFlags(ctx, e); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"operator_id": operatorID, "entity_id": e.ID}).Info("entity created")
	return e, nil
}

// Update validates and overwrites an existing entity.
func (s *EntityService) Update(ctx context.Context, operatorID string, id int64, e *model.Entity) (*model.Entity, error) {
	normalize(e)
	e.ID = id
	e.OperatorID = operatorID
	if err := validate.Struct(e); err != nil {
		return nil, err
	}

	current, err := s.repo.GetEntity(ctx, operatorID, id)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = current.CreatedAt

	if err := s.repo.UpdateEntity(ctx, e); err != nil {
		return nil, err
	}
	if err := s.refreshLinkFlags(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// refreshLinkFlags mirrors the presence of the review and Instagram links
// onto the checklist. The keyword flag is owned by the scanner.
func (s *EntityService) refreshLinkFlags(ctx context.Context, e *model.Entity) error {
	err := s.repo.SetFlags(ctx, e.ID, map[model.Flag]bool{
		model.FlagReviewURL: e.ReviewURL != "",
		model.FlagInstaURL:  e.InstaURL != "",
	})
	if err != nil {
		return fmt.Errorf("failed to refresh checklist flags: %w", err)
	}
	return nil
}

// Get returns one entity of the operator.
func (s *EntityService) Get(ctx context.Context, operatorID string, id int64) (*model.Entity, error) {
	return s.repo.GetEntity(ctx, operatorID, id)
}

// List returns the operator's entities.
func (s *EntityService) List(ctx context.Context, operatorID string) ([]model.Entity, error) {
	return s.repo.ListEntities(ctx, operatorID)
}

// Checklist returns the entity's checklist after checking ownership.
func (s *EntityService) Checklist(ctx context.Context, operatorID string, id int64) (*model.ChecklistRecord, error) {
	if _, err := s.repo.GetEntity(ctx, operatorID, id); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateChecklist(ctx, id)
}

// TouchActivity stamps a whitelisted activity with at.
func (s *EntityService) TouchActivity(ctx context.Context, operatorID string, id int64, activity model.Activity, at time.Time) error {
	if _, ok := activity.Column(); !ok {
		return fmt.Errorf("%w: unknown activity %q", ErrInvalidInput, activity)
	}
	if _, err := s.repo.GetEntity(ctx, operatorID, id); err != nil {
		return err
	}
	return s.repo.TouchActivity(ctx, id, activity, at)
}

// SetFlags writes checklist content flags.
func (s *EntityService) SetFlags(ctx context.Context, operatorID string, id int64, flags map[model.Flag]bool) error {
	for f := range flags {
		if !f.Valid() {
			return fmt.Errorf("%w: unknown flag %q", ErrInvalidInput, f)
		}
	}
	if _, err := s.repo.GetEntity(ctx, operatorID, id); err != nil {
		return err
	}
	return s.repo.SetFlags(ctx, id, flags)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
