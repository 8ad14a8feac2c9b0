package service

import (
	"context"
	"strings"

	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// ItemStore is the storage ItemService needs.
type ItemStore interface {
	repository.EntityRepository
	repository.ItemRepository
}

// ItemService manages linked purchase items of an entity.
type ItemService struct {
	store ItemStore
}

// NewItemService creates an item service.
func NewItemService(store ItemStore) *ItemService {
	return &ItemService{store: store}
}

func normalizeItem(item *model.LinkedItem) {
	item.Alias = strings.TrimSpace(item.Alias)
	item.MallName = strings.TrimSpace(item.MallName)
	item.URL = strings.TrimSpace(item.URL)
	item.Memo = strings.TrimSpace(item.Memo)
}

func (s *ItemService) owned(ctx context.Context, operatorID string, entityID int64) error {
	_, err := s.store.GetEntity(ctx, operatorID, entityID)
	return err
}

// List returns the entity's items, pinned first.
func (s *ItemService) List(ctx context.Context, operatorID string, entityID int64) ([]model.LinkedItem, error) {
	if err := s.owned(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, entityID)
}

// Get returns one item.
func (s *ItemService) Get(ctx context.Context, operatorID string, entityID, itemID int64) (*model.LinkedItem, error) {
	if err := s.owned(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	return s.store.GetItem(ctx, entityID, itemID)
}

// Create validates and stores a new item.
func (s *ItemService) Create(ctx context.Context, operatorID string, entityID int64, item *model.LinkedItem) (*model.LinkedItem, error) {
	normalizeItem(item)
	item.ID = 0
	item.EntityID = entityID
	if err := validate.Struct(item); err != nil {
		return nil, err
	}
	if err := s.owned(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update overwrites the editable fields of an item.
func (s *ItemService) Update(ctx context.Context, operatorID string, entityID, itemID int64, item *model.LinkedItem) (*model.LinkedItem, error) {
	normalizeItem(item)
	item.ID = itemID
	item.EntityID = entityID
	if err := validate.Struct(item); err != nil {
		return nil, err
	}
	if err := s.owned(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return s.store.GetItem(ctx, entityID, itemID)
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, operatorID string, entityID, itemID int64) error {
	if err := s.owned(ctx, operatorID, entityID); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, entityID, itemID)
}
