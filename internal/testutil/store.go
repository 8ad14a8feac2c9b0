// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *repository.SQLStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedEntity inserts an entity owned by operatorID with the given name.
func SeedEntity(t *testing.T, s repository.EntityRepository, operatorID, name string) *model.Entity {
	t.Helper()

	e := &model.Entity{OperatorID: operatorID, Name: name, Category: "Other"}
	if err := s.CreateEntity(context.Background(), e); err != nil {
		t.Fatalf("seeding entity: %v", err)
	}
	return e
}
