package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"owners-health-api/internal/llm"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/testutil"
)

const operator = "op-1"

var testNow = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func seeded(t *testing.T) (*repository.SQLStore, *model.Entity) {
	t.Helper()

	store := testutil.NewTestStore(t)
	e := testutil.SeedEntity(t, store, operator, "Corner Bakery")
	return store, e
}

// fakeGenerator records prompts and answers with a fixed text or error.
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

var _ llm.Generator = (*fakeGenerator)(nil)

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
