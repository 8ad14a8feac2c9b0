package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/service"
)

func Test_RunNow_Prunes_Only_Expired_Records(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, e := seeded(t)
	now := time.Now()

	for _, age := range []time.Duration{100 * 24 * time.Hour, time.Hour} {
		require.NoError(t, store.SaveHistory(ctx, &model.HistoryEntry{
			EntityID: e.ID, OperatorID: operator, Feature: "place_desc", Output: "text", CreatedAt: now.Add(-age),
		}))
		require.NoError(t, store.RecordTodoEvent(ctx, &model.TodoEvent{
			EntityID: e.ID, OperatorID: operator, Group: "review", Status: model.TodoDone, CreatedAt: now.Add(-age),
		}))
	}

	sweeper := service.NewRetentionSweeper(store, service.RetentionConfig{
		HistoryRetention: 90 * 24 * time.Hour,
		TodoRetention:    30 * 24 * time.Hour,
	}, logging.Discard())

	res, err := sweeper.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.SweepResult{History: 1, TodoEvents: 1}, res)

	hist, err := store.RecentHistory(ctx, operator, e.ID, repository.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func Test_Sweeper_Stop_Is_Idempotent(t *testing.T) {
	t.Parallel()

	store, _ := seeded(t)
	sweeper := service.NewRetentionSweeper(store, service.RetentionConfig{InitialDelay: time.Hour}, logging.Discard())

	sweeper.Start()
	sweeper.Stop()
	sweeper.Stop()
}
