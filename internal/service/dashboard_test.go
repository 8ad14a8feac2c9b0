package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/engine"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/service"
)

func Test_DayBounds_Uses_Location_Midnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("KST", 9*60*60)
	now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC) // 05:00 on the 15th in KST

	from, to := service.DayBounds(now, loc)

	assert.True(t, from.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, loc)))
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}

func Test_Dashboard_Of_Blank_Entity_Leads_With_High_Risk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, e := seeded(t)
	svc := service.NewDashboardService(store, nil, time.UTC, fixedNow)

	d, err := svc.Dashboard(ctx, operator, e.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, d.Score)
	assert.True(t, d.AsOf.Equal(testNow))
	require.NotEmpty(t, d.Risks)
	assert.Equal(t, engine.SeverityHigh, d.Risks[0].Severity)
	require.NotNil(t, d.TopAction)
	assert.Equal(t, engine.ActionRisk, d.TopAction.Kind)
	assert.LessOrEqual(t, len(d.Tasks), engine.MaxTasks)
	assert.Empty(t, d.DoneToday)
}

func Test_Dashboard_Reports_Groups_Done_Today(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, e := seeded(t)
	tasks := service.NewTaskService(store, fixedNow, logging.Discard())
	svc := service.NewDashboardService(store, nil, time.UTC, fixedNow)

	_, err := tasks.Record(ctx, operator, e.ID, service.TaskOutcome{Group: "event", Status: model.TodoDone})
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, operator, e.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"event"}, d.DoneToday)
	for _, task := range d.Tasks {
		assert.NotEqual(t, "event", task.Group)
	}
}

func Test_Dashboard_Rejects_Foreign_Entity(t *testing.T) {
	t.Parallel()

	store, e := seeded(t)
	svc := service.NewDashboardService(store, nil, time.UTC, fixedNow)

	_, err := svc.Dashboard(context.Background(), "intruder", e.ID)
	assert.True(t, service.IsNotFound(err))
}
