package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"owners-health-api/internal/engine"
	"owners-health-api/internal/model"
)

func Test_Progress_Is_Zero_For_Empty_Entity(t *testing.T) {
	t.Parallel()

	report := engine.Progress(&model.Entity{}, model.NewChecklistRecord(1))

	assert.Equal(t, 0, report.Percent)
	assert.Equal(t, 0, report.Done)
	assert.Equal(t, 13, report.Total)
	assert.Len(t, report.Items, 13)
}

func Test_Progress_Floors_Percentage(t *testing.T) {
	t.Parallel()

	e := &model.Entity{Address: "1 Main St"}
	report := engine.Progress(e, model.NewChecklistRecord(1))

	assert.Equal(t, 1, report.Done)
	assert.Equal(t, 7, report.Percent)
	assert.True(t, report.Items[0].Done)
	assert.Equal(t, 1, report.Items[0].Tier)
}

func Test_Progress_Is_Complete_When_Every_Item_Is_Done(t *testing.T) {
	t.Parallel()

	ck := model.NewChecklistRecord(1)
	ck.HasPlaceDesc = true
	ck.HasWayGuide = true
	ck.HasParkingGuide = true
	ck.LastReviewReplyAt = ago(days(400))
	ck.LastInstaCaptionAt = ago(days(400))
	ck.LastBlogPostAt = ago(days(1))
	ck.LastEventPlanAt = ago(days(1))

	report := engine.Progress(fullEntity(), ck)

	assert.Equal(t, 13, report.Done)
	assert.Equal(t, 100, report.Percent)
}

func Test_Progress_Ignores_Scanner_Keyword_Flag(t *testing.T) {
	t.Parallel()

	e := fullEntity()
	e.Keywords = ""
	ck := model.NewChecklistRecord(1)
	ck.HasKeywords = true

	report := engine.Progress(e, ck)

	for _, it := range report.Items {
		if it.Label == "Place: register keywords" {
			assert.False(t, it.Done)
		}
	}
}

func Test_Assess_Combines_All_Components(t *testing.T) {
	t.Parallel()

	e := &model.Entity{Name: "Empty"}
	ck := model.NewChecklistRecord(1)

	a := engine.Assess(e, ck, defaultProfile(), nil, testNow)

	assert.Equal(t, 0, a.Score)
	assert.NotEmpty(t, a.Risks)
	assert.Len(t, a.Tasks, 3)
	if assert.NotNil(t, a.TopAction) {
		assert.Equal(t, engine.ActionRisk, a.TopAction.Kind)
	}
	assert.Equal(t, 0, a.Progress.Percent)
}
