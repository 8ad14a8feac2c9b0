package engine_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/engine"
	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

type riskKey struct {
	Severity engine.Severity
	Target   string
}

func riskKeys(risks []engine.Risk) []riskKey {
	out := make([]riskKey, 0, len(risks))
	for _, r := range risks {
		out = append(out, riskKey{r.Severity, r.Target})
	}
	return out
}

func Test_Risks_Reports_Everything_For_Empty_Entity(t *testing.T) {
	t.Parallel()

	e := &model.Entity{Name: "Empty"}
	ck := model.NewChecklistRecord(1)

	risks := engine.Risks(e, ck, testNow)

	want := []riskKey{
		{engine.SeverityHigh, profile.TargetReview},
		{engine.SeverityHigh, profile.TargetStoreEdit},
		{engine.SeverityMid, profile.TargetInsta},
		{engine.SeverityMid, profile.TargetStoreEdit},
		{engine.SeverityMid, profile.TargetDashboard},
	}
	if diff := cmp.Diff(want, riskKeys(risks)); diff != "" {
		t.Fatalf("risks mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, risks[0].Message, "No review replies recorded yet")
	assert.Contains(t, risks[4].Message, "never been synced")
}

func Test_Risks_Is_Empty_For_Healthy_Entity(t *testing.T) {
	t.Parallel()

	ck := model.NewChecklistRecord(1)
	ck.LastReviewReplyAt = ago(days(1))
	ck.LastInstaCaptionAt = ago(days(40))
	ck.ReviewSyncStatus = model.SyncOK
	ck.ReviewSyncAt = ago(time.Hour)
	ck.ReviewUnrepliedCount = 5

	assert.Empty(t, engine.Risks(fullEntity(), ck, testNow))
}

func Test_Risks_Reports_Stale_Reply_With_Day_Count(t *testing.T) {
	t.Parallel()

	ck := model.NewChecklistRecord(1)
	ck.LastReviewReplyAt = ago(days(45))
	ck.LastInstaCaptionAt = ago(days(1))
	ck.ReviewSyncStatus = model.SyncOK
	ck.ReviewSyncAt = ago(time.Hour)
	ck.ReviewUnrepliedCount = 0

	risks := engine.Risks(fullEntity(), ck, testNow)

	require.Len(t, risks, 1)
	assert.Equal(t, engine.SeverityHigh, risks[0].Severity)
	assert.Contains(t, risks[0].Message, "45 days")
}

func Test_Risks_Grades_Unreplied_Backlog(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		count int
		want  []engine.Severity
	}{
		{count: model.UnknownCount, want: nil},
		{count: 5, want: nil},
		{count: 6, want: []engine.Severity{engine.SeverityMid}},
		{count: 20, want: []engine.Severity{engine.SeverityMid}},
		{count: 21, want: []engine.Severity{engine.SeverityHigh}},
		{count: 101, want: []engine.Severity{engine.SeverityHigh}},
	}

	for _, tc := range testCases {
		ck := model.NewChecklistRecord(1)
		ck.LastReviewReplyAt = ago(days(1))
		ck.LastInstaCaptionAt = ago(days(1))
		ck.ReviewSyncStatus = model.SyncOK
		ck.ReviewSyncAt = ago(time.Hour)
		ck.ReviewUnrepliedCount = tc.count

		var got []engine.Severity
		for _, r := range engine.Risks(fullEntity(), ck, testNow) {
			got = append(got, r.Severity)
		}
		assert.Equal(t, tc.want, got, "count=%d", tc.count)
	}
}

func Test_Risks_Flags_Stale_Sync_As_High(t *testing.T) {
	t.Parallel()

	ck := model.NewChecklistRecord(1)
	ck.LastReviewReplyAt = ago(days(1))
	ck.LastInstaCaptionAt = ago(days(1))
	ck.ReviewSyncStatus = model.SyncOK
	ck.ReviewSyncAt = ago(30 * time.Hour)

	risks := engine.Risks(fullEntity(), ck, testNow)

	require.Len(t, risks, 1)
	assert.Equal(t, riskKey{engine.SeverityHigh, profile.TargetDashboard}, riskKeys(risks)[0])
}

func Test_MissingRequiredFields_Lists_Blank_Fields_In_Order(t *testing.T) {
	t.Parallel()

	e := fullEntity()
	e.Signature = " "
	e.InstaURL = ""

	got := engine.MissingRequiredFields(e)
	assert.Equal(t, []model.TextField{model.FieldSignature, model.FieldInstaURL}, got)
}
