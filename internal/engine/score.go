// Package engine computes the operating health view of a storefront: the
// weighted score, risk findings, recommended tasks and the flat progress
// checklist. Every function is pure over its inputs and the supplied clock.
package engine

import (
	"strings"
	"time"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

const (
	// SyncFreshness is how long a review sync counts as current.
	SyncFreshness = 24 * time.Hour

	// neverDays stands in for an activity that was never recorded.
	neverDays = 9999

	recentDays = 7
	staleDays  = 30

	maxScore = 100
)

// Breakdown shows how a score was assembled before clamping.
type Breakdown struct {
	Completeness int `json:"completeness"`
	Activity     int `json:"activity"`
	Sync         int `json:"sync"`
	Raw          int `json:"raw"`
	Total        int `json:"total"`
}

var fieldWeights = []struct {
	field  model.TextField
	weight string
}{
	{model.FieldAddress, profile.WeightAddress},
	{model.FieldSignature, profile.WeightSignature},
	{model.FieldStrengths, profile.WeightStrengths},
	{model.FieldKeywords, profile.WeightKeywords},
	{model.FieldReviewURL, profile.WeightReviewURL},
	{model.FieldInstaURL, profile.WeightInstaURL},
}

// Score returns the 0-100 operating health score.
func Score(e *model.Entity, ck *model.ChecklistRecord, p profile.Profile, now time.Time) int {
	return ScoreBreakdown(e, ck, p, now).Total
}

// ScoreBreakdown returns the score together with its components.
func ScoreBreakdown(e *model.Entity, ck *model.ChecklistRecord, p profile.Profile, now time.Time) Breakdown {
	b := Breakdown{
		Completeness: CompletenessScore(e, p.Weights),
		Activity:     ActivityScore(ck, p.Weights, now),
		Sync:         SyncAdjustment(ck, p.Weights, now),
	}
	b.Raw = b.Completeness + b.Activity + b.Sync
	b.Total = clamp(b.Raw, 0, maxScore)
	return b
}

// CompletenessScore sums the weights of the non-blank text fields.
func CompletenessScore(e *model.Entity, w profile.Weights) int {
	score := 0
	for _, fw := range fieldWeights {
		if strings.TrimSpace(e.Field(fw.field)) != "" {
			score += w.Get(fw.weight)
		}
	}
	return score
}

// ActivityScore sums the recency points of the four tracked activities.
func ActivityScore(ck *model.ChecklistRecord, w profile.Weights, now time.Time) int {
	return activityPoints(ck.LastReviewReplyAt, w.Get(profile.WeightReview), now) +
		activityPoints(ck.LastInstaCaptionAt, w.Get(profile.WeightInsta), now) +
		activityPoints(ck.LastBlogPostAt, w.Get(profile.WeightBlog), now) +
		activityPoints(ck.LastEventPlanAt, w.Get(profile.WeightEvent), now)
}

// SyncAdjustment applies the review-sync staleness penalty or, for a fresh
// OK sync, the sync bonus plus the unreplied-count ladder. A fresh sync in
// any other status adds nothing.
func SyncAdjustment(ck *model.ChecklistRecord, w profile.Weights, now time.Time) int {
	switch {
	case ck.ReviewSyncAt == nil:
		return -w.Get(profile.WeightSyncStale)
	case now.Sub(*ck.ReviewSyncAt) > SyncFreshness:
		return -w.Get(profile.WeightSyncStale)
	case ck.ReviewSyncStatus == model.SyncOK:
		adj := w.Get(profile.WeightReviewSync)
		if ladder, ok := UnrepliedAdjustment(ck.ReviewUnrepliedCount); ok {
			adj += ladder
		}
		return adj
	}
	return 0
}

// UnrepliedAdjustment maps an unreplied-review count to its bonus or
// penalty. Negative counts are unknown and not applicable.
func UnrepliedAdjustment(count int) (int, bool) {
	switch {
	case count < 0:
		return 0, false
	case count == 0:
		return 5, true
	case count <= 5:
		return 0, true
	case count <= 20:
		return -5, true
	case count <= 100:
		return -15, true
	}
	return -30, true
}

func activityPoints(ts *time.Time, weight int, now time.Time) int {
	d := daysSince(ts, now)
	switch {
	case d <= recentDays:
		return weight
	case d <= staleDays:
		return max(1, weight/2)
	}
	return 0
}

// daysSince returns whole days elapsed since ts.
func daysSince(ts *time.Time, now time.Time) int {
	if ts == nil {
		return neverDays
	}
	return int(now.Sub(*ts) / (24 * time.Hour))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
