package engine

import (
	"strings"
	"time"

	"owners-health-api/internal/model"
)

// ProgressItem is one entry of the completion checklist. Tier 1 is the
// most fundamental.
type ProgressItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
	Tier  int    `json:"tier"`
}

// ProgressReport is the flat completion checklist, independent of the
// weighted score.
type ProgressReport struct {
	Percent int            `json:"percent"`
	Done    int            `json:"done"`
	Total   int            `json:"total"`
	Items   []ProgressItem `json:"items"`
}

// Progress evaluates the fixed 13-item catalog.
func Progress(e *model.Entity, ck *model.ChecklistRecord) ProgressReport {
	hasText := func(s string) bool { return strings.TrimSpace(s) != "" }
	hasTS := func(ts *time.Time) bool { return ts != nil }

	items := []ProgressItem{
		{"Profile: enter address", hasText(e.Address), 1},
		{"Profile: enter signature menu/service", hasText(e.Signature), 1},
		{"Profile: enter strengths", hasText(e.Strengths), 1},

		{"Reviews: enter review URL", hasText(e.ReviewURL), 2},
		{"Instagram: enter Instagram URL", hasText(e.InstaURL), 2},

		{"Place: register keywords", hasText(e.Keywords), 2},
		{"Place: create description", ck.HasPlaceDesc, 3},
		{"Place: create directions", ck.HasWayGuide, 3},
		{"Place: create parking guide", ck.HasParkingGuide, 3},

		{"Reviews: write one reply", hasTS(ck.LastReviewReplyAt), 2},
		{"Instagram: create one caption", hasTS(ck.LastInstaCaptionAt), 3},
		{"Marketing: create one blog post", hasTS(ck.LastBlogPostAt), 4},
		{"Events: create one event plan", hasTS(ck.LastEventPlanAt), 4},
	}

	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}

	return ProgressReport{
		Percent: done * 100 / len(items),
		Done:    done,
		Total:   len(items),
		Items:   items,
	}
}
