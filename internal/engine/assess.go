package engine

import (
	"time"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

// Assessment is the coherent dashboard view of one entity.
type Assessment struct {
	Score     int            `json:"score"`
	Breakdown Breakdown      `json:"breakdown"`
	Risks     []Risk         `json:"risks"`
	Tasks     []Task         `json:"tasks"`
	TopAction *Action        `json:"top_action"`
	Progress  ProgressReport `json:"progress"`
}

// Assess runs every component over the same inputs and clock.
func Assess(e *model.Entity, ck *model.ChecklistRecord, p profile.Profile, doneToday map[string]bool, now time.Time) Assessment {
	b := ScoreBreakdown(e, ck, p, now)
	risks := Risks(e, ck, now)
	if risks == nil {
		risks = []Risk{}
	}
	return Assessment{
		Score:     b.Total,
		Breakdown: b,
		Risks:     risks,
		Tasks:     RecommendedTasks(e, ck, p, doneToday, now),
		TopAction: TopAction(e, ck, p, doneToday, now),
		Progress:  Progress(e, ck),
	}
}
