package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

// Severity ranks a risk finding.
type Severity string

const (
	SeverityHigh Severity = "HIGH"
	SeverityMid  Severity = "MID"
	SeverityLow  Severity = "LOW"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMid:
		return 1
	}
	return 2
}

// Risk is one concrete finding with where to go to fix it.
type Risk struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Target   string   `json:"target"`
	Action   string   `json:"action"`
}

// minBlankRequired is how many blank required fields make the profile
// count as incomplete.
const minBlankRequired = 3

// Risks evaluates every risk rule and returns the findings sorted by
// severity, keeping rule order within a tier.
func Risks(e *model.Entity, ck *model.ChecklistRecord, now time.Time) []Risk {
	var risks []Risk
	add := func(sev Severity, msg, target, action string) {
		risks = append(risks, Risk{Severity: sev, Message: msg, Target: target, Action: action})
	}

	if ck.LastReviewReplyAt == nil {
		add(SeverityHigh, "No review replies recorded yet (write your first reply)", profile.TargetReview, "Write a reply")
	} else if d := daysSince(ck.LastReviewReplyAt, now); d > staleDays {
		add(SeverityHigh, fmt.Sprintf("No review replies for %d days (lowering your score)", d), profile.TargetReview, "Write a reply")
	}

	if ck.LastInstaCaptionAt == nil {
		add(SeverityMid, "No Instagram caption generated yet", profile.TargetInsta, "Create a caption")
	}

	if strings.TrimSpace(e.ReviewURL) == "" {
		add(SeverityMid, "Review URL missing (sync impossible)", profile.TargetStoreEdit, "Enter it")
	}

	switch n := ck.ReviewUnrepliedCount; {
	case n > 100:
		add(SeverityHigh, fmt.Sprintf("%d unreplied reviews are piling up (critical)", n), profile.TargetReview, "Reply now")
	case n > 20:
		add(SeverityHigh, fmt.Sprintf("%d unreplied reviews need attention soon", n), profile.TargetReview, "Reply now")
	case n > 5:
		add(SeverityMid, fmt.Sprintf("%d unreplied reviews are waiting", n), profile.TargetReview, "Reply now")
	}

	if ck.ReviewSyncAt == nil {
		add(SeverityMid, "Reviews have never been synced", profile.TargetDashboard, "Sync now")
	} else if now.Sub(*ck.ReviewSyncAt) > SyncFreshness {
		add(SeverityHigh, "Review data is stale, please sync again", profile.TargetDashboard, "Sync now")
	}

	if len(MissingRequiredFields(e)) >= minBlankRequired {
		add(SeverityHigh, "Core profile fields are mostly empty", profile.TargetStoreEdit, "Fill them in")
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.rank() < risks[j].Severity.rank()
	})
	return risks
}

// MissingRequiredFields lists the required text fields that are blank.
func MissingRequiredFields(e *model.Entity) []model.TextField {
	var missing []model.TextField
	for _, f := range model.TextFields {
		if strings.TrimSpace(e.Field(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
