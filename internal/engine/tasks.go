package engine

import (
	"time"

	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
)

// MaxTasks caps the recommended task list.
const MaxTasks = 3

// maintainScore is the score from which the operator is told to just keep going.
const maintainScore = 90

// Task is one recommended action for today.
type Task struct {
	Group  string `json:"group"`
	Text   string `json:"text"`
	Target string `json:"target"`
}

// ActionKind tells where a top action came from.
type ActionKind string

const (
	ActionRisk     ActionKind = "risk"
	ActionMaintain ActionKind = "maintain"
	ActionTask     ActionKind = "task"
)

// Action is the single item surfaced as "today's one thing".
type Action struct {
	Kind     ActionKind `json:"kind"`
	Severity Severity   `json:"severity,omitempty"`
	Title    string     `json:"title"`
	Text     string     `json:"text"`
	Target   string     `json:"target"`
	Label    string     `json:"label,omitempty"`
}

// RecommendedTasks returns at most MaxTasks tasks, one per group. The two
// urgent activity checks come first, then the profile's rules in order,
// skipping groups already done today.
func RecommendedTasks(e *model.Entity, ck *model.ChecklistRecord, p profile.Profile, doneToday map[string]bool, now time.Time) []Task {
	tasks := make([]Task, 0, MaxTasks)
	added := make(map[string]bool, MaxTasks)
	add := func(group, text, target string) {
		if added[group] || len(tasks) >= MaxTasks {
			return
		}
		added[group] = true
		tasks = append(tasks, Task{Group: group, Text: text, Target: target})
	}

	if d := daysSince(ck.LastReviewReplyAt, now); d > staleDays {
		add(profile.NoReviewActivity.Group(), "Write one review reply today (big impact on score and trust)", profile.TargetReview)
	}
	if d := daysSince(ck.LastInstaCaptionAt, now); d > staleDays {
		add(profile.NoInstaActivity.Group(), "Create one Instagram caption and prepare a post", profile.TargetInsta)
	}

	for _, rule := range p.TodoRules {
		if len(tasks) >= MaxTasks {
			break
		}
		if !rule.Condition.Holds(e, ck) {
			continue
		}
		group := rule.Condition.Group()
		if doneToday[group] {
			continue
		}
		add(group, rule.Text, rule.Condition.Target())
	}

	return tasks
}

// TopAction picks today's single action: the first HIGH risk, a maintain
// message for a score of 90 or more, or the first recommended task. It
// returns nil when there is nothing to do.
func TopAction(e *model.Entity, ck *model.ChecklistRecord, p profile.Profile, doneToday map[string]bool, now time.Time) *Action {
	for _, r := range Risks(e, ck, now) {
		if r.Severity == SeverityHigh {
			return &Action{
				Kind:     ActionRisk,
				Severity: r.Severity,
				Title:    "Today's one thing",
				Text:     r.Message,
				Target:   r.Target,
				Label:    r.Action,
			}
		}
	}

	if Score(e, ck, p, now) >= maintainScore {
		return &Action{
			Kind:   ActionMaintain,
			Title:  "Today's one thing: maintenance",
			Text:   "Your store is in great shape. Keeping it up is enough for today.",
			Target: profile.TargetDashboard,
		}
	}

	if tasks := RecommendedTasks(e, ck, p, doneToday, now); len(tasks) > 0 {
		return &Action{
			Kind:   ActionTask,
			Title:  "Today's one thing",
			Text:   tasks[0].Text,
			Target: tasks[0].Target,
		}
	}

	return nil
}
