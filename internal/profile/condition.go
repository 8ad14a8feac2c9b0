package profile

import (
	"fmt"
	"strings"

	"owners-health-api/internal/model"

	"gopkg.in/yaml.v3"
)

// Condition is the closed set of todo rule predicates.
type Condition int

const (
	MissingKeywords Condition = iota + 1
	MissingReviewURL
	MissingInstaURL
	MissingStrengths
	MissingSignature
	NoReviewActivity
	NoInstaActivity
	NoBlogActivity
	NoEventActivity
)

// Target areas a task or risk can send the operator to.
const (
	TargetReview    = "REVIEW"
	TargetInsta     = "INSTA"
	TargetBlog      = "BLOG"
	TargetEvent     = "EVENT"
	TargetPlace     = "PLACE"
	TargetStoreEdit = "STORE_EDIT"
	TargetDashboard = "DASHBOARD"
)

type conditionMeta struct {
	name   string
	group  string
	target string
}

var conditionTable = map[Condition]conditionMeta{
	MissingKeywords:  {"missing_keywords", "keywords", TargetPlace},
	MissingReviewURL: {"missing_review_url", "review_url", TargetStoreEdit},
	MissingInstaURL:  {"missing_insta_url", "insta_url", TargetStoreEdit},
	MissingStrengths: {"missing_strengths", "strengths", TargetStoreEdit},
	MissingSignature: {"missing_signature", "signature", TargetStoreEdit},
	NoReviewActivity: {"no_review_activity", "review", TargetReview},
	NoInstaActivity:  {"no_insta_activity", "insta", TargetInsta},
	NoBlogActivity:   {"no_blog_activity", "blog", TargetBlog},
	NoEventActivity:  {"no_event_activity", "event", TargetEvent},
}

// ParseCondition maps a condition name to its kind.
func ParseCondition(name string) (Condition, error) {
	name = strings.TrimSpace(name)
	for c, meta := range conditionTable {
		if meta.name == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown todo condition %q", name)
}

// String returns the condition name used in catalog files.
func (c Condition) String() string {
	if meta, ok := conditionTable[c]; ok {
		return meta.name
	}
	return fmt.Sprintf("condition(%d)", int(c))
}

// Group is the task group a condition's task belongs to.
func (c Condition) Group() string {
	return conditionTable[c].group
}

// Target is the area the task sends the operator to.
func (c Condition) Target() string {
	return conditionTable[c].target
}

// Holds evaluates the condition against an entity and its checklist.
func (c Condition) Holds(e *model.Entity, ck *model.ChecklistRecord) bool {
	switch c {
	case MissingKeywords:
		return isBlank(e.Keywords)
	case MissingReviewURL:
		return isBlank(e.ReviewURL)
	case MissingInstaURL:
		return isBlank(e.InstaURL)
	case MissingStrengths:
		return isBlank(e.Strengths)
	case MissingSignature:
		return isBlank(e.Signature)
	case NoReviewActivity:
		return ck.LastReviewReplyAt == nil
	case NoInstaActivity:
		return ck.LastInstaCaptionAt == nil
	case NoBlogActivity:
		return ck.LastBlogPostAt == nil
	case NoEventActivity:
		return ck.LastEventPlanAt == nil
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MarshalText implements encoding.TextMarshaler.
func (c Condition) MarshalText() ([]byte, error) {
	if _, ok := conditionTable[c]; !ok {
		return nil, fmt.Errorf("unknown todo condition %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Condition) UnmarshalText(text []byte) error {
	parsed, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	if err := c.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	return nil
}
