// Package profile resolves the layered scoring and task configuration
// (default, category, subcategory) that drives the health engine.
package profile

// Weight keys understood by the scoring engine.
const (
	WeightAddress    = "address"
	WeightSignature  = "signature"
	WeightStrengths  = "strengths"
	WeightKeywords   = "keywords"
	WeightReviewURL  = "review_url"
	WeightInstaURL   = "insta_url"
	WeightReview     = "activity_review"
	WeightInsta      = "activity_insta"
	WeightBlog       = "activity_blog"
	WeightEvent      = "activity_event"
	WeightReviewSync = "activity_review_sync"
	WeightSyncStale  = "penalty_review_sync_over_24h"
)

// Weights maps a field or activity name to a non-negative score weight.
type Weights map[string]int

// Get returns the weight for key, or 0 when it is not configured.
func (w Weights) Get(key string) int {
	return w[key]
}

// TodoRule pairs a condition with the task text shown when it holds.
type TodoRule struct {
	Condition Condition `json:"condition" yaml:"condition"`
	Text      string    `json:"text" yaml:"text"`
}

// Template is a canned reply text. Templates are only used for display.
type Template struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Profile is a resolved, read-only configuration. The same type is used for
// catalog overrides, where a nil section means "nothing to override".
type Profile struct {
	Weights   Weights               `json:"score_weights" yaml:"score_weights"`
	TodoRules []TodoRule            `json:"todo_rules" yaml:"todo_rules"`
	Templates map[string][]Template `json:"templates" yaml:"templates"`
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := Profile{
		Weights:   make(Weights, len(p.Weights)),
		TodoRules: make([]TodoRule, len(p.TodoRules)),
		Templates: make(map[string][]Template, len(p.Templates)),
	}
	for k, v := range p.Weights {
		out.Weights[k] = v
	}
	copy(out.TodoRules, p.TodoRules)
	for group, items := range p.Templates {
		out.Templates[group] = append([]Template(nil), items...)
	}
	return out
}

// Merge applies override on top of base and returns a new profile.
// Weights are replaced key by key. Override rules come first, followed by
// base rules whose exact (condition, text) pair is not in the override.
// Template groups get override entries prepended; base-only groups are kept.
func Merge(base, override Profile) Profile {
	out := base.Clone()

	for k, v := range override.Weights {
		out.Weights[k] = v
	}

	if len(override.TodoRules) > 0 {
		seen := make(map[TodoRule]bool, len(override.TodoRules))
		rules := make([]TodoRule, 0, len(override.TodoRules)+len(out.TodoRules))
		for _, r := range override.TodoRules {
			seen[r] = true
			rules = append(rules, r)
		}
		for _, r := range out.TodoRules {
			if !seen[r] {
				rules = append(rules, r)
			}
		}
		out.TodoRules = rules
	}

	for group, items := range override.Templates {
		merged := make([]Template, 0, len(items)+len(out.Templates[group]))
		merged = append(merged, items...)
		merged = append(merged, out.Templates[group]...)
		out.Templates[group] = merged
	}

	return out
}
