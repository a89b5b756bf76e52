package activity

import (
	"strings"

	"github.com/i474232898/raincheck/internal/weather"
)

// Verdict is the outcome of evaluating one activity against a snapshot.
type Verdict struct {
	ActivityID         string `json:"activity_id"`
	Viable             bool   `json:"viable"`
	IconKey            string `json:"icon_key"`
	RecommendationText string `json:"recommendation_text"`
}

// Activity describes a catalog entry.
type Activity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon_key"`
}

var index = func() map[string]*Rule {
	m := make(map[string]*Rule, len(rules))
	for i := range rules {
		m[rules[i].ID] = &rules[i]
	}
	return m
}()

// Catalog lists the known activities in a stable order.
func Catalog() []Activity {
	out := make([]Activity, 0, len(rules))
	for _, r := range rules {
		out = append(out, Activity{ID: r.ID, Label: r.Label, Icon: r.Icon})
	}
	return out
}

// NormalizeID lowercases id, turns spaces and underscores into dashes and resolves aliases.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.NewReplacer("_", "-", " ", "-").Replace(id)
	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}

// Known reports whether id (after normalization) has its own rule.
func Known(id string) bool {
	_, ok := index[NormalizeID(id)]
	return ok
}

// Evaluate applies the activity's rule to s. Unknown ids use the default rule.
func Evaluate(s weather.Snapshot, activityID string) Verdict {
	id := NormalizeID(activityID)
	rule, ok := index[id]
	if !ok {
		rule = &defaultRule
	}
	return rule.evaluate(s, id)
}

// EvaluateAll evaluates each id independently, preserving order.
func EvaluateAll(s weather.Snapshot, ids []string) []Verdict {
	out := make([]Verdict, 0, len(ids))
	for _, id := range ids {
		out = append(out, Evaluate(s, id))
	}
	return out
}

func (r *Rule) evaluate(s weather.Snapshot, id string) Verdict {
	for _, g := range r.Guards {
		if !g.holds(s) {
			return Verdict{ActivityID: id, Viable: false, IconKey: g.Icon, RecommendationText: g.Message}
		}
	}

	msg := ""
	for _, b := range r.Branches {
		if b.matches(s) {
			msg = b.Message
			break
		}
	}

	for _, g := range r.Final {
		if !g.holds(s) {
			return Verdict{ActivityID: id, Viable: false, IconKey: g.Icon, RecommendationText: g.Message}
		}
	}
	return Verdict{ActivityID: id, Viable: true, IconKey: r.Icon, RecommendationText: msg}
}
