package catalog

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// DefaultMaxScore is the rubric ceiling used when a question omits one.
const DefaultMaxScore = 100.0

// Question is one assessable prompt together with everything needed to score it.
type Question struct {
	ID         string              `yaml:"id" json:"id"`
	Category   taxonomy.Category   `yaml:"category" json:"category"`
	Difficulty taxonomy.Difficulty `yaml:"difficulty" json:"difficulty"`

	// Prompt is the text shown to the candidate.
	Prompt string `yaml:"prompt" json:"prompt"`

	// ExpectedPatterns are substrings that, when present in a normalized
	// answer, identify it as correct for the pattern's credit.
	ExpectedPatterns []ExpectedPattern `yaml:"expected_patterns" json:"expected_patterns"`

	Rubric    Rubric            `yaml:"rubric" json:"rubric"`
	FollowUps []FollowUpTrigger `yaml:"follow_ups,omitempty" json:"follow_ups,omitempty"`
}

// ExpectedPattern is a known-good answer fragment.
type ExpectedPattern struct {
	Pattern     string  `yaml:"pattern" json:"pattern"`
	Credit      float64 `yaml:"credit" json:"credit"` // points on the 0–100 scale
	Explanation string  `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// Rubric describes how partial and imperfect answers are scored.
type Rubric struct {
	MaxScore       float64             `yaml:"max_score" json:"max_score"`
	Criteria       []Criterion         `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	CommonMistakes []CommonMistake     `yaml:"common_mistakes,omitempty" json:"common_mistakes,omitempty"`
	PartialCredit  []PartialCreditRule `yaml:"partial_credit,omitempty" json:"partial_credit,omitempty"`
}

// Criterion is a weighted aspect the AI judge considers.
type Criterion struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// CommonMistake is a known wrong idea and its point deduction.
type CommonMistake struct {
	Name      string  `yaml:"name" json:"name"`
	Pattern   string  `yaml:"pattern,omitempty" json:"pattern,omitempty"` // falls back to Name
	Deduction float64 `yaml:"deduction" json:"deduction"`
	Feedback  string  `yaml:"feedback,omitempty" json:"feedback,omitempty"`
}

// MatchText returns the text searched for in answers.
func (m CommonMistake) MatchText() string {
	if m.Pattern != "" {
		return m.Pattern
	}
	return m.Name
}

// PartialCreditRule awards a percentage of MaxScore when Condition appears in an answer.
type PartialCreditRule struct {
	Condition        string  `yaml:"condition" json:"condition"`
	CreditPercentage float64 `yaml:"credit_percentage" json:"credit_percentage"`
}

// EffectiveMaxScore returns MaxScore, or DefaultMaxScore when unset.
func (r Rubric) EffectiveMaxScore() float64 {
	if r.MaxScore <= 0 {
		return DefaultMaxScore
	}
	return r.MaxScore
}

// Text renders the rubric as plain text for the AI judge.
func (r Rubric) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Max score: %.0f\n", r.EffectiveMaxScore())
	if len(r.Criteria) > 0 {
		b.WriteString("Criteria:\n")
		for _, c := range r.Criteria {
			fmt.Fprintf(&b, "- %s (weight %.2f)\n", c.Name, c.Weight)
		}
	}
	if len(r.CommonMistakes) > 0 {
		b.WriteString("Common mistakes:\n")
		for _, m := range r.CommonMistakes {
			fmt.Fprintf(&b, "- %s (-%.0f): %s\n", m.Name, m.Deduction, m.Feedback)
		}
	}
	if len(r.PartialCredit) > 0 {
		b.WriteString("Partial credit:\n")
		for _, p := range r.PartialCredit {
			fmt.Fprintf(&b, "- %s: %.0f%%\n", p.Condition, p.CreditPercentage)
		}
	}
	return b.String()
}

// ConditionKind tags a follow-up condition variant.
type ConditionKind string

const (
	ScoreBelow ConditionKind = "score_below"
	ScoreAbove ConditionKind = "score_above"
)

// Condition is a typed follow-up predicate over an answer's score.
type Condition struct {
	Kind      ConditionKind `yaml:"kind" json:"kind"`
	Threshold float64       `yaml:"threshold" json:"threshold"`
}

// Holds evaluates the condition against a score. Unknown kinds never hold.
func (c Condition) Holds(score float64) bool {
	switch c.Kind {
	case ScoreBelow:
		return score < c.Threshold
	case ScoreAbove:
		return score > c.Threshold
	default:
		return false
	}
}

// Valid reports whether the condition kind is known.
func (c Condition) Valid() bool {
	return c.Kind == ScoreBelow || c.Kind == ScoreAbove
}

// FollowUpTrigger proposes a follow-up question when its condition holds.
// Template is a text/template over {{.Score}} and {{.Prompt}}.
type FollowUpTrigger struct {
	When     Condition `yaml:"when" json:"when"`
	Template string    `yaml:"template" json:"template"`
}

// Clone returns a deep copy so issued questions cannot change under a session.
func (q Question) Clone() Question {
	out := q
	out.ExpectedPatterns = append([]ExpectedPattern(nil), q.ExpectedPatterns...)
	out.Rubric.Criteria = append([]Criterion(nil), q.Rubric.Criteria...)
	out.Rubric.CommonMistakes = append([]CommonMistake(nil), q.Rubric.CommonMistakes...)
	out.Rubric.PartialCredit = append([]PartialCreditRule(nil), q.Rubric.PartialCredit...)
	out.FollowUps = append([]FollowUpTrigger(nil), q.FollowUps...)
	return out
}
