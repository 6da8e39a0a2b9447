package evaluation

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillprobe/internal/catalog"
)

// ruleOutcome is the rule tier's view of an answer.
type ruleOutcome struct {
	score      float64
	confidence float64
	rationale  string
	credits    []PartialCredit
	// matched is true when any evidence was found.
	matched bool
}

// normalize trims and lowercases text for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// applyRules runs the deterministic tier. An exact expected pattern wins
// outright; otherwise mistakes and partial-credit rules are summed.
func applyRules(q catalog.Question, answer string) ruleOutcome {
	norm := normalize(answer)

	for _, p := range q.ExpectedPatterns {
		pat := normalize(p.Pattern)
		if pat == "" || !strings.Contains(norm, pat) {
			continue
		}
		rationale := fmt.Sprintf("Answer matches expected pattern %q.", p.Pattern)
		if p.Explanation != "" {
			rationale += " " + p.Explanation
		}
		return ruleOutcome{
			score:      clamp(p.Credit),
			confidence: ExactMatchConfidence,
			rationale:  rationale,
			credits: []PartialCredit{{
				Criterion: "expected pattern",
				Points:    p.Credit,
				Reasoning: p.Explanation,
			}},
			matched: true,
		}
	}

	var credits []PartialCredit
	for _, m := range q.Rubric.CommonMistakes {
		pat := normalize(m.MatchText())
		if pat == "" || !strings.Contains(norm, pat) {
			continue
		}
		credits = append(credits, PartialCredit{
			Criterion: m.Name,
			Points:    -m.Deduction,
			Reasoning: m.Feedback,
		})
	}

	maxScore := q.Rubric.EffectiveMaxScore()
	for _, r := range q.Rubric.PartialCredit {
		cond := normalize(r.Condition)
		if cond == "" || !strings.Contains(norm, cond) {
			continue
		}
		credits = append(credits, PartialCredit{
			Criterion: r.Condition,
			Points:    maxScore * r.CreditPercentage / 100,
			Reasoning: fmt.Sprintf("Mentions %q (%.0f%% credit).", r.Condition, r.CreditPercentage),
		})
	}

	if len(credits) == 0 {
		return ruleOutcome{confidence: NoEvidenceConfidence}
	}

	var sum float64
	for _, c := range credits {
		sum += c.Points
	}
	return ruleOutcome{
		score:      clamp(sum),
		confidence: PartialMatchConfidence,
		rationale:  fmt.Sprintf("Rubric rules matched %d item(s).", len(credits)),
		credits:    credits,
		matched:    true,
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
