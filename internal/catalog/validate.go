package catalog

import (
	"fmt"
	"strings"
)

// Validate performs structural checks on a question set.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(questions []Question) error {
	var errs []string

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			errs = append(errs, fmt.Sprintf("question with prompt %q has no ID", truncate(q.Prompt, 40)))
			continue
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		seen[q.ID] = true

		if !q.Category.Valid() {
			errs = append(errs, fmt.Sprintf("question %q has unknown category %q", q.ID, q.Category))
		}
		if !q.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("question %q has unknown difficulty %q", q.ID, q.Difficulty))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %q has an empty prompt", q.ID))
		}
		for _, p := range q.ExpectedPatterns {
			if strings.TrimSpace(p.Pattern) == "" {
				errs = append(errs, fmt.Sprintf("question %q has an empty expected pattern", q.ID))
			}
			if p.Credit < 0 || p.Credit > 100 {
				errs = append(errs, fmt.Sprintf("question %q pattern %q credit %.1f outside [0,100]", q.ID, p.Pattern, p.Credit))
			}
		}
		if q.Rubric.MaxScore < 0 {
			errs = append(errs, fmt.Sprintf("question %q has negative max score", q.ID))
		}
		for _, r := range q.Rubric.PartialCredit {
			if strings.TrimSpace(r.Condition) == "" {
				errs = append(errs, fmt.Sprintf("question %q has a partial-credit rule without a condition", q.ID))
			}
			if r.CreditPercentage < 0 || r.CreditPercentage > 100 {
				errs = append(errs, fmt.Sprintf("question %q partial credit %.1f%% outside [0,100]", q.ID, r.CreditPercentage))
			}
		}
		for _, m := range q.Rubric.CommonMistakes {
			if strings.TrimSpace(m.MatchText()) == "" {
				errs = append(errs, fmt.Sprintf("question %q has a common mistake without a name or pattern", q.ID))
			}
			if m.Deduction < 0 {
				errs = append(errs, fmt.Sprintf("question %q mistake %q has a negative deduction", q.ID, m.Name))
			}
		}
		for _, f := range q.FollowUps {
			if !f.When.Valid() {
				errs = append(errs, fmt.Sprintf("question %q has follow-up with unknown condition kind %q", q.ID, f.When.Kind))
			}
			if strings.TrimSpace(f.Template) == "" {
				errs = append(errs, fmt.Sprintf("question %q has follow-up with empty template", q.ID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
