package evaluation

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/abhisek/skillprobe/internal/catalog"
)

type followUpData struct {
	Score  float64
	Prompt string
}

// renderFollowUp returns the first triggered follow-up for score, or "".
func renderFollowUp(q catalog.Question, score float64) (string, error) {
	for _, f := range q.FollowUps {
		if !f.When.Holds(score) {
			continue
		}
		tmpl, err := template.New(q.ID).Parse(f.Template)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, followUpData{Score: score, Prompt: q.Prompt}); err != nil {
			return "", err
		}
		return truncateText(buf.String(), defaultSuggestionMaxLen), nil
	}
	return "", nil
}

// truncateText trims s and cuts it to at most n runes, marking the cut.
func truncateText(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
