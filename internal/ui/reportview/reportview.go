// Package reportview renders interview reports for the terminal.
package reportview

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/skillprobe/internal/report"
	"github.com/abhisek/skillprobe/internal/taxonomy"
	"github.com/abhisek/skillprobe/internal/ui/theme"
)

const barWidth = 20

var recommendationLabels = map[report.Recommendation]string{
	report.StrongHire:       "Strong hire",
	report.Hire:             "Hire",
	report.NoHire:           "No hire",
	report.InsufficientData: "Insufficient data",
}

// RecommendationLabel returns the display label for rec.
func RecommendationLabel(rec report.Recommendation) string {
	if l, ok := recommendationLabels[rec]; ok {
		return l
	}
	return string(rec)
}

// Render formats r as styled text. Questions are included when detailed is set.
func Render(r *report.Report, detailed bool) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Excel Skills Assessment"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Session %s  Candidate %s  Role %s",
		r.SessionID, r.CandidateID, r.RoleLevel)))
	b.WriteString("\n\n")

	verdict := lipgloss.NewStyle().Bold(true).Foreground(recommendationColor(r.Recommendation))
	headline := fmt.Sprintf("Overall %s   %s",
		scoreText(r.OverallScore),
		verdict.Render(RecommendationLabel(r.Recommendation)))
	b.WriteString(theme.Card.Render(headline))
	b.WriteString("\n")

	b.WriteString(theme.Section.Render("Skills"))
	b.WriteString("\n")
	b.WriteString(categoryTable(r))
	b.WriteString("\n")

	b.WriteString(theme.Section.Render("Benchmark"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Baseline %.0f, difference %+.1f, %s percentile (%s)",
		r.Comparison.Baseline, r.Comparison.Difference,
		ordinal(r.Comparison.Percentile), strings.ReplaceAll(string(r.Comparison.Benchmark), "_", " "))))
	b.WriteString("\n")

	if len(r.Strengths) > 0 {
		b.WriteString(theme.Section.Render("Strengths"))
		b.WriteString("\n")
		for _, n := range r.Strengths {
			b.WriteString(theme.Strong.Render("+ ") + theme.Body.Render(n.Text) + "\n")
		}
	}
	if len(r.Improvements) > 0 {
		b.WriteString(theme.Section.Render("Areas to improve"))
		b.WriteString("\n")
		for _, n := range r.Improvements {
			b.WriteString(theme.Weak.Render("- ") + theme.Body.Render(n.Text) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s Completion %d%%, duration %s.",
		r.ConfidenceNote, int(r.CompletionRate*100+0.5), formatDuration(r))))
	b.WriteString("\n")

	if detailed && len(r.Questions) > 0 {
		b.WriteString(theme.Section.Render("Answers"))
		b.WriteString("\n")
		for i, q := range r.Questions {
			b.WriteString(questionBlock(i+1, q))
		}
	}
	return b.String()
}

func categoryTable(r *report.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Category", "Answered", "Score", "", "vs baseline")

	for _, c := range taxonomy.AllCategories() {
		answered := r.Scores.Answered[c]
		if answered == 0 {
			t.Row(c.DisplayName(), "0", "-", "", "-")
			continue
		}
		v := r.Scores.Of(c)
		delta := "-"
		if d, ok := r.Comparison.Categories[c]; ok {
			delta = fmt.Sprintf("%+.1f", d)
		}
		t.Row(c.DisplayName(), fmt.Sprint(answered), fmt.Sprintf("%.1f", v), ScoreBar(v, barWidth), delta)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return s.Bold(true).Foreground(theme.Primary)
		}
		return s.Foreground(theme.Text)
	})
	return t.Render()
}

// ScoreBar draws a fixed-width bar for a 0-100 score.
func ScoreBar(score float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * score / 100)
	filled = max(0, min(filled, width))

	filledStr := lipgloss.NewStyle().
		Foreground(theme.ScoreColor(score)).
		Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("░", width-filled))
	return filledStr + emptyStr
}

func questionBlock(n int, q report.QuestionFeedback) string {
	var b strings.Builder
	header := fmt.Sprintf("%d. [%s] %s", n, q.Category.DisplayName(), q.QuestionID)
	b.WriteString(theme.Body.Bold(true).Render(header))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Q: " + q.Prompt))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render("A: " + q.Answer))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("   %s  confidence %.2f  via %s\n", scoreText(q.Score), q.Confidence, q.Tier))
	if q.Rationale != "" {
		b.WriteString(theme.Hint.Render("   " + q.Rationale))
		b.WriteString("\n")
	}
	if q.FollowUp != "" {
		b.WriteString(theme.Hint.Render("   Follow-up: " + q.FollowUp))
		b.WriteString("\n")
	}
	return b.String()
}

func scoreText(score float64) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.ScoreColor(score)).Render(fmt.Sprintf("%.1f", score))
}

func recommendationColor(rec report.Recommendation) color.Color {
	switch rec {
	case report.StrongHire, report.Hire:
		return theme.Success
	case report.NoHire:
		return theme.Error
	default:
		return theme.Accent
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func formatDuration(r *report.Report) string {
	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
