// Package report turns a completed interview into a hiring recommendation.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/scoring"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Recommendation is the hiring verdict.
type Recommendation string

const (
	StrongHire       Recommendation = "strong_hire"
	Hire             Recommendation = "hire"
	NoHire           Recommendation = "no_hire"
	InsufficientData Recommendation = "insufficient_data"
)

// Score thresholds for strengths and improvement areas.
const (
	StrengthThreshold    = 80.0
	ImprovementThreshold = 60.0
	MinCompletionRate    = 0.5
)

// Thresholds are the overall-score cutoffs for one role level.
type Thresholds struct {
	StrongHire float64
	Hire       float64
}

var thresholds = map[taxonomy.RoleLevel]Thresholds{
	taxonomy.RoleBasic:        {StrongHire: 85, Hire: 70},
	taxonomy.RoleIntermediate: {StrongHire: 80, Hire: 65},
	taxonomy.RoleAdvanced:     {StrongHire: 75, Hire: 60},
}

// ThresholdsFor returns the recommendation cutoffs for a role level.
func ThresholdsFor(level taxonomy.RoleLevel) (Thresholds, error) {
	t, ok := thresholds[level]
	if !ok {
		return Thresholds{}, fmt.Errorf("no thresholds for role level %q", level)
	}
	return t, nil
}

// InsufficientDataError is returned when a report is requested without any
// evaluations.
type InsufficientDataError struct {
	SessionID string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("session %s has no evaluations to report on", e.SessionID)
}

func (e *InsufficientDataError) Retryable() bool { return false }

// Note is one strength or improvement line.
type Note struct {
	Category taxonomy.Category `json:"category"`
	Score    float64           `json:"score"`
	Text     string            `json:"text"`
}

// QuestionFeedback is the per-question detail section.
type QuestionFeedback struct {
	QuestionID string            `json:"question_id"`
	Category   taxonomy.Category `json:"category"`
	Prompt     string            `json:"prompt"`
	Answer     string            `json:"answer"`
	Score      float64           `json:"score"`
	Confidence float64           `json:"confidence"`
	Tier       evaluation.Tier   `json:"tier"`
	Rationale  string            `json:"rationale"`
	FollowUp   string            `json:"follow_up,omitempty"`
}

// Report is a read-only projection of a completed session.
type Report struct {
	SessionID      string              `json:"session_id"`
	CandidateID    string              `json:"candidate_id"`
	RoleLevel      taxonomy.RoleLevel  `json:"role_level"`
	OverallScore   float64             `json:"overall_score"`
	Scores         scoring.SkillScores `json:"scores"`
	Strengths      []Note              `json:"strengths"`
	Improvements   []Note              `json:"improvements"`
	ConfidenceNote string              `json:"confidence_note"`
	MeanConfidence float64             `json:"mean_confidence"`
	Recommendation Recommendation      `json:"recommendation"`
	Comparison     Comparison          `json:"comparison"`
	Questions      []QuestionFeedback  `json:"questions"`
	Duration       time.Duration       `json:"duration"`
	CompletionRate float64             `json:"completion_rate"`
}

// Generate builds the report for s from history. The completion rate is
// measured against the budget recorded on the session.
// The output depends only on its inputs.
func Generate(s *interview.Session, history []evaluation.Result) (*Report, error) {
	if s == nil {
		return nil, errors.New("session is required")
	}
	if s.Status != interview.StatusCompleted {
		return nil, fmt.Errorf("session %s is %s; reports are built after completion", s.ID, s.Status)
	}
	if len(history) == 0 {
		return nil, &InsufficientDataError{SessionID: s.ID}
	}
	weights, err := taxonomy.RoleWeights(s.RoleLevel)
	if err != nil {
		return nil, err
	}
	th, err := ThresholdsFor(s.RoleLevel)
	if err != nil {
		return nil, err
	}

	scored := make([]scoring.Scored, len(history))
	for i, r := range history {
		scored[i] = scoring.Scored{Category: r.Category, Score: r.Score}
	}
	scores := scoring.Recompute(scored, weights)

	cmp, err := CompareToBaseline(scores, s.RoleLevel)
	if err != nil {
		return nil, err
	}

	r := &Report{
		SessionID:      s.ID,
		CandidateID:    s.CandidateID,
		RoleLevel:      s.RoleLevel,
		OverallScore:   scores.Overall,
		Scores:         scores,
		Comparison:     cmp,
		CompletionRate: CompletionRate(len(history), s.MaxQuestions),
		Questions:      questionFeedback(s, history),
	}
	if s.EndedAt != nil {
		r.Duration = s.EndedAt.Sub(s.StartedAt)
	}

	for _, c := range taxonomy.AllCategories() {
		if !scores.Attempted(c) {
			continue
		}
		v := scores.Of(c)
		switch {
		case v >= StrengthThreshold:
			r.Strengths = append(r.Strengths, Note{Category: c, Score: v,
				Text: fmt.Sprintf("Strong command of %s (%.0f).", c.DisplayName(), v)})
		case v < ImprovementThreshold:
			r.Improvements = append(r.Improvements, Note{Category: c, Score: v,
				Text: fmt.Sprintf("%s needs development (%.0f).", c.DisplayName(), v)})
		}
	}

	r.MeanConfidence = meanConfidence(history)
	r.ConfidenceNote = confidenceNote(r.MeanConfidence)
	r.Recommendation = Recommend(scores.Overall, r.CompletionRate, th)
	return r, nil
}

// Recommend applies the completion gate and role thresholds.
func Recommend(overall, completionRate float64, th Thresholds) Recommendation {
	switch {
	case completionRate < MinCompletionRate:
		return InsufficientData
	case overall >= th.StrongHire:
		return StrongHire
	case overall >= th.Hire:
		return Hire
	default:
		return NoHire
	}
}

// CompletionRate is answered over budget, capped at 1.
func CompletionRate(answered, maxQuestions int) float64 {
	if maxQuestions <= 0 {
		return 1
	}
	return min(float64(answered)/float64(maxQuestions), 1)
}

func meanConfidence(history []evaluation.Result) float64 {
	var sum float64
	for _, r := range history {
		sum += r.Confidence
	}
	return sum / float64(len(history))
}

func confidenceNote(mean float64) string {
	switch {
	case mean >= 0.8:
		return "Scores are backed by high-confidence evaluations."
	case mean >= 0.6:
		return "Scores are moderately reliable; some answers needed judgment calls."
	default:
		return "Evaluation confidence is low; review the detailed answers before deciding."
	}
}

// questionFeedback pairs each evaluation with its prompt and answer text.
func questionFeedback(s *interview.Session, history []evaluation.Result) []QuestionFeedback {
	prompts := make(map[string]string)
	answers := make(map[string]string)
	for _, t := range s.Turns {
		switch t.Kind {
		case interview.TurnQuestion:
			prompts[t.QuestionID] = t.Text
		case interview.TurnResponse:
			answers[t.QuestionID] = t.Text
		}
	}

	out := make([]QuestionFeedback, len(history))
	for i, r := range history {
		out[i] = QuestionFeedback{
			QuestionID: r.QuestionID,
			Category:   r.Category,
			Prompt:     prompts[r.QuestionID],
			Answer:     answers[r.QuestionID],
			Score:      r.Score,
			Confidence: r.Confidence,
			Tier:       r.Tier,
			Rationale:  r.Rationale,
			FollowUp:   r.SuggestedFollowUp,
		}
	}
	return out
}
