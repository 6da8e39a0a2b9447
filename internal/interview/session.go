package interview

import (
	"maps"
	"time"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/scoring"
	"github.com/abhisek/skillprobe/internal/selector"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Status is a session's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Open reports whether the session still holds the candidate's slot.
func (s Status) Open() bool {
	return s == StatusActive || s == StatusPaused
}

// TurnKind labels a conversation turn.
type TurnKind string

const (
	TurnQuestion TurnKind = "question"
	TurnResponse TurnKind = "response"
	TurnSystem   TurnKind = "system"
)

// Turn is one entry in the conversation history.
type Turn struct {
	Kind      TurnKind  `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// QuestionID links question and response turns to a catalog question.
	QuestionID string `json:"question_id,omitempty"`

	// Question is the issued question, frozen at delivery time.
	Question *catalog.Question `json:"question,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Session is one candidate's attempt at the interview.
type Session struct {
	ID          string             `json:"id"`
	CandidateID string             `json:"candidate_id"`
	RoleLevel   taxonomy.RoleLevel `json:"role_level"`
	Status      Status             `json:"status"`

	// QuestionIndex counts answered questions; it is the next question slot.
	QuestionIndex int `json:"question_index"`

	// MaxQuestions is the question budget fixed when the session started.
	MaxQuestions int `json:"max_questions"`

	Turns       []Turn              `json:"turns"`
	Evaluations []evaluation.Result `json:"evaluations"`
	Scores      scoring.SkillScores `json:"scores"`

	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// PendingQuestion returns the delivered question that has no response yet.
func (s *Session) PendingQuestion() *catalog.Question {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		switch s.Turns[i].Kind {
		case TurnResponse:
			return nil
		case TurnQuestion:
			return s.Turns[i].Question
		}
	}
	return nil
}

// Asked lists every question delivered so far, in order.
func (s *Session) Asked() []selector.Asked {
	var out []selector.Asked
	for _, t := range s.Turns {
		if t.Kind != TurnQuestion {
			continue
		}
		a := selector.Asked{QuestionID: t.QuestionID}
		if t.Question != nil {
			a.Category = t.Question.Category
		}
		out = append(out, a)
	}
	return out
}

// scoredHistory projects evaluations for the selector.
func (s *Session) scoredHistory() []selector.Scored {
	out := make([]selector.Scored, len(s.Evaluations))
	for i, r := range s.Evaluations {
		out[i] = selector.Scored{Category: r.Category, Score: r.Score}
	}
	return out
}

// ScoringHistory projects evaluations for the aggregator.
func (s *Session) ScoringHistory() []scoring.Scored {
	out := make([]scoring.Scored, len(s.Evaluations))
	for i, r := range s.Evaluations {
		out[i] = scoring.Scored{Category: r.Category, Score: r.Score}
	}
	return out
}

// Duration returns the elapsed time, up to EndedAt when set.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return end.Sub(s.StartedAt)
}

// ShouldComplete reports whether the session's question budget is spent.
func ShouldComplete(s *Session) bool {
	return s.MaxQuestions > 0 && s.QuestionIndex >= s.MaxQuestions
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Turns = make([]Turn, len(s.Turns))
	for i, t := range s.Turns {
		out.Turns[i] = t
		if t.Question != nil {
			q := t.Question.Clone()
			out.Turns[i].Question = &q
		}
		out.Turns[i].Metadata = maps.Clone(t.Metadata)
	}
	out.Evaluations = make([]evaluation.Result, len(s.Evaluations))
	for i, r := range s.Evaluations {
		out.Evaluations[i] = r
		out.Evaluations[i].PartialCredits = append([]evaluation.PartialCredit(nil), r.PartialCredits...)
	}
	out.Scores = s.Scores.Clone()
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	out.Metadata = maps.Clone(s.Metadata)
	return &out
}
