package evaluation

import (
	"context"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// JudgeRequest is what the AI tier sees.
type JudgeRequest struct {
	Question   catalog.Question
	Answer     string
	RubricText string
	RoleLevel  taxonomy.RoleLevel
	Scores     map[taxonomy.Category]float64

	// RuleScore and RuleCredits carry any low-confidence rule-tier evidence.
	RuleScore   *float64
	RuleCredits []PartialCredit
}

// Judgment is the AI tier's verdict.
type Judgment struct {
	Score             float64
	Confidence        float64
	Rationale         string
	PartialCredits    []PartialCredit
	SuggestedFollowUp string
}

// Judge scores answers the rule tier could not settle.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (*Judgment, error)
}

// JudgeFunc adapts a function to the Judge interface.
type JudgeFunc func(ctx context.Context, req JudgeRequest) (*Judgment, error)

func (f JudgeFunc) Judge(ctx context.Context, req JudgeRequest) (*Judgment, error) {
	return f(ctx, req)
}
