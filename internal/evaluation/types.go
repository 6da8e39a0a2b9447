package evaluation

import (
	"time"

	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Tier names the stage that produced a result.
type Tier string

const (
	// TierEmpty marks a blank answer scored without any matching.
	TierEmpty Tier = "empty"
	// TierRule marks a result decided by the deterministic rule tier.
	TierRule Tier = "rule"
	// TierAI marks a result decided by the AI judge.
	TierAI Tier = "ai"
	// TierRuleOnly marks a low-confidence rule result kept because no judge is configured.
	TierRuleOnly Tier = "rule_only"
)

// Confidence levels assigned by the rule tier.
const (
	ExactMatchConfidence    = 0.9
	PartialMatchConfidence  = 0.7
	NoEvidenceConfidence    = 0.2
	EmptyAnswerConfidence   = 1.0
	DefaultConfidenceGate   = 0.8
	DefaultJudgeTimeout     = 20 * time.Second
	defaultSuggestionMaxLen = 500
)

// PartialCredit is one signed piece of scoring evidence.
type PartialCredit struct {
	Criterion string  `json:"criterion"`
	Points    float64 `json:"points"`
	Reasoning string  `json:"reasoning"`
}

// Result is one scored answer. It is never mutated after creation.
type Result struct {
	QuestionID string            `json:"question_id"`
	Category   taxonomy.Category `json:"category"`

	// Score is on the 0–100 scale.
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`

	PartialCredits    []PartialCredit `json:"partial_credits,omitempty"`
	SuggestedFollowUp string          `json:"suggested_follow_up,omitempty"`

	Tier        Tier      `json:"tier"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Context is the session state passed to the AI judge.
type Context struct {
	RoleLevel taxonomy.RoleLevel
	Scores    map[taxonomy.Category]float64
}
