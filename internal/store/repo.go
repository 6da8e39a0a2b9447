package store

import (
	"time"

	"github.com/abhisek/skillprobe/internal/llm"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Purpose   string    // exact purpose match ("" = any)
	SessionID string    // exact session match ("" = any)
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	llm.RequestEvent
}

// UsageStat aggregates LLM usage for one purpose.
type UsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	CandidateID string
	Status      string
	Limit       int
}

// SessionSummary is the indexed projection of a persisted session.
type SessionSummary struct {
	ID            string
	CandidateID   string
	RoleLevel     string
	Status        string
	QuestionIndex int
	OverallScore  float64
	StartedAt     time.Time
	UpdatedAt     time.Time
}
