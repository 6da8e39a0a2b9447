package interview

import (
	"context"

	"github.com/abhisek/skillprobe/internal/evaluation"
)

// SessionStore persists sessions with create-or-update-by-id semantics.
type SessionStore interface {
	// SaveSession upserts the session.
	SaveSession(ctx context.Context, s *Session) error

	// RecordEvaluation appends r to the evaluation log and upserts s in one
	// atomic step. s already includes r.
	RecordEvaluation(ctx context.Context, s *Session, r evaluation.Result) error

	// LoadSession returns a persisted session or an error matching
	// ErrSessionNotFound.
	LoadSession(ctx context.Context, id string) (*Session, error)

	// ActiveSessionForCandidate returns the ID of the candidate's open
	// session, or "" if none.
	ActiveSessionForCandidate(ctx context.Context, candidateID string) (string, error)
}
