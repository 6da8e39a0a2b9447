package interview

import (
	"errors"
	"fmt"
)

// Transition names a state machine operation.
type Transition string

const (
	TransitionStart    Transition = "start"
	TransitionDeliver  Transition = "deliver_next_question"
	TransitionSubmit   Transition = "submit_response"
	TransitionPause    Transition = "pause"
	TransitionResume   Transition = "resume"
	TransitionComplete Transition = "complete"
)

// InvalidTransitionError is returned when an operation is not allowed from
// the session's current state.
type InvalidTransitionError struct {
	SessionID  string
	Transition Transition
	State      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s session %s in state %s", e.Transition, e.SessionID, e.State)
}

func (e *InvalidTransitionError) Retryable() bool { return false }

// ConcurrentModificationError is returned when a response is submitted while
// another is still being evaluated for the same session.
type ConcurrentModificationError struct {
	SessionID string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("session %s already has a response under evaluation", e.SessionID)
}

func (e *ConcurrentModificationError) Retryable() bool { return false }

// ActiveSessionError is returned when a candidate already holds an open session.
type ActiveSessionError struct {
	CandidateID string
	SessionID   string
}

func (e *ActiveSessionError) Error() string {
	return fmt.Sprintf("candidate %s already has open session %s", e.CandidateID, e.SessionID)
}

func (e *ActiveSessionError) Retryable() bool { return false }

// ErrSessionNotFound is matched by SessionNotFoundError via errors.Is.
var ErrSessionNotFound = errors.New("session not found")

// SessionNotFoundError is returned for unknown session IDs.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

func (e *SessionNotFoundError) Is(target error) bool { return target == ErrSessionNotFound }

func (e *SessionNotFoundError) Retryable() bool { return false }

// NoPendingQuestionError is returned when a response arrives before any
// question was delivered.
type NoPendingQuestionError struct {
	SessionID string
}

func (e *NoPendingQuestionError) Error() string {
	return fmt.Sprintf("session %s has no question awaiting a response", e.SessionID)
}

func (e *NoPendingQuestionError) Retryable() bool { return false }

type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err, or any error it wraps, is marked retryable.
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
