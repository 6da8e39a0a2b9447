package evaluation

import (
	"fmt"
	"time"

	"github.com/abhisek/skillprobe/internal/llm"
)

// TimeoutError indicates the AI judge did not answer within its bound.
// The caller may retry the same submission.
type TimeoutError struct {
	QuestionID string
	Timeout    time.Duration
	Err        error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("evaluation of %s timed out after %s", e.QuestionID, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Retryable is always true.
func (e *TimeoutError) Retryable() bool { return true }

// JudgeError wraps any other AI judge failure.
type JudgeError struct {
	QuestionID string
	Transient  bool
	Err        error
}

func (e *JudgeError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("judge %s for %s: %v", kind, e.QuestionID, e.Err)
}

func (e *JudgeError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient.
func (e *JudgeError) Retryable() bool { return e.Transient }

// isTransient classifies provider errors: rate limits and outages are
// transient, malformed or truncated output is not.
func isTransient(err error) bool {
	return llm.IsRetryable(err)
}
