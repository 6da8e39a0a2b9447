package selector

import (
	"errors"
	"fmt"

	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// ErrExhausted is matched by ExhaustionError via errors.Is.
var ErrExhausted = errors.New("question catalog exhausted")

// ExhaustionError is returned when no unused question exists anywhere in the
// catalog. It signals natural interview completion rather than a failure.
type ExhaustionError struct {
	// Category is the category that was selected before fallback.
	Category taxonomy.Category
	// Asked is the number of questions already excluded.
	Asked int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("no unused questions left (wanted %s, %d already asked)", e.Category, e.Asked)
}

func (e *ExhaustionError) Is(target error) bool {
	return target == ErrExhausted
}

// Retryable is always false: more attempts will not surface new questions.
func (e *ExhaustionError) Retryable() bool { return false }
