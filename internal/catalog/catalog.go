package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Catalog is the read-only question source consumed by the selector.
// Implementations return questions in a stable order (ascending ID).
type Catalog interface {
	// FindByCategoryAndDifficulty returns questions matching both filters,
	// skipping any whose ID is in excludeIDs.
	FindByCategoryAndDifficulty(ctx context.Context, category taxonomy.Category, difficulty taxonomy.Difficulty, excludeIDs []string) ([]Question, error)

	// FindAny returns every question not in excludeIDs.
	FindAny(ctx context.Context, excludeIDs []string) ([]Question, error)
}

// Memory is an immutable in-memory Catalog.
type Memory struct {
	questions []Question
	byID      map[string]int
}

var _ Catalog = (*Memory)(nil)

// NewMemory validates the questions and builds a catalog over copies of them.
func NewMemory(questions ...Question) (*Memory, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}
	qs := make([]Question, len(questions))
	for i, q := range questions {
		qs[i] = q.Clone()
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })

	m := &Memory{questions: qs, byID: make(map[string]int, len(qs))}
	for i, q := range qs {
		m.byID[q.ID] = i
	}
	return m, nil
}

// MustMemory is NewMemory that panics on invalid input.
func MustMemory(questions ...Question) *Memory {
	m, err := NewMemory(questions...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return m
}

func (m *Memory) FindByCategoryAndDifficulty(_ context.Context, category taxonomy.Category, difficulty taxonomy.Difficulty, excludeIDs []string) ([]Question, error) {
	excluded := idSet(excludeIDs)
	var out []Question
	for _, q := range m.questions {
		if q.Category == category && q.Difficulty == difficulty && !excluded[q.ID] {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

func (m *Memory) FindAny(_ context.Context, excludeIDs []string) ([]Question, error) {
	excluded := idSet(excludeIDs)
	var out []Question
	for _, q := range m.questions {
		if !excluded[q.ID] {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

// Get returns a question by ID.
func (m *Memory) Get(id string) (Question, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Question{}, false
	}
	return m.questions[i].Clone(), true
}

// Len returns the number of questions.
func (m *Memory) Len() int {
	return len(m.questions)
}

// All returns copies of every question in ID order.
func (m *Memory) All() []Question {
	out := make([]Question, len(m.questions))
	for i, q := range m.questions {
		out[i] = q.Clone()
	}
	return out
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
