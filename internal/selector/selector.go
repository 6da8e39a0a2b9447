// Package selector picks the next interview question from coverage gaps and
// recent performance.
package selector

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/coverage"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// RecentWindow is how many of the latest scores in a category drive difficulty.
const RecentWindow = 3

// Difficulty thresholds on the recent average score.
const (
	AdvancedThreshold     = 80.0
	IntermediateThreshold = 60.0
)

// Asked records one question already delivered in a session.
type Asked struct {
	QuestionID string
	Category   taxonomy.Category
}

// Scored records one evaluated answer, oldest first.
type Scored struct {
	Category taxonomy.Category
	Score    float64
}

// Input is everything the selector reads from a session.
type Input struct {
	Weights taxonomy.Weights
	Budget  int
	Asked   []Asked
	Scored  []Scored
}

// Selection is the chosen question plus the reasoning behind it.
type Selection struct {
	Question   catalog.Question
	Category   taxonomy.Category
	Difficulty taxonomy.Difficulty
	Coverage   coverage.SkillCoverage

	// Fallback is "", "any_difficulty" or "any_category" depending on how far
	// the query had to broaden.
	Fallback string
}

// DrawFunc returns a uniform index in [0, n).
type DrawFunc func(n int) int

// Selector chooses questions. It holds no per-session state and is safe for
// concurrent use when its DrawFunc is.
type Selector struct {
	catalog catalog.Catalog
	draw    DrawFunc
	logger  *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithDraw overrides the random draw, for reproducible tests.
func WithDraw(draw DrawFunc) Option {
	return func(s *Selector) { s.draw = draw }
}

// WithSeed draws from a seeded PCG source.
func WithSeed(seed uint64) Option {
	r := rand.New(rand.NewPCG(seed, seed))
	return func(s *Selector) { s.draw = r.IntN }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// New creates a Selector over cat.
func New(cat catalog.Catalog, opts ...Option) *Selector {
	s := &Selector{catalog: cat, draw: rand.IntN, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Next picks the next question for a session.
func (s *Selector) Next(ctx context.Context, in Input) (*Selection, error) {
	askedCats := make([]taxonomy.Category, len(in.Asked))
	exclude := make([]string, len(in.Asked))
	for i, a := range in.Asked {
		askedCats[i] = a.Category
		exclude[i] = a.QuestionID
	}

	cov := coverage.Compute(askedCats, in.Budget, in.Weights)
	category := PickCategory(cov, in.Weights)
	difficulty := DifficultyFor(RecentScores(in.Scored, category))

	sel := &Selection{Category: category, Difficulty: difficulty, Coverage: cov}

	candidates, err := s.catalog.FindByCategoryAndDifficulty(ctx, category, difficulty, exclude)
	if err != nil {
		return nil, fmt.Errorf("find %s/%s questions: %w", category, difficulty, err)
	}

	if len(candidates) == 0 {
		sel.Fallback = "any_difficulty"
		for _, d := range taxonomy.AllDifficulties() {
			if d == difficulty {
				continue
			}
			qs, err := s.catalog.FindByCategoryAndDifficulty(ctx, category, d, exclude)
			if err != nil {
				return nil, fmt.Errorf("find %s/%s questions: %w", category, d, err)
			}
			candidates = append(candidates, qs...)
		}
	}

	if len(candidates) == 0 {
		sel.Fallback = "any_category"
		candidates, err = s.catalog.FindAny(ctx, exclude)
		if err != nil {
			return nil, fmt.Errorf("find any question: %w", err)
		}
	}

	if len(candidates) == 0 {
		return nil, &ExhaustionError{Category: category, Asked: len(exclude)}
	}

	sel.Question = candidates[s.draw(len(candidates))]

	s.logger.Debug("question selected",
		zap.String("category", string(category)),
		zap.String("difficulty", string(difficulty)),
		zap.String("question_id", sel.Question.ID),
		zap.String("fallback", sel.Fallback),
		zap.Int("candidates", len(candidates)),
		zap.Float64("overall_coverage", cov.Overall),
	)
	return sel, nil
}

// PickCategory returns the category with the highest weight*(1-coverage).
// Ties go to the category that comes first in taxonomy.AllCategories.
func PickCategory(cov coverage.SkillCoverage, weights taxonomy.Weights) taxonomy.Category {
	var (
		best     taxonomy.Category
		bestPrio = -1.0
	)
	for _, c := range weights.Active() {
		prio := weights.Get(c) * (1 - cov.Of(c))
		if prio > bestPrio {
			best, bestPrio = c, prio
		}
	}
	if best == "" {
		return taxonomy.AllCategories()[0]
	}
	return best
}

// RecentScores returns up to RecentWindow latest scores in category.
func RecentScores(history []Scored, category taxonomy.Category) []float64 {
	var out []float64
	for i := len(history) - 1; i >= 0 && len(out) < RecentWindow; i-- {
		if history[i].Category == category {
			out = append(out, history[i].Score)
		}
	}
	return out
}

// DifficultyFor maps recent scores to the next difficulty tier.
func DifficultyFor(recent []float64) taxonomy.Difficulty {
	if len(recent) == 0 {
		return taxonomy.DifficultyBasic
	}
	var sum float64
	for _, s := range recent {
		sum += s
	}
	avg := sum / float64(len(recent))
	switch {
	case avg >= AdvancedThreshold:
		return taxonomy.DifficultyAdvanced
	case avg >= IntermediateThreshold:
		return taxonomy.DifficultyIntermediate
	default:
		return taxonomy.DifficultyBasic
	}
}
