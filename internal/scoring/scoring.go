// Package scoring aggregates per-answer scores into category and overall scores.
package scoring

import (
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Scored is the minimal view of an evaluation the aggregator needs.
type Scored struct {
	Category taxonomy.Category
	Score    float64
}

// SkillScores holds a 0–100 average for every category plus a weighted overall.
type SkillScores struct {
	Categories map[taxonomy.Category]float64 `json:"categories"`
	Overall    float64                       `json:"overall"`

	// Answered counts evaluations per category.
	Answered map[taxonomy.Category]int `json:"answered"`
}

// Zero returns scores with every category present at 0.
func Zero() SkillScores {
	s := SkillScores{
		Categories: make(map[taxonomy.Category]float64, len(taxonomy.AllCategories())),
		Answered:   make(map[taxonomy.Category]int, len(taxonomy.AllCategories())),
	}
	for _, c := range taxonomy.AllCategories() {
		s.Categories[c] = 0
		s.Answered[c] = 0
	}
	return s
}

// Of returns the average for c.
func (s SkillScores) Of(c taxonomy.Category) float64 {
	return s.Categories[c]
}

// Attempted reports whether any evaluation landed in c.
func (s SkillScores) Attempted(c taxonomy.Category) bool {
	return s.Answered[c] > 0
}

// Clone returns a deep copy.
func (s SkillScores) Clone() SkillScores {
	out := SkillScores{
		Categories: make(map[taxonomy.Category]float64, len(s.Categories)),
		Answered:   make(map[taxonomy.Category]int, len(s.Answered)),
		Overall:    s.Overall,
	}
	for k, v := range s.Categories {
		out.Categories[k] = v
	}
	for k, v := range s.Answered {
		out.Answered[k] = v
	}
	return out
}

// Recompute rebuilds scores from the full evaluation history. It is pure:
// the same history and weights always produce the same result.
//
// Categories with no answers read 0 and are left out of Overall, so an
// interview that only probed one category is not diluted by the rest.
func Recompute(history []Scored, weights taxonomy.Weights) SkillScores {
	out := Zero()

	sums := make(map[taxonomy.Category]float64)
	for _, h := range history {
		sums[h.Category] += h.Score
		out.Answered[h.Category]++
	}

	var weighted, totalWeight float64
	for _, c := range taxonomy.AllCategories() {
		n := out.Answered[c]
		if n == 0 {
			continue
		}
		avg := sums[c] / float64(n)
		out.Categories[c] = avg

		if w := weights.Get(c); w > 0 {
			weighted += w * avg
			totalWeight += w
		}
	}
	if totalWeight > 0 {
		out.Overall = weighted / totalWeight
	}
	return out
}
