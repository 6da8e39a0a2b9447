// Package coverage measures how much of each category's expected question
// budget a session has used.
package coverage

import (
	"math"

	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// MissingThreshold is the coverage below which a category counts as missing.
const MissingThreshold = 0.5

// SkillCoverage is a snapshot recomputed from session history.
type SkillCoverage struct {
	// Categories maps every nonzero-weight category to a ratio in [0,1].
	Categories map[taxonomy.Category]float64

	// Overall is the weight-normalized average of Categories.
	Overall float64

	// Missing lists categories below MissingThreshold, in enumeration order.
	Missing []taxonomy.Category
}

// Of returns the coverage for c, or 0 for categories not tracked.
func (s SkillCoverage) Of(c taxonomy.Category) float64 {
	return s.Categories[c]
}

// Expected returns how many questions a category should get out of budget.
func Expected(budget int, weight float64) int {
	if budget <= 0 || weight <= 0 {
		return 0
	}
	// Round away float noise before ceil: 10 * 0.2 is not always exactly 2.
	return int(math.Ceil(math.Round(float64(budget)*weight*1e9) / 1e9))
}

// Compute derives coverage from the categories of questions already asked.
// asked holds one entry per question turn.
func Compute(asked []taxonomy.Category, budget int, weights taxonomy.Weights) SkillCoverage {
	counts := make(map[taxonomy.Category]int, len(asked))
	for _, c := range asked {
		counts[c]++
	}

	cov := SkillCoverage{Categories: make(map[taxonomy.Category]float64)}
	var weighted, totalWeight float64
	for _, c := range weights.Active() {
		w := weights.Get(c)
		ratio := 0.0
		if expected := Expected(budget, w); expected > 0 {
			ratio = math.Min(float64(counts[c])/float64(expected), 1.0)
		}
		cov.Categories[c] = ratio
		weighted += w * ratio
		totalWeight += w
		if ratio < MissingThreshold {
			cov.Missing = append(cov.Missing, c)
		}
	}
	if totalWeight > 0 {
		cov.Overall = weighted / totalWeight
	}
	return cov
}
