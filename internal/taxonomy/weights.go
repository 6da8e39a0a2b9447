package taxonomy

import "fmt"

// Weights maps each category to its importance for a role level.
// Weights for a role level sum to 1.0.
type Weights map[Category]float64

// roleWeights holds the fixed importance tables per role level.
var roleWeights = map[RoleLevel]Weights{
	RoleBasic: {
		CategoryBasicFormulas:     0.35,
		CategoryDataManipulation:  0.25,
		CategoryPivotTables:       0.10,
		CategoryDataVisualization: 0.15,
		CategoryAdvancedFunctions: 0.05,
		CategoryDataAnalysis:      0.10,
	},
	RoleIntermediate: {
		CategoryBasicFormulas:     0.20,
		CategoryDataManipulation:  0.20,
		CategoryPivotTables:       0.20,
		CategoryDataVisualization: 0.15,
		CategoryAdvancedFunctions: 0.10,
		CategoryDataAnalysis:      0.15,
	},
	RoleAdvanced: {
		CategoryBasicFormulas:     0.10,
		CategoryDataManipulation:  0.15,
		CategoryPivotTables:       0.15,
		CategoryDataVisualization: 0.10,
		CategoryAdvancedFunctions: 0.25,
		CategoryDataAnalysis:      0.25,
	},
}

// RoleWeights returns a copy of the weight table for a role level.
func RoleWeights(level RoleLevel) (Weights, error) {
	w, ok := roleWeights[level]
	if !ok {
		return nil, fmt.Errorf("no weights for role level %q", level)
	}
	out := make(Weights, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out, nil
}

// MustRoleWeights is RoleWeights for known levels; it panics on an unknown level.
func MustRoleWeights(level RoleLevel) Weights {
	w, err := RoleWeights(level)
	if err != nil {
		panic(err)
	}
	return w
}

// Get returns the weight for c, or 0 when absent.
func (w Weights) Get(c Category) float64 {
	return w[c]
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, c := range AllCategories() {
		total += w[c]
	}
	return total
}

// Active returns the categories with a nonzero weight, in enumeration order.
func (w Weights) Active() []Category {
	var out []Category
	for _, c := range AllCategories() {
		if w[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}
