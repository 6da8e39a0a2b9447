package report

import (
	"fmt"

	"github.com/abhisek/skillprobe/internal/scoring"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// Benchmark is a coarse label for the distance from the role baseline.
type Benchmark string

const (
	BenchmarkWellAbove Benchmark = "well_above_average"
	BenchmarkAbove     Benchmark = "above_average"
	BenchmarkAverage   Benchmark = "average"
	BenchmarkBelow     Benchmark = "below_average"
	BenchmarkWellBelow Benchmark = "well_below_average"
)

// Baseline is the reference score vector for a role level.
type Baseline struct {
	Categories map[taxonomy.Category]float64
	Overall    float64
}

var baselines = map[taxonomy.RoleLevel]Baseline{
	taxonomy.RoleBasic: {
		Overall: 65,
		Categories: map[taxonomy.Category]float64{
			taxonomy.CategoryBasicFormulas:     72,
			taxonomy.CategoryDataManipulation:  66,
			taxonomy.CategoryPivotTables:       55,
			taxonomy.CategoryDataVisualization: 62,
			taxonomy.CategoryAdvancedFunctions: 48,
			taxonomy.CategoryDataAnalysis:      58,
		},
	},
	taxonomy.RoleIntermediate: {
		Overall: 70,
		Categories: map[taxonomy.Category]float64{
			taxonomy.CategoryBasicFormulas:     80,
			taxonomy.CategoryDataManipulation:  72,
			taxonomy.CategoryPivotTables:       68,
			taxonomy.CategoryDataVisualization: 66,
			taxonomy.CategoryAdvancedFunctions: 60,
			taxonomy.CategoryDataAnalysis:      64,
		},
	},
	taxonomy.RoleAdvanced: {
		Overall: 75,
		Categories: map[taxonomy.Category]float64{
			taxonomy.CategoryBasicFormulas:     86,
			taxonomy.CategoryDataManipulation:  78,
			taxonomy.CategoryPivotTables:       76,
			taxonomy.CategoryDataVisualization: 70,
			taxonomy.CategoryAdvancedFunctions: 72,
			taxonomy.CategoryDataAnalysis:      74,
		},
	},
}

// BaselineFor returns the baseline vector for a role level.
func BaselineFor(level taxonomy.RoleLevel) (Baseline, error) {
	b, ok := baselines[level]
	if !ok {
		return Baseline{}, fmt.Errorf("no baseline for role level %q", level)
	}
	return b, nil
}

// Comparison is the outcome of comparing scores to a baseline.
type Comparison struct {
	Baseline   float64                       `json:"baseline"`
	Difference float64                       `json:"difference"`
	Percentile int                           `json:"percentile"`
	Benchmark  Benchmark                     `json:"benchmark"`
	Categories map[taxonomy.Category]float64 `json:"category_deltas"`
}

// CompareToBaseline maps the overall difference from the role baseline onto
// the percentile ladder and benchmark labels. Category deltas are reported
// only for attempted categories.
func CompareToBaseline(scores scoring.SkillScores, level taxonomy.RoleLevel) (Comparison, error) {
	b, err := BaselineFor(level)
	if err != nil {
		return Comparison{}, err
	}
	diff := scores.Overall - b.Overall
	cmp := Comparison{
		Baseline:   b.Overall,
		Difference: diff,
		Percentile: Percentile(diff),
		Benchmark:  BenchmarkFor(diff),
		Categories: make(map[taxonomy.Category]float64),
	}
	for _, c := range taxonomy.AllCategories() {
		if scores.Attempted(c) {
			cmp.Categories[c] = scores.Of(c) - b.Categories[c]
		}
	}
	return cmp, nil
}

// Percentile maps a baseline difference onto the 90..20 ladder in 5-point steps.
func Percentile(diff float64) int {
	switch {
	case diff >= 15:
		return 90
	case diff >= 10:
		return 80
	case diff >= 5:
		return 70
	case diff >= 0:
		return 60
	case diff >= -5:
		return 50
	case diff >= -10:
		return 40
	case diff >= -15:
		return 30
	default:
		return 20
	}
}

// BenchmarkFor maps a baseline difference onto a benchmark label.
func BenchmarkFor(diff float64) Benchmark {
	switch {
	case diff >= 10:
		return BenchmarkWellAbove
	case diff >= 5:
		return BenchmarkAbove
	case diff >= -5:
		return BenchmarkAverage
	case diff >= -10:
		return BenchmarkBelow
	default:
		return BenchmarkWellBelow
	}
}
