package taxonomy

import "fmt"

// Category is one Excel skill area used to scope questions and coverage.
type Category string

const (
	CategoryBasicFormulas     Category = "basic_formulas"
	CategoryDataManipulation  Category = "data_manipulation"
	CategoryPivotTables       Category = "pivot_tables"
	CategoryDataVisualization Category = "data_visualization"
	CategoryAdvancedFunctions Category = "advanced_functions"
	CategoryDataAnalysis      Category = "data_analysis"
)

// AllCategories returns every category in enumeration order.
// Selection ties are broken by this order, so it must stay stable.
func AllCategories() []Category {
	return []Category{
		CategoryBasicFormulas,
		CategoryDataManipulation,
		CategoryPivotTables,
		CategoryDataVisualization,
		CategoryAdvancedFunctions,
		CategoryDataAnalysis,
	}
}

// Index returns the position of c in AllCategories, or -1 if unknown.
func (c Category) Index() int {
	for i, cat := range AllCategories() {
		if cat == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	if info, ok := registry[c]; ok {
		return info.Name
	}
	return string(c)
}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Difficulty is a question complexity tier.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// AllDifficulties returns the tiers in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty converts a string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// RoleLevel is the target seniority of the position being assessed.
type RoleLevel string

const (
	RoleBasic        RoleLevel = "basic"
	RoleIntermediate RoleLevel = "intermediate"
	RoleAdvanced     RoleLevel = "advanced"
)

// AllRoleLevels returns the role levels in ascending order.
func AllRoleLevels() []RoleLevel {
	return []RoleLevel{RoleBasic, RoleIntermediate, RoleAdvanced}
}

// Rank returns the ordinal of the role level (0 = basic), or -1 if unknown.
func (r RoleLevel) Rank() int {
	for i, l := range AllRoleLevels() {
		if l == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known role level.
func (r RoleLevel) Valid() bool {
	return r.Rank() >= 0
}

// ParseRoleLevel converts a string to a RoleLevel.
func ParseRoleLevel(s string) (RoleLevel, error) {
	r := RoleLevel(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role level %q", s)
	}
	return r, nil
}
