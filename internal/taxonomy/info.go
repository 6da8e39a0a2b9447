package taxonomy

// Info describes a category.
type Info struct {
	Category    Category
	Name        string
	Description string
}

var registry = map[Category]Info{
	CategoryBasicFormulas: {
		Category:    CategoryBasicFormulas,
		Name:        "Basic Formulas",
		Description: "Arithmetic, SUM/AVERAGE/COUNT, relative and absolute references",
	},
	CategoryDataManipulation: {
		Category:    CategoryDataManipulation,
		Name:        "Data Manipulation",
		Description: "Sorting, filtering, text functions, removing duplicates, data cleaning",
	},
	CategoryPivotTables: {
		Category:    CategoryPivotTables,
		Name:        "Pivot Tables",
		Description: "Building, grouping, calculated fields and refreshing pivot tables",
	},
	CategoryDataVisualization: {
		Category:    CategoryDataVisualization,
		Name:        "Data Visualization",
		Description: "Chart selection, conditional formatting, dashboards",
	},
	CategoryAdvancedFunctions: {
		Category:    CategoryAdvancedFunctions,
		Name:        "Advanced Functions",
		Description: "Lookups, INDEX/MATCH, array formulas, nested logic",
	},
	CategoryDataAnalysis: {
		Category:    CategoryDataAnalysis,
		Name:        "Data Analysis",
		Description: "What-if analysis, statistics, forecasting, Power Query",
	},
}

// GetInfo returns the metadata for a category.
func GetInfo(c Category) (Info, bool) {
	info, ok := registry[c]
	return info, ok
}
