package catalog

import "github.com/abhisek/skillprobe/internal/taxonomy"

// Builtin returns the bundled Excel question bank.
func Builtin() *Memory {
	return MustMemory(builtinQuestions()...)
}

func lowScoreFollowUp() []FollowUpTrigger {
	return []FollowUpTrigger{
		{
			When:     Condition{Kind: ScoreBelow, Threshold: 60},
			Template: "You scored {{printf \"%.0f\" .Score}} on that one. Walk me through, step by step, how you would approach: {{.Prompt}}",
		},
	}
}

func builtinQuestions() []Question {
	return []Question{
		// Basic formulas
		{
			ID:         "bf-sum-range",
			Category:   taxonomy.CategoryBasicFormulas,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "How would you add up all the values in cells A1 through A10?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "=sum(a1:a10)", Credit: 100, Explanation: "SUM over the contiguous range"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				Criteria: []Criterion{{Name: "correct function", Weight: 0.6}, {Name: "correct range", Weight: 0.4}},
				CommonMistakes: []CommonMistake{
					{Name: "manual addition", Pattern: "a1+a2", Deduction: 20, Feedback: "Chaining + does not scale; use SUM."},
				},
				PartialCredit: []PartialCreditRule{
					{Condition: "sum(", CreditPercentage: 50},
				},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "bf-absolute-ref",
			Category:   taxonomy.CategoryBasicFormulas,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "You want to copy a formula down a column while always multiplying by the tax rate in B1. How do you reference B1?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "$b$1", Credit: 100, Explanation: "Absolute reference locks row and column"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				Criteria: []Criterion{{Name: "absolute reference", Weight: 1}},
				CommonMistakes: []CommonMistake{
					{Name: "relative reference", Pattern: "=a2*b1", Deduction: 30, Feedback: "B1 will shift when copied."},
				},
				PartialCredit: []PartialCreditRule{
					{Condition: "absolute", CreditPercentage: 60},
					{Condition: "$b", CreditPercentage: 40},
				},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "bf-nested-if",
			Category:   taxonomy.CategoryBasicFormulas,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "Write a formula that returns \"High\" when A1 is above 100, \"Medium\" when above 50, and \"Low\" otherwise.",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "ifs(", Credit: 100, Explanation: "IFS evaluates conditions in order"},
				{Pattern: "if(a1>100,\"high\",if(a1>50", Credit: 95, Explanation: "Nested IF in descending order"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				CommonMistakes: []CommonMistake{
					{Name: "wrong order", Pattern: "if(a1>50", Deduction: 30, Feedback: "Testing >50 first shadows the >100 branch."},
				},
				PartialCredit: []PartialCreditRule{{Condition: "if(", CreditPercentage: 50}},
			},
		},

		// Data manipulation
		{
			ID:         "dm-remove-duplicates",
			Category:   taxonomy.CategoryDataManipulation,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "A customer list has repeated rows. How do you remove the duplicates?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "data > remove duplicates", Credit: 100, Explanation: "Data > Remove Duplicates"},
				{Pattern: "data tab > remove duplicates", Credit: 100, Explanation: "Data > Remove Duplicates"},
				{Pattern: "unique(", Credit: 90, Explanation: "UNIQUE spills the distinct rows"},
			},
			Rubric: Rubric{
				MaxScore:      100,
				PartialCredit: []PartialCreditRule{
					{Condition: "remove duplicates", CreditPercentage: 60},
					{Condition: "filter", CreditPercentage: 40},
				},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "dm-text-split",
			Category:   taxonomy.CategoryDataManipulation,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "Column A holds names like \"Doe, Jane\". How would you split them into last and first name columns?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "data > text to columns", Credit: 100, Explanation: "Delimited split on comma"},
				{Pattern: "textsplit(", Credit: 100, Explanation: "TEXTSPLIT with a comma delimiter"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "text to columns", CreditPercentage: 60},
					{Condition: "left(", CreditPercentage: 50},
					{Condition: "find(", CreditPercentage: 30},
				},
			},
		},
		{
			ID:         "dm-power-query",
			Category:   taxonomy.CategoryDataManipulation,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "You receive a new CSV export every week in the same shape. How do you automate cleaning and appending it to your master table?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "get data > from folder", Credit: 100, Explanation: "Power Query with a folder source and refresh"},
				{Pattern: "from folder", Credit: 90, Explanation: "A folder source picks up each new export"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "power query", CreditPercentage: 60},
					{Condition: "macro", CreditPercentage: 50},
				},
			},
		},

		// Pivot tables
		{
			ID:         "pt-create",
			Category:   taxonomy.CategoryPivotTables,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "How would you summarize total sales by region from a transaction table?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "insert > pivottable", Credit: 100, Explanation: "Region in rows, Sales in values"},
				{Pattern: "insert > pivot table", Credit: 100, Explanation: "Region in rows, Sales in values"},
				{Pattern: "sumif(", Credit: 80, Explanation: "SUMIF per region works for small sets"},
			},
			Rubric: Rubric{
				MaxScore:      100,
				PartialCredit: []PartialCreditRule{{Condition: "pivot", CreditPercentage: 60}},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "pt-calculated-field",
			Category:   taxonomy.CategoryPivotTables,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "Your pivot shows Revenue and Cost. How do you add a Margin column inside the pivot?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "fields, items & sets", Credit: 100, Explanation: "PivotTable Analyze > Fields, Items & Sets > Calculated Field"},
				{Pattern: "fields, items and sets", Credit: 100, Explanation: "PivotTable Analyze > Fields, Items & Sets > Calculated Field"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				CommonMistakes: []CommonMistake{
					{Name: "outside the pivot", Pattern: "next to the pivot", Deduction: 30, Feedback: "Formulas beside a pivot break when it reshapes."},
				},
				PartialCredit: []PartialCreditRule{
					{Condition: "calculated field", CreditPercentage: 60},
					{Condition: "field", CreditPercentage: 20},
				},
			},
		},
		{
			ID:         "pt-data-model",
			Category:   taxonomy.CategoryPivotTables,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "How do you build one pivot table over an Orders table and a Customers table without merging them first?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "add this data to the data model", Credit: 100, Explanation: "Add both to the Data Model and relate them"},
				{Pattern: "manage relationships", Credit: 90, Explanation: "Relate the tables in the Data Model"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "data model", CreditPercentage: 60},
					{Condition: "relationship", CreditPercentage: 30},
				},
			},
		},

		// Data visualization
		{
			ID:         "dv-chart-type",
			Category:   taxonomy.CategoryDataVisualization,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "Which chart would you use to show monthly sales over two years, and why?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "line chart because", Credit: 100, Explanation: "Line charts show trends over time"},
				{Pattern: "line chart to show", Credit: 100, Explanation: "Line charts show trends over time"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				CommonMistakes: []CommonMistake{
					{Name: "pie chart", Deduction: 40, Feedback: "Pie charts do not show change over time."},
				},
				PartialCredit: []PartialCreditRule{
					{Condition: "line chart", CreditPercentage: 70},
					{Condition: "column chart", CreditPercentage: 60},
				},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "dv-conditional-format",
			Category:   taxonomy.CategoryDataVisualization,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "How do you highlight every row in a table where the Status column says \"Overdue\"?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "=$c2=\"overdue\"", Credit: 100, Explanation: "Formula-based conditional format with a mixed reference"},
				{Pattern: "=\"overdue\"", Credit: 90, Explanation: "Formula-based conditional format on the Status column"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "conditional formatting", CreditPercentage: 60},
					{Condition: "use a formula", CreditPercentage: 30},
				},
			},
		},
		{
			ID:         "dv-dynamic-chart",
			Category:   taxonomy.CategoryDataVisualization,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "How do you make a chart that automatically includes new rows as data is added?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "format as table", Credit: 100, Explanation: "Charts over an Excel Table grow with it"},
				{Pattern: "ctrl+t", Credit: 100, Explanation: "Charts over an Excel Table grow with it"},
				{Pattern: "offset(", Credit: 90, Explanation: "Dynamic named range via OFFSET"},
			},
			Rubric: Rubric{
				MaxScore:      100,
				PartialCredit: []PartialCreditRule{
					{Condition: "named range", CreditPercentage: 60},
					{Condition: "table", CreditPercentage: 40},
				},
			},
		},

		// Advanced functions
		{
			ID:         "af-vlookup",
			Category:   taxonomy.CategoryAdvancedFunctions,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "How would you look up a product's price from a price list given its product code?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "xlookup(", Credit: 100, Explanation: "XLOOKUP with exact match by default"},
				{Pattern: "vlookup(", Credit: 90, Explanation: "VLOOKUP with FALSE for exact match"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				CommonMistakes: []CommonMistake{
					{Name: "approximate match", Pattern: ",true)", Deduction: 30, Feedback: "Approximate match returns wrong prices on unsorted codes."},
				},
				PartialCredit: []PartialCreditRule{{Condition: "lookup", CreditPercentage: 50}},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "af-index-match",
			Category:   taxonomy.CategoryAdvancedFunctions,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "Your lookup value sits to the right of the column you need to return. Which formula handles that?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "index(", Credit: 100, Explanation: "INDEX/MATCH looks left"},
				{Pattern: "xlookup(", Credit: 100, Explanation: "XLOOKUP takes separate lookup and return arrays"},
			},
			Rubric: Rubric{
				MaxScore:      100,
				PartialCredit: []PartialCreditRule{{Condition: "match(", CreditPercentage: 50}},
			},
		},
		{
			ID:         "af-lambda",
			Category:   taxonomy.CategoryAdvancedFunctions,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "How would you define a reusable custom function in a workbook without VBA?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "lambda(", Credit: 100, Explanation: "LAMBDA registered in Name Manager"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "name manager", CreditPercentage: 40},
					{Condition: "let(", CreditPercentage: 30},
				},
			},
		},

		// Data analysis
		{
			ID:         "da-average-filter",
			Category:   taxonomy.CategoryDataAnalysis,
			Difficulty: taxonomy.DifficultyBasic,
			Prompt:     "How do you compute the average order value only for orders from the West region?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "averageif(", Credit: 100, Explanation: "AVERAGEIF with a region criterion"},
				{Pattern: "averageifs(", Credit: 100, Explanation: "AVERAGEIFS with a region criterion"},
			},
			Rubric: Rubric{
				MaxScore:      100,
				PartialCredit: []PartialCreditRule{{Condition: "average", CreditPercentage: 50}},
			},
			FollowUps: lowScoreFollowUp(),
		},
		{
			ID:         "da-what-if",
			Category:   taxonomy.CategoryDataAnalysis,
			Difficulty: taxonomy.DifficultyIntermediate,
			Prompt:     "You need to find what unit price makes annual profit exactly 1,000,000. Which tool do you use?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "what-if analysis > goal seek", Credit: 100, Explanation: "Goal Seek solves a single input for a target"},
				{Pattern: "goal seek with", Credit: 100, Explanation: "Goal Seek solves a single input for a target"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				PartialCredit: []PartialCreditRule{
					{Condition: "goal seek", CreditPercentage: 70},
					{Condition: "solver", CreditPercentage: 60},
				},
			},
		},
		{
			ID:         "da-regression",
			Category:   taxonomy.CategoryDataAnalysis,
			Difficulty: taxonomy.DifficultyAdvanced,
			Prompt:     "How would you estimate how advertising spend drives sales and judge whether the relationship is significant?",
			ExpectedPatterns: []ExpectedPattern{
				{Pattern: "data analysis > regression", Credit: 100, Explanation: "Analysis ToolPak regression with p-values"},
				{Pattern: "linest(", Credit: 100, Explanation: "LINEST returns coefficients and statistics"},
			},
			Rubric: Rubric{
				MaxScore: 100,
				CommonMistakes: []CommonMistake{
					{Name: "correlation implies causation", Pattern: "causes", Deduction: 15, Feedback: "A fit alone does not establish causation."},
				},
				PartialCredit: []PartialCreditRule{
					{Condition: "regression", CreditPercentage: 60},
					{Condition: "correl(", CreditPercentage: 50},
					{Condition: "trendline", CreditPercentage: 40},
					{Condition: "p-value", CreditPercentage: 30},
				},
			},
		},
	}
}
