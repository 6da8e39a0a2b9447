package evaluation

import "github.com/abhisek/skillprobe/internal/llm"

// JudgeSchema defines the JSON schema for AI judge responses.
var JudgeSchema = &llm.Schema{
	Name:        "answer-judgment",
	Description: "Score and rationale for a candidate's free-text answer to an Excel interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     100.0,
				"description": "Score for the answer on a 0–100 scale",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Confidence (0.0–1.0) in the score",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "Two or three sentences explaining the score to the hiring team",
			},
			"partial_credits": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"criterion": map[string]any{"type": "string"},
						"points":    map[string]any{"type": "number"},
						"reasoning": map[string]any{"type": "string"},
					},
					"required":             []string{"criterion", "points", "reasoning"},
					"additionalProperties": false,
				},
				"description": "Signed point contributions per rubric criterion",
			},
			"suggested_follow_up": map[string]any{
				"type":        "string",
				"description": "Optional follow-up question probing a gap in the answer; empty if none",
			},
		},
		"required":             []string{"score", "confidence", "rationale", "partial_credits", "suggested_follow_up"},
		"additionalProperties": false,
	},
}
