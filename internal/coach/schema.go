package coach

import "github.com/edutech/naplan/internal/llm"

func stringList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// FeedbackSchema is a structured-output hint; Coerce repairs replies that
// ignore it.
var FeedbackSchema = &llm.Schema{
	Name:        "subject-feedback",
	Description: "Coaching feedback for a subject quiz attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_feedback": map[string]any{
				"type":        "string",
				"description": "Exactly 2 short sentences, one of them about timing",
			},
			"coach": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"insight": map[string]any{"type": "string"},
						"reason":  map[string]any{"type": "string"},
						"action":  map[string]any{"type": "string"},
					},
					"required": []any{"insight", "reason", "action"},
				},
				"description": "Exactly 3 coaching items",
			},
			"strengths":     stringList("3 points, max 10 words each"),
			"weaknesses":    stringList("3 points, weakest topic first"),
			"growth_areas":  stringList("3 points, weakest topic first"),
			"study_tips":    stringList("Up to 3 tips"),
			"cta":           map[string]any{"type": "string"},
			"encouragement": map[string]any{"type": "string"},
		},
		"required": []any{"overall_feedback", "coach", "strengths", "weaknesses", "growth_areas", "study_tips", "cta", "encouragement"},
	},
}
