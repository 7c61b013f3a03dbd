package writing

import "github.com/edutech/naplan/internal/llm"

// AssessmentSchema is sent as a structured-output hint. Replies are not
// held to it; the normalizer repairs whatever comes back.
var AssessmentSchema = &llm.Schema{
	Name:        "writing-assessment",
	Description: "NAPLAN writing assessment with criteria scores and review sections",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meta": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"year_level": map[string]any{"type": "integer"},
					"text_type":  map[string]any{"type": "string", "enum": []any{"Narrative", "Persuasive"}},
					"prompt_relevance": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
							"verdict":  map[string]any{"type": "string", "enum": []any{VerdictOnTopic, VerdictPartiallyOnTopic, VerdictOffTopic}},
							"note":     map[string]any{"type": "string"},
							"evidence": map[string]any{"type": "string"},
						},
						"required": []any{"score", "verdict"},
					},
				},
			},
			"overall": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"total_score":      map[string]any{"type": "integer"},
					"max_score":        map[string]any{"type": "integer"},
					"band":             map[string]any{"type": "string", "enum": []any{BandBelow, BandAt, BandAbove}},
					"one_line_summary": map[string]any{"type": "string", "description": "One neutral sentence"},
					"summary":          map[string]any{"type": "string", "description": "1-2 neutral sentences"},
					"strengths":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"weaknesses":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
			"review_sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"title": map[string]any{"type": "string"},
						"items": map[string]any{"type": "array"},
					},
				},
			},
			"criteria": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":           map[string]any{"type": "string"},
						"score":          map[string]any{"type": []any{"integer", "null"}},
						"max":            map[string]any{"type": []any{"integer", "null"}},
						"suggestion":     map[string]any{"type": "string"},
						"evidence_quote": map[string]any{"type": "string"},
					},
					"required": []any{"name", "score"},
				},
			},
		},
		"required": []any{"meta", "overall", "criteria"},
	},
}

// envelopeSchema is the only shape a reply must have: meta and overall,
// when present, are objects. Everything inside is repaired later.
var envelopeSchema = &llm.Schema{
	Name: "writing-envelope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meta":    map[string]any{"type": "object"},
			"overall": map[string]any{"type": "object"},
		},
	},
}
