package writing

import "github.com/edutech/naplan/internal/sanitize"

type sectionSpec struct {
	id       string
	title    string
	maxItems int
}

var reviewSections = []sectionSpec{
	{id: "sentence_improvements", title: "Make these sentences stronger", maxItems: 8},
	{id: "ideas_development", title: "Ideas development suggestions", maxItems: 6},
	{id: "next_steps", title: "Next time try this", maxItems: 8},
	{id: "mini_rewrite", title: "Mini rewrite (example)", maxItems: 4},
}

const (
	sectionTitleLimit = 80
	stringItemLimit   = 200
	mapValueLimit     = 260
)

// ShapeReviewSections returns exactly the four review sections in fixed
// order. raw is either decoded JSON or a previous result's sections;
// shaping its own output changes nothing.
func ShapeReviewSections(raw any) []ReviewSection {
	byID := map[string]ReviewSection{}

	switch v := raw.(type) {
	case []ReviewSection:
		for _, s := range v {
			byID[s.ID] = s
		}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			id, ok := obj["id"].(string)
			if !ok {
				continue
			}
			s := ReviewSection{ID: id}
			s.Title, _ = obj["title"].(string)
			s.Items, _ = obj["items"].([]any)
			byID[id] = s
		}
	}

	out := make([]ReviewSection, 0, len(reviewSections))
	for _, spec := range reviewSections {
		s := byID[spec.id]
		title := sanitize.Text(s.Title, sectionTitleLimit)
		if title == "" {
			title = spec.title
		}
		out = append(out, ReviewSection{
			ID:    spec.id,
			Title: title,
			Items: shapeItems(s.Items, spec.maxItems),
		})
	}
	return out
}

// shapeItems caps items first and then drops unsupported entries.
func shapeItems(items []any, limit int) []any {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, sanitize.Text(v, stringItemLimit))
		case map[string]any:
			clean := make(map[string]any, len(v))
			for k, val := range v {
				if s, ok := val.(string); ok {
					clean[k] = sanitize.Text(s, mapValueLimit)
					continue
				}
				clean[k] = val
			}
			out = append(out, clean)
		}
	}
	return out
}
