package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/writing"
)

const barWidth = 20

func prettyView(v any) (string, bool) {
	switch o := v.(type) {
	case writing.Outcome:
		return WritingView(o), true
	case *writing.Outcome:
		return WritingView(*o), true
	case coach.Outcome:
		return FeedbackView(o), true
	case *coach.Outcome:
		return FeedbackView(*o), true
	}
	return "", false
}

// Bar draws a horizontal meter filled to fraction (0..1).
func Bar(fraction float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * fraction)
	filled = max(0, min(filled, width))

	return lipgloss.NewStyle().Background(Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(Border).Render(strings.Repeat(" ", width-filled))
}

func failureView(msg string) string {
	return cardStyle.Render(badStyle.Render("Failed") + "\n" + bodyStyle.Render(msg))
}

func bulletList(heading string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render(heading))
	for _, it := range items {
		b.WriteString("\n  • " + bodyStyle.Render(it))
	}
	return b.String()
}

func joinBlocks(blocks ...string) string {
	kept := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

// WritingView renders a writing outcome for the terminal.
func WritingView(o writing.Outcome) string {
	if !o.Success || o.Result == nil {
		return failureView(o.Error)
	}
	r := o.Result
	ov := r.Overall

	header := titleStyle.Render(fmt.Sprintf("Year %d %s", r.Meta.YearLevel, r.Meta.TextType)) + "\n" +
		fmt.Sprintf("%s  %d/%d  %s", Bar(ratio(ov.TotalScore, ov.MaxScore), barWidth), ov.TotalScore, ov.MaxScore, bandStyle(ov.Band).Render(ov.Band))
	if r.Meta.Message != "" {
		header += "\n" + warnStyle.Render(r.Meta.Message)
	}
	if ov.OneLineSummary != "" {
		header += "\n" + hintStyle.Render(ov.OneLineSummary)
	}

	rel := r.Meta.PromptRelevance
	relevance := headingStyle.Render("Prompt relevance") +
		fmt.Sprintf("\n  %d/100 %s", rel.Score, rel.Verdict)
	if rel.Note != "" {
		relevance += "\n  " + hintStyle.Render(rel.Note)
	}

	var wc string
	if f := r.Meta.WordCountFeedback; f != nil {
		wc = headingStyle.Render("Length") +
			fmt.Sprintf("\n  %d words (%s)\n  %s", f.WordCount, f.Status, bodyStyle.Render(f.Message))
	}

	var crit strings.Builder
	crit.WriteString(headingStyle.Render("Criteria"))
	for _, c := range r.Criteria {
		if c.Score == nil || c.Max == nil {
			crit.WriteString(fmt.Sprintf("\n  %-20s %s", c.Name, hintStyle.Render("n/a")))
			continue
		}
		crit.WriteString(fmt.Sprintf("\n  %-20s %s %d/%d", c.Name, Bar(ratio(*c.Score, *c.Max), 10), *c.Score, *c.Max))
	}

	var sections []string
	for _, s := range r.ReviewSections {
		sections = append(sections, bulletList(s.Title, sectionLines(s.Items)))
	}

	return joinBlocks(append([]string{
		cardStyle.Render(header),
		relevance,
		wc,
		bulletList("Strengths", ov.Strengths),
		bulletList("Weaknesses", ov.Weaknesses),
		crit.String(),
	}, sections...)...)
}

func sectionLines(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			var parts []string
			for _, key := range []string{"original", "before", "improved", "after", "suggestion", "why", "text"} {
				if s, ok := v[key].(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) == 0 {
				parts = append(parts, fmt.Sprint(v))
			}
			out = append(out, strings.Join(parts, " → "))
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func bandStyle(band string) lipgloss.Style {
	switch band {
	case writing.BandAbove:
		return goodStyle
	case writing.BandBelow:
		return badStyle
	}
	return warnStyle
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// FeedbackView renders a subject feedback outcome for the terminal.
func FeedbackView(o coach.Outcome) string {
	if !o.Success || o.PerformanceAnalysis == nil || o.AIFeedback == nil {
		return failureView(o.Error)
	}
	a := o.PerformanceAnalysis
	fb := o.AIFeedback

	title := "Quiz feedback"
	status := ""
	if o.Meta != nil {
		if o.Meta.QuizName != "" {
			title = o.Meta.QuizName
		}
		status = o.Meta.StatusMessage
	}
	header := titleStyle.Render(title) + "\n" +
		fmt.Sprintf("%s  %.1f%%", Bar(a.Accuracy/100, barWidth), a.Accuracy)
	if a.Grade != "" {
		header += "  grade " + a.Grade
	}
	if a.TimeTakenMinutes != nil {
		header += fmt.Sprintf("\n%.1f minutes, pace %s", *a.TimeTakenMinutes, a.Pace)
	}
	if status != "" {
		header += "\n" + hintStyle.Render(status)
	}

	var topics strings.Builder
	if len(a.WeakTopics) > 0 {
		topics.WriteString(headingStyle.Render("Focus topics"))
		for _, t := range a.WeakTopics {
			topics.WriteString(fmt.Sprintf("\n  %-20s %s %.1f%%", t.Name, Bar(t.Percentage/100, 10), t.Percentage))
		}
	}

	var coachLines []string
	for _, c := range fb.Coach {
		coachLines = append(coachLines, fmt.Sprintf("%s (%s) %s", c.Insight, c.Reason, c.Action))
	}

	footer := ""
	if fb.CTA != "" {
		footer = goodStyle.Render(fb.CTA)
	}
	if fb.Encouragement != "" {
		footer = joinBlocks(footer, hintStyle.Render(fb.Encouragement))
	}

	return joinBlocks(
		cardStyle.Render(header),
		bodyStyle.Render(fb.OverallFeedback),
		topics.String(),
		bulletList("Coach", coachLines),
		bulletList("Strengths", fb.Strengths),
		bulletList("Weaknesses", fb.Weaknesses),
		bulletList("Growth areas", fb.GrowthAreas),
		bulletList("Study tips", fb.StudyTips),
		footer,
	)
}
