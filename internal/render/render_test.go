package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/writing"
)

func intPtr(n int) *int { return &n }

func sampleWriting() writing.Outcome {
	return writing.Outcome{
		Success: true,
		Result: &writing.Result{
			Meta: writing.Meta{
				YearLevel:       5,
				TextType:        writing.Persuasive,
				ValidResponse:   true,
				PromptRelevance: writing.Relevance{Score: 90, Verdict: writing.VerdictOnTopic, Note: "Stays on the question."},
				WordCountFeedback: &writing.WordCountFeedback{
					WordCount: 210, YearLevel: 5, Status: "below_recommended", Message: "A little short.",
				},
			},
			Overall: writing.Overall{
				TotalScore: 30, MaxScore: 55, Band: writing.BandAt,
				OneLineSummary: "Clear position.",
				Strengths:      []string{"Strong opening"},
			},
			Criteria: []writing.Criterion{
				{Name: "Audience", Score: intPtr(4), Max: intPtr(6)},
				{Name: "Persuasive Devices"},
			},
			ReviewSections: []writing.ReviewSection{
				{ID: "next_steps", Title: "Next time try this", Items: []any{"Use a rhetorical question", map[string]any{"original": "It is bad.", "improved": "It harms everyone."}}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSON, "JSON": JSON, "yml": YAML, "yaml": YAML, " pretty ": Pretty} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, coach.Failure("boom")))
	assert.JSONEq(t, `{"success": false, "error": "boom"}`, buf.String())
}

func TestWrite_YAMLKeepsFieldOrderAndTags(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, sampleWriting()))
	out := buf.String()

	assert.NotContains(t, out, "{")
	assert.Less(t, strings.Index(out, "meta:"), strings.Index(out, "overall:"))
	assert.Contains(t, out, "year_level: 5")
	assert.Contains(t, out, "band: At Minimum Standard")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, true, back["success"])
}

func TestWrite_YAMLQuotesAmbiguousStrings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, map[string]string{"answer": "true", "n": "12"}))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "true", back["answer"])
	assert.Equal(t, "12", back["n"])
}

func TestWrite_PrettyFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Pretty, map[string]int{"a": 1}))
	var back map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 1, back["a"])
}

func TestWritingView(t *testing.T) {
	view := WritingView(sampleWriting())
	for _, want := range []string{
		"Year 5 Persuasive", "30/55", writing.BandAt, "90/100", "210 words",
		"Strong opening", "Audience", "4/6", "n/a", "Next time try this",
		"Use a rhetorical question", "It is bad. → It harms everyone.",
	} {
		assert.Contains(t, view, want)
	}
}

func TestWritingView_Failure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Pretty, &writing.Outcome{Error: "model credential is not configured"}))
	assert.Contains(t, buf.String(), "Failed")
	assert.Contains(t, buf.String(), "model credential is not configured")
}

func TestFeedbackView(t *testing.T) {
	mins := 20.0
	o := coach.Outcome{
		Success: true,
		PerformanceAnalysis: &coach.Analysis{
			Accuracy: 55, Grade: "C", TimeTakenMinutes: &mins, Pace: coach.PaceSteady,
			WeakTopics: []coach.Topic{{Name: "Fractions", Percentage: 20}},
		},
		AIFeedback: &coach.Feedback{
			OverallFeedback: "Good work.",
			Coach:           []coach.CoachItem{{Insight: "Fractions", Reason: "8 missed", Action: "Practise"}},
			StudyTips:       []string{"Practice Fractions 10 minutes daily"},
			CTA:             "Start now",
		},
		Meta: &coach.Meta{QuizName: "Year 5 Numeracy", StatusMessage: coach.StatusGenerated},
	}
	view := FeedbackView(o)
	for _, want := range []string{
		"Year 5 Numeracy", "55.0%", "grade C", "20.0 minutes", "pace steady",
		"Focus topics", "Fractions", "20.0%", "8 missed", "Study tips", "Start now", coach.StatusGenerated,
	} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "Growth areas")
}

func TestBarClamps(t *testing.T) {
	assert.NotPanics(t, func() {
		Bar(-1, 2)
		Bar(3, 10)
	})
}
