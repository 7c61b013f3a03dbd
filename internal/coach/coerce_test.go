package coach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func fractionsOnly() Analysis {
	return Analysis{
		Pace:       PaceUnknown,
		WeakTopics: []Topic{{Name: "Fractions", Percentage: 20, Scored: 2, Total: 10, Missed: 8}},
		TopTopics:  []Topic{{Name: "Fractions", Percentage: 20, Scored: 2, Total: 10, Missed: 8}},
	}
}

func TestCoerce_WeakestTopicLeadsWeaknesses(t *testing.T) {
	reply := gjson.Parse(`{"weaknesses": ["Geometry mistakes", "Slow reading"]}`)

	fb := Coerce(reply, fractionsOnly())

	require.Len(t, fb.Weaknesses, 3)
	assert.Contains(t, strings.ToLower(fb.Weaknesses[0]), "fractions")
	assert.Equal(t, []string{"Fractions: low accuracy", "Geometry mistakes", "Slow reading"}, fb.Weaknesses)
}

func TestCoerce_KeepsWeaknessThatAlreadyLeads(t *testing.T) {
	reply := gjson.Parse(`{"weaknesses": ["FRACTIONS need work", "", 12, "Checking", "Extra", "More"]}`)

	fb := Coerce(reply, fractionsOnly())
	assert.Equal(t, []string{"FRACTIONS need work", "12", "Checking"}, fb.Weaknesses)
}

func TestCoerce_CoachPaddingAndForcedMention(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	reply := gjson.Parse(`{"coach": [
		{"insight": "Geometry is strong", "reason": "9 of 10 right", "action": "Keep 5 questions weekly"},
		{"insight": "Missing action", "reason": "none"},
		"junk"
	]}`)

	fb := Coerce(reply, a)
	require.Len(t, fb.Coach, 3)
	assert.Equal(t, "Geometry is strong", fb.Coach[0].Insight)
	assert.Equal(t, "Algebra needs focused practice to improve.", fb.Coach[1].Insight)
	assert.Equal(t, "You missed 5 out of 10 questions here.", fb.Coach[1].Reason)
	assert.Equal(t, CoachItem{
		Insight: "Fractions is the biggest improvement opportunity.",
		Reason:  "You missed 8 out of 10 questions in Fractions.",
		Action:  "Practice 12 Fractions questions tomorrow (20 minutes).",
	}, fb.Coach[2])
}

func TestCoerce_CoachMentionKept(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	reply := gjson.Parse(`{"coach": [
		{"insight": "Work on fractions", "reason": "2 of 10", "action": "Do 10 in 15 minutes"},
		{"insight": "a", "reason": "b", "action": "c"},
		{"insight": "d", "reason": "e", "action": "f"},
		{"insight": "g", "reason": "h", "action": "i"}
	]}`)

	fb := Coerce(reply, a)
	require.Len(t, fb.Coach, 3)
	assert.Equal(t, "d", fb.Coach[2].Insight)
}

func TestCoerce_CoachFillerWithoutTopics(t *testing.T) {
	fb := Coerce(gjson.Parse(`{}`), Analysis{Pace: PaceUnknown})
	require.Len(t, fb.Coach, 3)
	for _, c := range fb.Coach {
		assert.Equal(t, fillerCoach, c)
	}
	assert.Equal(t, []string{fillerWeakness, fillerWeakness, fillerWeakness}, fb.Weaknesses)
	assert.Equal(t, []string{fillerGrowth, fillerGrowth, fillerGrowth}, fb.GrowthAreas)
	assert.Empty(t, fb.Strengths)
	assert.Empty(t, fb.StudyTips)
}

func TestCoerce_Strengths(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))

	fb := Coerce(gjson.Parse(`{"strengths": ["Solid geometry"]}`), a)
	assert.Equal(t, []string{"Solid geometry", "Measurement: 60.0% accuracy", "Algebra: 50.0% accuracy"}, fb.Strengths)

	a.Pace = PaceFast
	a.SecondsPerQuestion = ptr(7.5)
	fb = Coerce(gjson.Parse(`{"strengths": ["A", "B", "C", "D"]}`), a)
	assert.Equal(t, []string{"A", "B", "Good speed: 7.5s per question"}, fb.Strengths)

	fb = Coerce(gjson.Parse(`{"strengths": ["good speed: 7.5s per question"]}`), a)
	assert.Equal(t, "good speed: 7.5s per question", fb.Strengths[0])
	assert.Len(t, fb.Strengths, 3)
}

func TestCoerce_SlowTiming(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	a.Pace = PaceSlow
	a.SecondsPerQuestion = ptr(75.0)

	fb := Coerce(gjson.Parse(`{"weaknesses": []}`), a)
	assert.Equal(t, []string{
		"Fractions: low accuracy",
		"Algebra: 50.0% accuracy",
		"Too slow: 75.0s per question",
	}, fb.Weaknesses)
}

func TestCoerce_TimingIgnoredWithoutDuration(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	a.Pace = PaceSlow
	a.TimeTakenMinutes = nil

	fb := Coerce(gjson.Parse(`{"overall_feedback": "Solid work."}`), a)
	for _, w := range fb.Weaknesses {
		assert.NotContains(t, w, "Too slow")
	}
	assert.Equal(t, "Solid work.", fb.OverallFeedback)
}

func TestCoerce_GrowthAreas(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))

	fb := Coerce(gjson.Parse(`{"growth_areas": ["fractions every day", "x"]}`), a)
	assert.Equal(t, []string{"fractions every day", "x", "Algebra: improve by revising mistakes"}, fb.GrowthAreas)

	fb = Coerce(gjson.Parse(`{"growth_areas": "not a list"}`), a)
	assert.Equal(t, []string{
		"Fractions: practice daily",
		"Algebra: improve by revising mistakes",
		"Measurement: improve by revising mistakes",
	}, fb.GrowthAreas)
}

func TestCoerce_StudyTips(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))

	fb := Coerce(gjson.Parse(`{"study_tips": ["Review notes", "Sleep well", "Read daily"]}`), a)
	assert.Equal(t, []string{"Practice Fractions 10 minutes daily", "Review notes", "Sleep well"}, fb.StudyTips)

	fb = Coerce(gjson.Parse(`{"study_tips": ["Use fraction strips"]}`), a)
	assert.Equal(t, "Practice Fractions 10 minutes daily", fb.StudyTips[0], "fraction is not Fractions")
}

func TestCoerce_OverallFeedbackTiming(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))

	fb := Coerce(gjson.Parse(`{"overall_feedback": "Great effort overall."}`), a)
	assert.Equal(t, "Great effort overall. Time taken: 20.0 minutes.", fb.OverallFeedback)

	fb = Coerce(gjson.Parse(`{"overall_feedback": "You used your TIME well."}`), a)
	assert.Equal(t, "You used your TIME well.", fb.OverallFeedback)

	fb = Coerce(gjson.Parse(`{}`), a)
	assert.Equal(t, defaultOverall+" Time taken: 20.0 minutes.", fb.OverallFeedback)
	assert.Equal(t, defaultCTA, fb.CTA)
	assert.Equal(t, defaultEncouragement, fb.Encouragement)
}

func TestCoerce_NonObjectReply(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	fb := Coerce(gjson.Parse(`["not", "an", "object"]`), a)

	assert.Len(t, fb.Coach, 3)
	assert.Equal(t, "Fractions: low accuracy", fb.Weaknesses[0])
	assert.Equal(t, "Fractions: practice daily", fb.GrowthAreas[0])
}

func TestCoerce_SanitizesModelText(t *testing.T) {
	a := Analyze(sampleData(), ptr(5))
	fb := Coerce(gjson.Parse(`{"cta": "Let’s go — now!  🚀", "encouragement": "`+strings.Repeat("Keep going. ", 100)+`"}`), a)

	assert.Equal(t, "Let's go - now!", fb.CTA)
	assert.LessOrEqual(t, len(fb.Encouragement), encouragementLimit)
}

func TestCoerce_TypographicTopicNameMatchesModelText(t *testing.T) {
	a := Analysis{
		Pace: PaceUnknown,
		WeakTopics: []Topic{
			{Name: "Pythagoras’ theorem", Percentage: 10, Scored: 1, Total: 10, Missed: 9},
			{Name: "Fractions", Percentage: 40, Scored: 4, Total: 10, Missed: 6},
		},
	}
	reply := gjson.Parse(`{
		"weaknesses": ["Pythagoras’ theorem needs work"],
		"growth_areas": ["Revise Pythagoras' theorem"],
		"study_tips": ["Draw right triangles for pythagoras’ theorem"],
		"coach": [{"insight": "Pythagoras’ theorem slips", "reason": "9 missed", "action": "Practise"}]
	}`)

	fb := Coerce(reply, a)

	assert.Equal(t, []string{"Pythagoras' theorem needs work", "Fractions: 40.0% accuracy", fillerWeakness}, fb.Weaknesses)
	assert.Equal(t, "Revise Pythagoras' theorem", fb.GrowthAreas[0])
	assert.Equal(t, []string{"Draw right triangles for pythagoras' theorem"}, fb.StudyTips)
	assert.Equal(t, "Pythagoras' theorem slips", fb.Coach[0].Insight)
	assert.Equal(t, "Fractions needs focused practice to improve.", fb.Coach[1].Insight)
	// The caller's analysis keeps the original names.
	assert.Equal(t, "Pythagoras’ theorem", a.WeakTopics[0].Name)
}

func TestCoerce_SynthesizedLinesAreCleanedAndCapped(t *testing.T) {
	long := "Équations " + strings.Repeat("and inequalities ", 20)
	a := Analysis{
		Pace:       PaceUnknown,
		WeakTopics: []Topic{{Name: long, Percentage: 10, Scored: 1, Total: 10, Missed: 9}},
		TopTopics:  []Topic{{Name: "日本語", Percentage: 90, Scored: 9, Total: 10, Missed: 1}},
	}

	fb := Coerce(gjson.Parse(`{}`), a)

	for _, s := range append(append(append([]string{}, fb.Weaknesses...), fb.GrowthAreas...), fb.StudyTips...) {
		assert.LessOrEqual(t, len(s), listItemLimit, s)
		assert.NotContains(t, s, "É")
	}
	for _, c := range fb.Coach {
		assert.LessOrEqual(t, len(c.Insight), coachFieldLimit)
		assert.LessOrEqual(t, len(c.Action), coachFieldLimit)
	}
	assert.Equal(t, "Unnamed topic: 90.0% accuracy", fb.Strengths[0])
}
