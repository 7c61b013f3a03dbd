package coach

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ToneGuidance sets the register of the feedback for a year level.
func ToneGuidance(year *int) string {
	if year == nil {
		return "Use supportive, clear, actionable tone."
	}
	switch *year {
	case 3:
		return "Use very simple words, short sentences, warm and encouraging."
	case 5:
		return "Use simple clear language, slightly more detailed steps."
	case 7:
		return "Use confident coaching tone, practical strategies, more independence."
	case 9:
		return "Use mature, direct coaching tone, exam-strategy focus, self-reflection."
	}
	return "Use supportive, clear, actionable tone."
}

// ProductInsights are the house style rules appended to every prompt.
var ProductInsights = []string{
	"Use topic names and numbers in every point",
	"Be specific and actionable; give time/count targets",
	"Balance encouragement with honest focus areas",
	"Include timing insights when pace is fast/slow",
	"Keep language appropriate for the year level",
}

const coachSystemPrompt = `You are an expert AI Coach writing personalised quiz feedback for a student and their parent or teacher.`

type promptData struct {
	Subject  string
	Year     string
	Tone     string
	Analysis Analysis
	Top      string
	Weak     string
	Weakest  *Topic
	Time     string
	Speed    string
	Insights []string
}

var feedbackTemplate = template.Must(template.New("feedback").Funcs(template.FuncMap{
	"fmt1":  fmt1,
	"whole": func(v float64) int { return int(v) },
}).Parse(`You are creating personalised feedback for a {{.Subject}} assessment.

AUDIENCE: Student + Parent/Teacher
YEAR LEVEL: Year {{.Year}}
TONE RULE: {{.Tone}}

PERFORMANCE DATA:
Overall Score: {{fmt1 .Analysis.Accuracy}}%
Time: {{.Time}} | Speed: {{.Speed}} | Pace: {{.Analysis.Pace}}
High performers (>=80%): {{.Analysis.HighPerformanceCount}} topics
Low performers (<=30%): {{.Analysis.LowPerformanceCount}} topics

STRONGEST TOPICS:
  - {{.Top}}

WEAKEST TOPICS:
  - {{.Weak}}
{{with .Weakest}}
CRITICAL REQUIREMENT - WEAKEST TOPIC:
The weakest performing topic is: "{{.Name}}"
Performance: {{fmt1 .Percentage}}% ({{whole .Scored}}/{{whole .Total}} correct, {{whole .Missed}} missed)

YOU MUST:
1) Include "{{.Name}}" as FIRST item in weaknesses AND growth_areas.
2) Create at least ONE coach item about "{{.Name}}" with an actionable task.
3) Include a study_tip specifically for "{{.Name}}".

If "{{.Name}}" is missing from weaknesses, the output is INVALID.
{{end}}
TIMING REQUIREMENT:
Time taken: {{.Time}}
Total questions: {{.Analysis.TotalQuestions}}
Speed: {{.Speed}}
Pace label: {{.Analysis.Pace}}

RULE:
- Mention timing in overall_feedback (1 sentence).
- If pace is "slow", include timing as a weakness point.
- If pace is "fast", include timing as a strength point (but warn about accuracy if needed).
- If pace is "steady", mention it positively (neutral/strength).
{{if .Insights}}
Product Style Guidelines:
{{range .Insights}}- {{.}}
{{end}}{{end}}
OUTPUT REQUIREMENTS:
Return ONLY valid JSON (no markdown, no code blocks, no extra text).

Required JSON structure:
{
  "overall_feedback": "EXACTLY 2 short sentences, max 14 words each.",
  "coach": [
    {"insight":"...","reason":"...","action":"..."},
    {"insight":"...","reason":"...","action":"..."},
    {"insight":"...","reason":"...","action":"..."}
  ],
  "strengths": ["3 points, max 10 words each", "...", "..."],
  "weaknesses": ["3 points, max 10 words each", "...", "..."],
  "growth_areas": ["3 points, max 10 words each", "...", "..."],
  "study_tips": ["up to 3 items, max 10 words each", "...", "..."],
  "cta": "One motivating call-to-action (12 words max)",
  "encouragement": "4-5 short sentences, supportive and specific."
}

CHECKLIST:
- weaknesses MUST exist and have 3 points
- weaknesses[0] MUST be the weakest topic name
- Include timing in overall_feedback (1 sentence)
- Use real topic names and real numbers
- Actions must include a number + time or quantity`))

// BuildPrompt renders the feedback request for an analysis.
func BuildPrompt(a Analysis, subject string, insights []string) (string, error) {
	d := promptData{
		Subject:  subject,
		Year:     "Unknown",
		Tone:     ToneGuidance(a.YearLevel),
		Analysis: a,
		Top:      formatTopics(a.TopTopics),
		Weak:     formatTopics(a.WeakTopics),
		Time:     "not recorded",
		Speed:    "not available",
		Insights: insights,
	}
	if a.YearLevel != nil {
		d.Year = fmt.Sprint(*a.YearLevel)
	}
	if w, ok := a.Weakest(); ok {
		d.Weakest = &w
	}
	if a.TimeTakenMinutes != nil {
		d.Time = fmt1(*a.TimeTakenMinutes) + " minutes"
	}
	if a.SecondsPerQuestion != nil {
		d.Speed = fmt1(*a.SecondsPerQuestion) + " sec/question"
	}

	var buf bytes.Buffer
	if err := feedbackTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func formatTopics(topics []Topic) string {
	if len(topics) == 0 {
		return "None"
	}
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = fmt.Sprintf("%s - %s%% correct (%d/%d questions, %d missed)",
			t.Name, fmt1(t.Percentage), int(t.Scored), int(t.Total), int(t.Missed))
	}
	return strings.Join(parts, "\n  - ")
}
