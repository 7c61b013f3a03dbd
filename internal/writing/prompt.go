package writing

import (
	"bytes"
	"text/template"
)

// YearExpectation describes what an assessor should expect from a year
// level.
func YearExpectation(year int) string {
	switch year {
	case 3:
		return "Expect simple sentences, basic vocabulary, and concrete ideas. " +
			"Be age-appropriate and lenient. Focus on relevance to the prompt and clear events."
	case 5:
		return "Expect more detail, clearer sequencing, and some paragraph control. " +
			"Use age-appropriate judgement."
	case 7:
		return "Expect controlled paragraphs, varied sentences, and clearer development of ideas. " +
			"Use age-appropriate judgement."
	case 9:
		return "Expect well-structured writing, controlled language, and developed ideas. " +
			"Use age-appropriate judgement."
	}
	return "Use age-appropriate expectations."
}

const assessorSystemPrompt = `You are an Australian NAPLAN writing assessor.`

type promptData struct {
	Year        int
	TextType    TextType
	Expectation string
	Prompt      string
	Response    string
	MaxScore    int
}

var assessmentTemplate = template.Must(template.New("assessment").Parse(`YEAR: {{.Year}}
TEXT TYPE: {{.TextType}}

Year expectations:
{{.Expectation}}

PROMPT:
{{.Prompt}}

STUDENT RESPONSE:
{{.Response}}

STRICT CONTENT RULES:
- Do not invent story details (characters, events, settings, actions) not in PROMPT or STUDENT RESPONSE.
- If prompt is vague (e.g. "look at the picture"), do not guess the picture.

WRITING RULES:
- Use a neutral NAPLAN assessor voice at all times.
- Write in third person only; do not use first-person language.
- Do not refer to the writer as "the student" or use personal labels.
- Do not quote or repeat any part of the student's writing in overall.one_line_summary or overall.summary.
- Avoid conversational or instructional tone; write as an assessor.
- Use Australian English spelling and conventions throughout.

PROMPT RELEVANCE:
- score 0-100; verdict: on_topic | partially_on_topic | off_topic
- Include ONE evidence quote (8-25 words) from student writing.

EVIDENCE:
- Provide evidence_quote ONLY for Vocabulary, Punctuation, Spelling.
- Each evidence_quote must be 8-15 exact words from the student response.

CRITERIA:
- Return ALL applicable NAPLAN criteria for this text type.
- Narrative only: include Persuasive Devices with score=null, max=null, suggestion="N/A (narrative)", evidence_quote="".
- For each criterion: short suggestion (max 2 sentences, prefer <140 chars): what is missing + what to do next.

MAX SCORES:
Audience 6, Text Structure 6, Ideas 6, Persuasive Devices 5,
Vocabulary 6, Cohesion 5, Paragraphing 4,
Sentence Structure 6, Punctuation 5, Spelling 6.

OUTPUT:
Return ONLY valid JSON (ASCII only). No markdown, no extra text.

JSON FORMAT (exact keys):
{
  "meta": {
    "year_level": {{.Year}},
    "text_type": "{{.TextType}}",
    "prompt_relevance": {"score": 0, "verdict": "on_topic", "note": "short note", "evidence": "quote"}
  },
  "overall": {
    "total_score": 0,
    "max_score": {{.MaxScore}},
    "band": "Below Minimum Standard",
    "one_line_summary": "one neutral sentence",
    "summary": "1-2 neutral sentences (mention off-topic if applicable)",
    "strengths": ["...", "..."],
    "weaknesses": ["...", "..."]
  },
  "review_sections": [
    {"id": "sentence_improvements", "title": "Make these sentences stronger", "items": ["..."]},
    {"id": "ideas_development", "title": "Ideas development suggestions", "items": ["..."]},
    {"id": "next_steps", "title": "Next time try this", "items": ["..."]},
    {"id": "mini_rewrite", "title": "Mini rewrite (example)", "items": ["..."]}
  ],
  "criteria": [
    {"name": "Audience", "score": 0, "max": 6, "suggestion": "...", "evidence_quote": ""}
  ]
}
`))

func buildAssessmentMessage(d promptData) (string, error) {
	var buf bytes.Buffer
	if err := assessmentTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
