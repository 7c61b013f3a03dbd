package coach

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/edutech/naplan/internal/sanitize"
)

const (
	feedbackSlots = 3

	overallLimit       = 320
	coachFieldLimit    = 220
	listItemLimit      = 140
	ctaLimit           = 140
	encouragementLimit = 600

	defaultOverall       = "You made good progress and can improve with practice. Keep going!"
	defaultCTA           = "Pick one weak topic and practice it today."
	defaultEncouragement = "You can improve quickly with short daily practice. " +
		"Focus on one topic at a time. " +
		"Review mistakes and try again. " +
		"You are getting better every week."
	fillerWeakness = "Needs more practice consistency"
	fillerGrowth   = "Improve accuracy by checking answers"
	unnamedTopic   = "Unnamed topic"
)

var fillerCoach = CoachItem{
	Insight: "Small daily practice builds strong long-term skills.",
	Reason:  "Repeating key patterns helps you remember faster.",
	Action:  "Study for 15 minutes daily and review mistakes.",
}

// Coerce repairs a model reply into Feedback. Whatever the reply holds, the
// result has three coach items, three weaknesses and three growth areas, and
// the weakest topic leads both lists.
func Coerce(reply gjson.Result, a Analysis) Feedback {
	if !reply.IsObject() {
		reply = gjson.Result{}
	}
	a = cleanTopicNames(a)
	weakest, hasWeakest := a.Weakest()

	fb := Feedback{
		Coach:       coerceCoach(reply.Get("coach"), a),
		Strengths:   coerceStrengths(reply.Get("strengths"), a),
		Weaknesses:  coerceWeaknesses(reply.Get("weaknesses"), a),
		GrowthAreas: coerceGrowth(reply.Get("growth_areas"), a),
		StudyTips:   textList(reply.Get("study_tips"), listItemLimit),
	}

	if hasWeakest && !anyMentions(fb.StudyTips, weakest.Name) {
		fb.StudyTips = append([]string{line(listItemLimit, "Practice %s 10 minutes daily", weakest.Name)}, fb.StudyTips...)
	}
	fb.StudyTips = capList(fb.StudyTips)

	fb.OverallFeedback = textOf(reply.Get("overall_feedback"), overallLimit)
	if fb.OverallFeedback == "" {
		fb.OverallFeedback = defaultOverall
	}
	if a.TimeTakenMinutes != nil {
		lower := strings.ToLower(fb.OverallFeedback)
		if !strings.Contains(lower, "minute") && !strings.Contains(lower, "time") {
			fb.OverallFeedback += fmt.Sprintf(" Time taken: %s minutes.", fmt1(*a.TimeTakenMinutes))
		}
	}

	fb.CTA = textOf(reply.Get("cta"), ctaLimit)
	if fb.CTA == "" {
		fb.CTA = defaultCTA
	}
	fb.Encouragement = textOf(reply.Get("encouragement"), encouragementLimit)
	if fb.Encouragement == "" {
		fb.Encouragement = defaultEncouragement
	}
	return fb
}

func coerceCoach(raw gjson.Result, a Analysis) []CoachItem {
	items := make([]CoachItem, 0, feedbackSlots)
	if raw.IsArray() {
		for _, it := range raw.Array() {
			if !it.IsObject() {
				continue
			}
			item := CoachItem{
				Insight: textOf(it.Get("insight"), coachFieldLimit),
				Reason:  textOf(it.Get("reason"), coachFieldLimit),
				Action:  textOf(it.Get("action"), coachFieldLimit),
			}
			if item.Insight != "" && item.Reason != "" && item.Action != "" {
				items = append(items, item)
			}
			if len(items) == feedbackSlots {
				break
			}
		}
	}

	weakest, hasWeakest := a.Weakest()
	mentioned := false
	if hasWeakest {
		for _, it := range items {
			if mentions(it.Insight, weakest.Name) || mentions(it.Reason, weakest.Name) {
				mentioned = true
				break
			}
		}
	}

	for len(items) < feedbackSlots {
		idx := len(items)
		if idx >= len(a.WeakTopics) {
			items = append(items, fillerCoach)
			continue
		}
		t := a.WeakTopics[idx]
		items = append(items, CoachItem{
			Insight: line(coachFieldLimit, "%s needs focused practice to improve.", t.Name),
			Reason:  line(coachFieldLimit, "You missed %d out of %d questions here.", int(t.Missed), int(t.Total)),
			Action:  line(coachFieldLimit, "Do 10 %s questions in 15 minutes today.", t.Name),
		})
	}

	// Only retained model items count as mentioning the weakest topic.
	if hasWeakest && !mentioned {
		items[len(items)-1] = CoachItem{
			Insight: line(coachFieldLimit, "%s is the biggest improvement opportunity.", weakest.Name),
			Reason:  line(coachFieldLimit, "You missed %d out of %d questions in %s.", int(weakest.Missed), int(weakest.Total), weakest.Name),
			Action:  line(coachFieldLimit, "Practice 12 %s questions tomorrow (20 minutes).", weakest.Name),
		}
	}
	return items
}

func coerceStrengths(raw gjson.Result, a Analysis) []string {
	out := capList(textList(raw, listItemLimit))
	for len(out) < min(feedbackSlots, len(a.TopTopics)) {
		t := a.TopTopics[len(out)]
		out = append(out, line(listItemLimit, "%s: %s%% accuracy", t.Name, fmt1(t.Percentage)))
	}

	if a.Pace == PaceFast && a.timed() {
		out = placeTiming(out, fmt.Sprintf("Good speed: %ss per question", fmt1(*a.SecondsPerQuestion)))
	}
	return capList(out)
}

func coerceWeaknesses(raw gjson.Result, a Analysis) []string {
	out := leadWithWeakest(capList(textList(raw, listItemLimit)), a, "%s: low accuracy")
	for _, t := range a.WeakTopics {
		if len(out) >= feedbackSlots {
			break
		}
		if !mentions(strings.Join(out, " "), t.Name) {
			out = append(out, line(listItemLimit, "%s: %s%% accuracy", t.Name, fmt1(t.Percentage)))
		}
	}

	if a.Pace == PaceSlow && a.timed() {
		out = placeTiming(out, fmt.Sprintf("Too slow: %ss per question", fmt1(*a.SecondsPerQuestion)))
	}
	return padList(out, fillerWeakness)
}

func coerceGrowth(raw gjson.Result, a Analysis) []string {
	out := leadWithWeakest(capList(textList(raw, listItemLimit)), a, "%s: practice daily")
	for _, t := range a.WeakTopics {
		if len(out) >= feedbackSlots {
			break
		}
		if !mentions(strings.Join(out, " "), t.Name) {
			out = append(out, line(listItemLimit, "%s: improve by revising mistakes", t.Name))
		}
	}
	return padList(out, fillerGrowth)
}

// leadWithWeakest prepends a line about the weakest topic unless the first
// entry already names it, then re-caps the list.
func leadWithWeakest(list []string, a Analysis, format string) []string {
	weakest, ok := a.Weakest()
	if !ok {
		return list
	}
	if len(list) > 0 && mentions(list[0], weakest.Name) {
		return list
	}
	return capList(append([]string{line(listItemLimit, format, weakest.Name)}, list...))
}

// placeTiming appends line, or overwrites the last slot of a full list,
// unless the list already contains it.
func placeTiming(list []string, line string) []string {
	if mentions(strings.Join(list, " "), line) {
		return list
	}
	if len(list) < feedbackSlots {
		return append(list, line)
	}
	list[len(list)-1] = line
	return list
}

func padList(list []string, filler string) []string {
	for len(list) < feedbackSlots {
		list = append(list, filler)
	}
	return capList(list)
}

func capList(list []string) []string {
	if len(list) > feedbackSlots {
		return list[:feedbackSlots]
	}
	return list
}

// textList keeps non-empty strings and numbers from a JSON array.
func textList(raw gjson.Result, limit int) []string {
	out := []string{}
	if !raw.IsArray() {
		return out
	}
	for _, it := range raw.Array() {
		if s := textOf(it, limit); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// textOf reads a string or number and sanitizes it. Other types read as
// empty.
func textOf(v gjson.Result, limit int) string {
	switch v.Type {
	case gjson.String:
		return sanitize.Text(v.Str, limit)
	case gjson.Number:
		return v.Raw
	}
	return ""
}

// cleanTopicNames copies a with topic names cleaned like model text, so
// comparisons see the same alphabet and synthesized lines stay ASCII.
func cleanTopicNames(a Analysis) Analysis {
	clean := func(ts []Topic) []Topic {
		out := make([]Topic, len(ts))
		for i, t := range ts {
			if name := sanitize.Text(t.Name, 0); name != "" {
				t.Name = name
			} else {
				t.Name = unnamedTopic
			}
			out[i] = t
		}
		return out
	}
	a.TopTopics = clean(a.TopTopics)
	a.WeakTopics = clean(a.WeakTopics)
	return a
}

// line formats a synthesized entry and caps it like model text.
func line(limit int, format string, args ...any) string {
	return sanitize.Text(fmt.Sprintf(format, args...), limit)
}

func mentions(text, name string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(name))
}

func anyMentions(list []string, name string) bool {
	for _, s := range list {
		if mentions(s, name) {
			return true
		}
	}
	return false
}
