package coach

// placeholderFeedback is returned when no questions were attempted. It is
// built without a model call.
func placeholderFeedback(year *int) (*Analysis, *Feedback) {
	analysis := &Analysis{
		YearLevel:  year,
		Pace:       PaceUnknown,
		TopTopics:  []Topic{},
		WeakTopics: []Topic{},
	}
	feedback := &Feedback{
		OverallFeedback: "Complete your first quiz to unlock insights. Timing will appear after attempts.",
		Coach: []CoachItem{{
			Insight: "No completed attempt found yet.",
			Reason:  "We need answers to identify strengths and weaknesses.",
			Action:  "Try a short practice set for 5-10 minutes.",
		}},
		Strengths:   []string{},
		Weaknesses:  []string{},
		GrowthAreas: []string{},
		StudyTips: []string{
			"Start with a small set of questions",
			"Work in short focused sessions",
			"Review mistakes to learn faster",
		},
		CTA:           "Take your first quiz to unlock your AI Coach!",
		Encouragement: "You are ready to start. One small step today is progress.",
	}
	return analysis, feedback
}
