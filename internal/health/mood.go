// Package health projects raw backend log records into the typed timelines
// and summaries shown on the dashboard.
package health

import "strings"

// DefaultMoodScore is returned for labels missing from the score table.
const DefaultMoodScore = 5

var moodScores = map[string]int{
	"happy":     8,
	"excited":   9,
	"energetic": 8,
	"content":   7,
	"calm":      6,
	"tired":     4,
	"sad":       2,
	"anxious":   3,
	"stressed":  3,
}

// MoodScore maps a mood label to an intensity in [1,10]. Lookup ignores case.
func MoodScore(label string) int {
	if score, ok := moodScores[strings.ToLower(label)]; ok {
		return score
	}
	return DefaultMoodScore
}

// MoodOptions returns the labels offered by the quick mood form, in display order.
func MoodOptions() []string {
	return []string{"Happy", "Sad", "Tired", "Excited", "Stressed", "Calm"}
}
