package health

import (
	"fmt"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
)

// Glucose alert thresholds in mg/dL.
const (
	HighGlucose = 300
	LowGlucose  = 80
)

// DefaultHistoryLen is how many entries the history view shows per timeline.
const DefaultHistoryLen = 5

const (
	noMoodLogged = "No mood logged yet"
	noMealLogged = "No meals logged yet"
)

// GlucoseStatus is the alert level of a reading.
type GlucoseStatus string

const (
	GlucoseUnknown GlucoseStatus = "unknown"
	GlucoseNormal  GlucoseStatus = "normal"
	GlucoseHigh    GlucoseStatus = "high"
	GlucoseLow     GlucoseStatus = "low"
)

// ClassifyGlucose returns the alert level for a sample. Invalid samples are unknown.
func ClassifyGlucose(s domain.GlucoseSample) GlucoseStatus {
	switch {
	case !s.Valid:
		return GlucoseUnknown
	case s.Reading > HighGlucose:
		return GlucoseHigh
	case s.Reading < LowGlucose:
		return GlucoseLow
	default:
		return GlucoseNormal
	}
}

// LatestGlucose returns the last CGM sample, if any.
func (t Timelines) LatestGlucose() (domain.GlucoseSample, bool) {
	if len(t.Glucose) == 0 {
		return domain.GlucoseSample{}, false
	}
	return t.Glucose[len(t.Glucose)-1], true
}

// GlucoseStatus classifies the latest reading; an empty timeline is unknown.
func (t Timelines) GlucoseStatus() GlucoseStatus {
	s, ok := t.LatestGlucose()
	if !ok {
		return GlucoseUnknown
	}
	return ClassifyGlucose(s)
}

// CurrentMood returns the most recent mood label or a placeholder.
func (t Timelines) CurrentMood() string {
	if len(t.Mood) == 0 || t.Mood[len(t.Mood)-1].Mood == "" {
		return noMoodLogged
	}
	return t.Mood[len(t.Mood)-1].Mood
}

// LastMeal describes the most recent meal as "<meal> at HH:MM" in loc.
// When the timestamp cannot be parsed it is shown as received.
func (t Timelines) LastMeal(loc *time.Location) string {
	if len(t.Meals) == 0 {
		return noMealLogged
	}
	last := t.Meals[len(t.Meals)-1]
	when := last.Timestamp
	if ts, ok := parseTimestamp(last.Timestamp); ok {
		if loc == nil {
			loc = time.Local
		}
		when = ts.In(loc).Format("15:04")
	}
	return fmt.Sprintf("%s at %s", last.Description, when)
}

// RecentGlucose returns at most the last n CGM samples.
func (t Timelines) RecentGlucose(n int) []domain.GlucoseSample {
	return tail(t.Glucose, n)
}

// RecentMood returns at most the last n mood samples.
func (t Timelines) RecentMood(n int) []domain.MoodSample {
	return tail(t.Mood, n)
}

func tail[T any](s []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n >= len(s) {
		out := make([]T, len(s))
		copy(out, s)
		return out
	}
	out := make([]T, n)
	copy(out, s[len(s)-n:])
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTimestamp accepts the timestamp shapes the backend is known to emit.
// Zone-less values are read as local time.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
