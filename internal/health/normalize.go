package health

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/healthdash/internal/domain"
)

// leadingInt matches the integer prefix of a CGM value such as "142" or " 98 mg/dL".
var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// Timelines holds the per-type sequences derived from one user's logs.
// Each slice keeps backend order; the last element is the latest entry.
type Timelines struct {
	Glucose []domain.GlucoseSample `json:"cgm"`
	Mood    []domain.MoodSample    `json:"mood"`
	Meals   []domain.MealEvent     `json:"food"`
}

// Normalize partitions records by log type and projects each partition.
// Records with an unrecognised type are dropped. Normalize never fails: a CGM
// value that is not an integer yields a sample with Valid set to false.
func Normalize(records []domain.RawLogRecord) Timelines {
	t := Timelines{
		Glucose: []domain.GlucoseSample{},
		Mood:    []domain.MoodSample{},
		Meals:   []domain.MealEvent{},
	}
	for _, rec := range records {
		switch rec.LogType {
		case domain.LogTypeCGM:
			reading, ok := parseReading(rec.Value)
			t.Glucose = append(t.Glucose, domain.GlucoseSample{
				Date:    datePart(rec.Timestamp),
				Reading: reading,
				Valid:   ok,
			})
		case domain.LogTypeMood:
			t.Mood = append(t.Mood, domain.MoodSample{
				Date:  datePart(rec.Timestamp),
				Mood:  rec.Value,
				Score: MoodScore(rec.Value),
			})
		case domain.LogTypeFood:
			t.Meals = append(t.Meals, domain.MealEvent{
				Timestamp:   rec.Timestamp,
				Description: rec.Value,
			})
		}
	}
	return t
}

// datePart truncates a timestamp at its first date/time separator.
// Both ISO "2024-05-01T08:30:00" and SQL "2024-05-01 08:30:00" forms are accepted.
func datePart(ts string) string {
	if i := strings.IndexAny(ts, "T "); i >= 0 {
		return ts[:i]
	}
	return ts
}

func parseReading(v string) (int, bool) {
	m := leadingInt.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
