package domain

// LogType tags a raw backend log record.
type LogType string

const (
	LogTypeCGM  LogType = "cgm"
	LogTypeMood LogType = "mood"
	LogTypeFood LogType = "food"
)

// RawLogRecord is a log row as returned by the backend. It is never mutated by the client.
type RawLogRecord struct {
	LogID     int64   `json:"log_id,omitempty"`
	UserID    int64   `json:"user_id,omitempty"`
	Timestamp string  `json:"timestamp"`
	LogType   LogType `json:"log_type"`
	Value     string  `json:"value"`
}

// GlucoseSample is a day-granularity CGM reading in mg/dL.
// Valid is false when the backend value did not parse as an integer; Reading is then meaningless.
type GlucoseSample struct {
	Date    string `json:"timestamp"`
	Reading int    `json:"reading"`
	Valid   bool   `json:"valid"`
}

// MoodSample is a day-granularity mood entry with its numeric intensity.
type MoodSample struct {
	Date  string `json:"timestamp"`
	Mood  string `json:"mood"`
	Score int    `json:"score"`
}

// MealEvent is a logged meal. Both fields are carried verbatim from the backend.
type MealEvent struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"meal"`
}
