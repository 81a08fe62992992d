package intent

import (
	"fmt"
	"strings"
)

// MealLogMessage is the chat phrase sent by the quick meal form.
func MealLogMessage(food string) string {
	return fmt.Sprintf("I ate %s", strings.TrimSpace(food))
}

// GlucoseLogMessage is the chat phrase sent by the quick CGM form.
func GlucoseLogMessage(reading string) string {
	return fmt.Sprintf("My glucose reading is %s", strings.TrimSpace(reading))
}

// MoodLogMessage is the chat phrase sent by the quick mood form.
func MoodLogMessage(mood string) string {
	return fmt.Sprintf("I am feeling %s", strings.ToLower(strings.TrimSpace(mood)))
}
