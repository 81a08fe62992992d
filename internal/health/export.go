package health

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// notAvailable fills mood columns that have no sample at the glucose row's index.
const notAvailable = "N/A"

var csvHeader = []string{"Date", "CGM Reading", "Mood", "Score"}

// ExportFilename is the suggested download name for a user's CSV export.
func ExportFilename(userID int64) string {
	return fmt.Sprintf("health_data_%d.csv", userID)
}

// WriteCSV writes one row per glucose sample, pairing it with the mood sample
// at the same index. Invalid readings are written as NaN.
func WriteCSV(w io.Writer, t Timelines) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, g := range t.Glucose {
		reading := "NaN"
		if g.Valid {
			reading = strconv.Itoa(g.Reading)
		}
		mood, score := notAvailable, notAvailable
		if i < len(t.Mood) {
			if t.Mood[i].Mood != "" {
				mood = t.Mood[i].Mood
			}
			score = strconv.Itoa(t.Mood[i].Score)
		}
		if err := cw.Write([]string{g.Date, reading, mood, score}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
