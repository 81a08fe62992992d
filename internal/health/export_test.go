package health_test

import (
	"bytes"
	"testing"

	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/health"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	tl := health.Timelines{
		Glucose: []domain.GlucoseSample{
			{Date: "2024-05-01", Reading: 110, Valid: true},
			{Date: "2024-05-02"},
			{Date: "2024-05-03", Reading: 95, Valid: true},
		},
		Mood: []domain.MoodSample{
			{Date: "2024-05-01", Mood: "happy", Score: 8},
			{Date: "2024-05-02", Mood: "tired", Score: 4},
		},
	}

	var buf bytes.Buffer
	if err := health.WriteCSV(&buf, tl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "Date,CGM Reading,Mood,Score\n" +
		"2024-05-01,110,happy,8\n" +
		"2024-05-02,NaN,tired,4\n" +
		"2024-05-03,95,N/A,N/A\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := health.WriteCSV(&buf, health.Timelines{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "Date,CGM Reading,Mood,Score\n" {
		t.Fatalf("unexpected csv: %q", got)
	}
	if got := health.ExportFilename(42); got != "health_data_42.csv" {
		t.Errorf("ExportFilename(42) = %q", got)
	}
}
