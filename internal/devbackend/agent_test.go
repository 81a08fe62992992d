package devbackend

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/intent"
)

func newTestAgent(t *testing.T) (*Agent, *Store) {
	t.Helper()
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }
	insertUser(t, s, Profile{
		UserID: 7,
		UserProfile: domain.UserProfile{
			FirstName: "Asha", LastName: "Rao", City: "Chicago",
			DietaryPreference: "vegetarian", MedicalConditions: "Hypertension",
		},
		PhysicalLimitations: "None",
	})
	return NewAgent(s, nil), s
}

func TestAgentReply(t *testing.T) {
	id := int64(7)
	tests := []struct {
		name    string
		message string
		userID  *int64
		want    string
	}{
		{"validate", "My ID is 7", nil, "User 7 validated successfully. Name: Asha Rao, City: Chicago, Diet: vegetarian, Conditions: Hypertension"},
		{"unknown user", "my id is 12", nil, "User ID 12 not found. Please check your user ID and try again."},
		{"stable glucose", intent.GlucoseLogMessage("145"), &id, "Glucose reading 145 mg/dL is stable."},
		{"high glucose", intent.GlucoseLogMessage("320"), &id, "ALERT: Glucose reading of 320 mg/dL is outside the safe range (80-300)."},
		{"mood", intent.MoodLogMessage("Happy"), &id, "Mood 'happy' logged for user 7."},
		{"meal", intent.MealLogMessage("dal and rice"), &id, "Meal 'dal and rice' logged successfully at 2025-03-10 09:30:00. Ready for macro estimation."},
		{"glucose without user", intent.GlucoseLogMessage("145"), nil, needUserReply},
		{"greeting", "hi there", nil, greetingReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAgent(t)
			got, err := a.Reply(context.Background(), backend.ChatRequest{Message: tt.message, UserID: tt.userID})
			if err != nil {
				t.Fatalf("Reply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Reply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAgentLogsToStore(t *testing.T) {
	a, s := newTestAgent(t)
	ctx := context.Background()
	id := int64(7)

	for _, msg := range []string{
		intent.GlucoseLogMessage("110"),
		intent.MoodLogMessage("calm"),
		intent.MealLogMessage("oatmeal"),
	} {
		if _, err := a.Reply(ctx, backend.ChatRequest{Message: msg, UserID: &id}); err != nil {
			t.Fatalf("Reply(%q) error = %v", msg, err)
		}
	}

	logs, err := s.ListLogs(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("logs = %d, want 3", len(logs))
	}
	want := map[domain.LogType]string{domain.LogTypeCGM: "110", domain.LogTypeMood: "calm", domain.LogTypeFood: "oatmeal"}
	for _, l := range logs {
		if want[l.LogType] != l.Value {
			t.Errorf("log %s = %q, want %q", l.LogType, l.Value, want[l.LogType])
		}
	}
}

func TestAgentMealPlan(t *testing.T) {
	a, _ := newTestAgent(t)
	id := int64(7)

	got, err := a.Reply(context.Background(), backend.ChatRequest{Message: "Generate meal plan", UserID: &id})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if !intent.IsMealPlanReply(got) {
		t.Errorf("reply does not read as a meal plan: %q", got)
	}
	if !strings.Contains(got, "Asha") {
		t.Errorf("plan is not personalized: %q", got)
	}
}
