package intent_test

import (
	"testing"

	"github.com/ashureev/healthdash/internal/intent"
)

func TestMatchIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		wantID int64
		wantOK bool
	}{
		{"My ID is 42, thanks", 42, true},
		{"my id is 7", 7, true},
		{"USER ID 13", 13, true},
		{"id 99 please", 99, true},
		{"user id", 0, false},
		{"hello", 0, false},
		{"I ate 2 eggs", 0, false},
		{"my id is 12 and my glucose is 140", 12, true},
		{"my id is 9223372036854775807", 9223372036854775807, true},
		{"my id is 9223372036854775808", 0, false},
		{"user id 123456789012345678901234567890", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := intent.MatchIdentity(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("MatchIdentity(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if ok && (got.Kind != intent.KindIdentity || got.UserID != tc.wantID) {
				t.Fatalf("MatchIdentity(%q) = %+v, want id %d", tc.text, got, tc.wantID)
			}
		})
	}
}

func TestClassifyExchange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outgoing string
		reply    string
		want     bool
	}{
		{"request wins regardless of reply", "generate meal plan for me", "Sure.", true},
		{"what should i eat", "What should I eat today?", "", true},
		{"reply with meal words", "hi", "Here's your breakfast and lunch ideas", true},
		{"greeting excluded", "hi", "Hello! Nice to meet you, I can help with breakfast ideas", false},
		{"emoji marker", "ok", "🍳 eggs at 8", true},
		{"small talk", "hi", "How are you feeling today?", false},
		{"personalized header", "thanks", "🍽️ PERSONALIZED MEAL PLAN for Asha", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := intent.ClassifyExchange(tc.outgoing, tc.reply); got != tc.want {
				t.Fatalf("ClassifyExchange(%q, %q) = %v, want %v", tc.outgoing, tc.reply, got, tc.want)
			}
		})
	}
}

func TestExtractRunsMatchersInOrder(t *testing.T) {
	t.Parallel()

	got := intent.Extract("my id is 5, what should I eat?", intent.DefaultMatchers)
	if len(got) != 2 {
		t.Fatalf("expected 2 intents, got %+v", got)
	}
	if got[0].Kind != intent.KindIdentity || got[0].UserID != 5 {
		t.Errorf("unexpected first intent: %+v", got[0])
	}
	if got[1].Kind != intent.KindMealPlanRequest {
		t.Errorf("unexpected second intent: %+v", got[1])
	}

	if got := intent.Extract("hello", intent.DefaultMatchers); len(got) != 0 {
		t.Errorf("expected no intents, got %+v", got)
	}
}

func TestQuickLogMessages(t *testing.T) {
	t.Parallel()

	if got := intent.MealLogMessage(" poha "); got != "I ate poha" {
		t.Errorf("MealLogMessage = %q", got)
	}
	if got := intent.GlucoseLogMessage("145"); got != "My glucose reading is 145" {
		t.Errorf("GlucoseLogMessage = %q", got)
	}
	if got := intent.MoodLogMessage("Stressed"); got != "I am feeling stressed" {
		t.Errorf("MoodLogMessage = %q", got)
	}
}
