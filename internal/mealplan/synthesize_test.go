package mealplan_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/mealplan"
)

func TestSynthesizeIsDeterministic(t *testing.T) {
	t.Parallel()

	p := domain.UserProfile{FirstName: "Asha", LastName: "Rao", DietaryPreference: "vegan", MedicalConditions: "Asthma"}
	if mealplan.Synthesize(p) != mealplan.Synthesize(p) {
		t.Fatal("expected byte-identical output for identical profiles")
	}
}

func TestSynthesizeBranches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		diet      string
		wantDiet  string
		wantMenu  string
		forbidden string
	}{
		{"Vegetarian", "vegetarian", "Ragi dosa + sambar + coconut chutney", "Grilled chicken"},
		{"VEGAN", "vegan", "Buddha bowl with chickpeas + quinoa + vegetables", "Scrambled eggs"},
		{"non-vegetarian", "non-vegetarian", "Grilled chicken + quinoa + roasted vegetables", "Ragi dosa"},
		{"", "non-vegetarian", "Baked fish + sweet potato + green salad", "Lentil curry"},
		{"keto", "keto", "Scrambled eggs + whole grain toast + avocado", "Quinoa porridge"},
	}
	for _, tc := range tests {
		t.Run(tc.diet, func(t *testing.T) {
			plan := mealplan.Synthesize(domain.UserProfile{FirstName: "Ravi", DietaryPreference: tc.diet})
			if !strings.Contains(plan, "🥗 Diet: "+tc.wantDiet+"\n") {
				t.Errorf("expected diet line %q in plan:\n%s", tc.wantDiet, plan)
			}
			if !strings.Contains(plan, tc.wantMenu) {
				t.Errorf("expected menu %q in plan:\n%s", tc.wantMenu, plan)
			}
			if strings.Contains(plan, tc.forbidden) {
				t.Errorf("unexpected menu %q in plan", tc.forbidden)
			}
		})
	}
}

func TestSynthesizeStructureAndDefaults(t *testing.T) {
	t.Parallel()

	plan := mealplan.Synthesize(domain.UserProfile{})

	if !strings.HasPrefix(plan, "🍽️ PERSONALIZED MEAL PLAN for User\n\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(plan, "\n", 2)[0])
	}
	if !strings.Contains(plan, "🩺 Conditions: None\n") {
		t.Error("expected None conditions marker")
	}
	order := []string{"BREAKFAST", "LUNCH", "DINNER", "SNACK SUGGESTIONS", "TIMING RECOMMENDATIONS"}
	last := -1
	for _, section := range order {
		i := strings.Index(plan, section)
		if i <= last {
			t.Fatalf("section %q missing or out of order", section)
		}
		last = i
	}
	if !strings.HasSuffix(plan, "• Finish dinner 2-3 hours before bedtime") {
		t.Errorf("unexpected plan ending: %q", plan[len(plan)-50:])
	}
}

func TestPlanStampsSource(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p := mealplan.Plan(domain.UserProfile{FirstName: "Asha"}, now)
	if p.Source != domain.PlanSynthesized || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected plan metadata: %+v", p)
	}
	if !strings.Contains(p.Text, "for Asha") {
		t.Fatal("expected given name in plan text")
	}
}
