// Package mealplan builds a formatted daily meal plan from a user profile.
// Menus and macros are fixed text per dietary branch; nothing is computed
// from nutrition data.
package mealplan

import (
	"strings"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
)

const (
	defaultDiet       = "non-vegetarian"
	defaultGivenName  = "User"
	defaultConditions = "None"
)

type meal struct {
	heading string
	menu    string
	macros  string
}

var menus = map[string][3]meal{
	"vegetarian": {
		{"🌅 BREAKFAST (7-8 AM):", "Oats with almond milk + berries + nuts", "Carbs: 35g | Protein: 12g | Fat: 8g"},
		{"🌞 LUNCH (12-1 PM):", "Brown rice + dal + mixed vegetables + yogurt", "Carbs: 45g | Protein: 18g | Fat: 6g"},
		{"🌙 DINNER (7-8 PM):", "Ragi dosa + sambar + coconut chutney", "Carbs: 30g | Protein: 15g | Fat: 10g"},
	},
	"vegan": {
		{"🌅 BREAKFAST (7-8 AM):", "Quinoa porridge with coconut milk + fruits", "Carbs: 40g | Protein: 10g | Fat: 12g"},
		{"🌞 LUNCH (12-1 PM):", "Buddha bowl with chickpeas + quinoa + vegetables", "Carbs: 50g | Protein: 20g | Fat: 8g"},
		{"🌙 DINNER (7-8 PM):", "Lentil curry + brown rice + steamed vegetables", "Carbs: 35g | Protein: 18g | Fat: 6g"},
	},
	defaultDiet: {
		{"🌅 BREAKFAST (7-8 AM):", "Scrambled eggs + whole grain toast + avocado", "Carbs: 25g | Protein: 20g | Fat: 15g"},
		{"🌞 LUNCH (12-1 PM):", "Grilled chicken + quinoa + roasted vegetables", "Carbs: 30g | Protein: 35g | Fat: 12g"},
		{"🌙 DINNER (7-8 PM):", "Baked fish + sweet potato + green salad", "Carbs: 25g | Protein: 30g | Fat: 10g"},
	},
}

var snacks = []string{
	"Nuts and seeds (10-15 pieces)",
	"Greek yogurt with berries",
	"Vegetable sticks with hummus",
}

var timing = []string{
	"Eat every 3-4 hours",
	"Don't skip meals",
	"Finish dinner 2-3 hours before bedtime",
}

// Synthesize returns the plan text for p. Output depends only on p.
// Unknown or empty dietary preferences use the non-vegetarian menu.
func Synthesize(p domain.UserProfile) string {
	diet := strings.ToLower(strings.TrimSpace(p.DietaryPreference))
	if diet == "" {
		diet = defaultDiet
	}
	name := p.GivenName()
	if name == "" {
		name = defaultGivenName
	}
	conditions := strings.TrimSpace(p.MedicalConditions)
	if conditions == "" {
		conditions = defaultConditions
	}

	branch, ok := menus[diet]
	if !ok {
		branch = menus[defaultDiet]
	}

	var b strings.Builder
	b.WriteString("🍽️ PERSONALIZED MEAL PLAN for " + name + "\n\n")
	b.WriteString("📊 Health Status: Balanced nutrition plan\n")
	b.WriteString("🥗 Diet: " + diet + "\n")
	b.WriteString("🩺 Conditions: " + conditions + "\n\n")

	for _, m := range branch {
		b.WriteString(m.heading + "\n")
		b.WriteString("• " + m.menu + "\n")
		b.WriteString("• " + m.macros + "\n\n")
	}

	b.WriteString("🍎 SNACK SUGGESTIONS:\n")
	for _, s := range snacks {
		b.WriteString("• " + s + "\n")
	}
	b.WriteString("\n⏰ TIMING RECOMMENDATIONS:\n")
	b.WriteString("• " + strings.Join(timing, "\n• "))

	return b.String()
}

// Plan wraps Synthesize in a MealPlan stamped with now.
func Plan(p domain.UserProfile, now time.Time) domain.MealPlan {
	return domain.MealPlan{
		Text:      Synthesize(p),
		Source:    domain.PlanSynthesized,
		CreatedAt: now,
	}
}
