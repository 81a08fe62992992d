package domain

import "time"

// PlanSource records which path produced the current meal plan.
type PlanSource string

const (
	PlanSynthesized PlanSource = "synthesized"
	PlanAgent       PlanSource = "agent"
)

// MealPlan is an opaque formatted plan. A session holds at most one; the last writer wins.
type MealPlan struct {
	Text      string     `json:"text"`
	Source    PlanSource `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}
