package api

import (
	"time"

	"github.com/ashureev/healthdash/internal/conversation"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/health"
)

// Summary is the derived health panel of the dashboard.
type Summary struct {
	GlucoseStatus health.GlucoseStatus   `json:"glucose_status"`
	LatestGlucose *domain.GlucoseSample  `json:"latest_glucose"`
	CurrentMood   string                 `json:"current_mood"`
	LastMeal      string                 `json:"last_meal"`
	RecentGlucose []domain.GlucoseSample `json:"recent_glucose"`
	RecentMood    []domain.MoodSample    `json:"recent_mood"`
	DailyTip      string                 `json:"daily_tip"`
}

// Dashboard is the full render model pushed to the browser.
type Dashboard struct {
	conversation.Snapshot
	Summary Summary `json:"summary"`
}

// BuildDashboard derives the render model from a session snapshot.
func BuildDashboard(snap conversation.Snapshot, now time.Time, loc *time.Location) Dashboard {
	t := snap.Timelines
	s := Summary{
		GlucoseStatus: t.GlucoseStatus(),
		CurrentMood:   t.CurrentMood(),
		LastMeal:      t.LastMeal(loc),
		RecentGlucose: t.RecentGlucose(health.DefaultHistoryLen),
		RecentMood:    t.RecentMood(health.DefaultHistoryLen),
		DailyTip:      health.DailyTip(now.In(loc)),
	}
	if g, ok := t.LatestGlucose(); ok {
		s.LatestGlucose = &g
	}
	return Dashboard{Snapshot: snap, Summary: s}
}

func (h *Handler) dashboard(c *conversation.Coordinator) Dashboard {
	return BuildDashboard(c.Snapshot(), h.now(), h.loc)
}
