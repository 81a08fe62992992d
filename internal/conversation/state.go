package conversation

import (
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/health"
)

// SessionState is the per-session binding, timelines and plan. It is only
// changed through the transition methods below, each called under the
// coordinator lock.
//
// A raw user id may be known while no profile is bound (the profile fetch
// failed). That case is treated as unbound for display: no profile and empty
// timelines.
type SessionState struct {
	userID    int64
	hasUserID bool
	profile   *domain.UserProfile
	timelines health.Timelines
	plan      *domain.MealPlan
}

func newSessionState() SessionState {
	return SessionState{timelines: health.Normalize(nil)}
}

// bind replaces the whole binding with a freshly fetched profile and timelines.
func (s *SessionState) bind(userID int64, profile domain.UserProfile, t health.Timelines) {
	s.userID = userID
	s.hasUserID = true
	s.profile = &profile
	s.timelines = t
}

// bindFailed records the raw id but drops any previous profile and timelines.
func (s *SessionState) bindFailed(userID int64) {
	s.userID = userID
	s.hasUserID = true
	s.profile = nil
	s.timelines = health.Normalize(nil)
}

// applyTimelines overwrites timelines if the session is still bound to userID.
// Concurrent refreshes resolve by completion order: the last one applied wins.
func (s *SessionState) applyTimelines(userID int64, t health.Timelines) bool {
	if s.profile == nil || s.userID != userID {
		return false
	}
	s.timelines = t
	return true
}

func (s *SessionState) setPlan(p domain.MealPlan) {
	s.plan = &p
}

// boundUser returns the id whose profile is bound.
func (s *SessionState) boundUser() (int64, domain.UserProfile, bool) {
	if s.profile == nil {
		return 0, domain.UserProfile{}, false
	}
	return s.userID, *s.profile, true
}

// rawUserID returns the last id named in chat, even if its profile never loaded.
func (s *SessionState) rawUserID() (int64, bool) {
	return s.userID, s.hasUserID
}
