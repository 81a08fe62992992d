// Package intent detects actionable intents in chat text with keyword and
// pattern matchers. Matching is heuristic by nature: there is no tokenizer or
// grammar, only case-insensitive substring and digit-run scans.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind names an intent.
type Kind string

const (
	KindIdentity        Kind = "identity"
	KindMealPlanRequest Kind = "meal_plan_request"
)

// Intent is a structured action inferred from an outgoing message.
type Intent struct {
	Kind   Kind
	UserID int64 // set for KindIdentity
}

// Matcher inspects an outgoing message and reports an intent when it applies.
type Matcher interface {
	Match(text string) (Intent, bool)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(text string) (Intent, bool)

// Match calls f(text).
func (f MatcherFunc) Match(text string) (Intent, bool) {
	return f(text)
}

var (
	digitRun = regexp.MustCompile(`\d+`)

	identityPhrases        = []string{"my id is", "user id", "id "}
	mealPlanRequestPhrases = []string{"meal plan", "generate meal", "what should i eat", "meal recommendation"}
	mealPlanReplyMarkers   = []string{"personalized meal plan", "breakfast", "lunch", "dinner", "🍳", "🍚", "🥗"}
	greetingMarkers        = []string{"hello", "nice to meet you"}
)

// DefaultMatchers is the ordered matcher list run against every outgoing message.
var DefaultMatchers = []Matcher{
	MatcherFunc(MatchIdentity),
	MatcherFunc(MatchMealPlanRequest),
}

// Extract runs matchers in order and returns every intent they report.
func Extract(text string, matchers []Matcher) []Intent {
	var found []Intent
	for _, m := range matchers {
		if in, ok := m.Match(text); ok {
			found = append(found, in)
		}
	}
	return found
}

// MatchIdentity binds a user id when the message names one, e.g. "My ID is 42".
// The first digit run in the message is used. A phrase without digits is not an intent,
// and neither is a digit run too long for an int64: no backend id can be that large.
func MatchIdentity(text string) (Intent, bool) {
	if !containsAny(strings.ToLower(text), identityPhrases) {
		return Intent{}, false
	}
	run := digitRun.FindString(text)
	if run == "" {
		return Intent{}, false
	}
	id, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return Intent{}, false
	}
	return Intent{Kind: KindIdentity, UserID: id}, true
}

// MatchMealPlanRequest reports an outgoing request for a meal plan.
func MatchMealPlanRequest(text string) (Intent, bool) {
	if !containsAny(strings.ToLower(text), mealPlanRequestPhrases) {
		return Intent{}, false
	}
	return Intent{Kind: KindMealPlanRequest}, true
}

// IsMealPlanReply reports whether an agent reply reads like a meal plan.
// Replies that also greet the user are excluded so small talk mentioning a
// meal word is not mistaken for a plan.
func IsMealPlanReply(reply string) bool {
	lower := strings.ToLower(reply)
	return containsAny(lower, mealPlanReplyMarkers) && !containsAny(lower, greetingMarkers)
}

// ClassifyExchange decides whether an outgoing message and its reply form a meal-plan event.
func ClassifyExchange(outgoing, reply string) bool {
	if _, ok := MatchMealPlanRequest(outgoing); ok {
		return true
	}
	return IsMealPlanReply(reply)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
