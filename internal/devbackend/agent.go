package devbackend

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/intent"
	"github.com/ashureev/healthdash/internal/mealplan"
)

// Safe CGM range used by the glucose logging reply.
const (
	SafeGlucoseMin = 80
	SafeGlucoseMax = 300
)

var firstNumber = regexp.MustCompile(`\d+`)

const (
	greetingReply = "Hello! I'm your healthcare assistant. Share your user ID to get started, then log meals, glucose readings or moods."
	needUserReply = "Please tell me your user ID first (for example: My ID is 7)."
)

// Agent answers chat with keyword-routed tool actions. It has no model behind it.
type Agent struct {
	store  *Store
	logger *slog.Logger
}

// NewAgent creates an agent backed by store.
func NewAgent(store *Store, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{store: store, logger: logger}
}

// Reply runs the action named by the message and returns the reply text.
func (a *Agent) Reply(ctx context.Context, req backend.ChatRequest) (string, error) {
	text := strings.TrimSpace(req.Message)
	lower := strings.ToLower(text)

	if in, ok := intent.MatchIdentity(text); ok {
		return a.validateUser(ctx, in.UserID)
	}

	switch {
	case strings.Contains(lower, "glucose") || strings.Contains(lower, "cgm"):
		if req.UserID == nil {
			return needUserReply, nil
		}
		return a.logGlucose(ctx, *req.UserID, lower)
	case strings.Contains(lower, "feeling"):
		if req.UserID == nil {
			return needUserReply, nil
		}
		return a.logMood(ctx, *req.UserID, text)
	case strings.HasPrefix(lower, "i ate ") || strings.Contains(lower, " ate "):
		if req.UserID == nil {
			return needUserReply, nil
		}
		return a.logFood(ctx, *req.UserID, text)
	}

	if _, ok := intent.MatchMealPlanRequest(text); ok {
		if req.UserID == nil {
			return needUserReply, nil
		}
		return a.mealPlan(ctx, *req.UserID)
	}
	return greetingReply, nil
}

func (a *Agent) validateUser(ctx context.Context, userID int64) (string, error) {
	p, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return fmt.Sprintf("User ID %d not found. Please check your user ID and try again.", userID), nil
	}
	return fmt.Sprintf("User %d validated successfully. Name: %s, City: %s, Diet: %s, Conditions: %s",
		userID, p.Name(), p.City, p.DietaryPreference, p.MedicalConditions), nil
}

func (a *Agent) logGlucose(ctx context.Context, userID int64, lower string) (string, error) {
	m := firstNumber.FindString(lower)
	if m == "" {
		return "Please include the glucose reading in mg/dL, for example: My glucose reading is 120.", nil
	}
	reading, err := strconv.Atoi(m)
	if err != nil {
		return "That glucose reading is not a number I can log.", nil
	}
	if err := a.store.LogData(ctx, userID, domain.LogTypeCGM, strconv.Itoa(reading)); err != nil {
		return "", err
	}
	a.logger.Info("CGM reading logged", "user_id", userID, "reading", reading)

	if reading < SafeGlucoseMin || reading > SafeGlucoseMax {
		return fmt.Sprintf("ALERT: Glucose reading of %d mg/dL is outside the safe range (%d-%d).", reading, SafeGlucoseMin, SafeGlucoseMax), nil
	}
	return fmt.Sprintf("Glucose reading %d mg/dL is stable.", reading), nil
}

func (a *Agent) logMood(ctx context.Context, userID int64, text string) (string, error) {
	lower := strings.ToLower(text)
	rest := strings.Fields(lower[strings.Index(lower, "feeling")+len("feeling"):])
	if len(rest) == 0 {
		return "How are you feeling? For example: I am feeling calm.", nil
	}
	mood := strings.Trim(rest[0], ".,!?")
	if err := a.store.LogData(ctx, userID, domain.LogTypeMood, mood); err != nil {
		return "", err
	}
	a.logger.Info("Mood logged", "user_id", userID, "mood", mood)
	return fmt.Sprintf("Mood '%s' logged for user %d.", mood, userID), nil
}

func (a *Agent) logFood(ctx context.Context, userID int64, text string) (string, error) {
	lower := strings.ToLower(text)
	src := text
	if len(lower) != len(text) {
		// Case folding changed byte offsets; index into the folded copy.
		src = lower
	}
	i := 0
	if !strings.HasPrefix(lower, "i ate ") {
		i = strings.Index(lower, " ate ")
	}
	meal := strings.TrimSpace(strings.TrimRight(src[i+len(" ate "):], "."))
	if meal == "" {
		return "What did you eat? For example: I ate oatmeal with berries.", nil
	}
	if err := a.store.LogData(ctx, userID, domain.LogTypeFood, meal); err != nil {
		return "", err
	}
	a.logger.Info("Meal logged", "user_id", userID)
	return fmt.Sprintf("Meal '%s' logged successfully at %s. Ready for macro estimation.", meal, a.store.now().Format(TimestampLayout)), nil
}

func (a *Agent) mealPlan(ctx context.Context, userID int64) (string, error) {
	p, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return fmt.Sprintf("User %d not found. Please validate your user ID first.", userID), nil
	}
	return mealplan.Synthesize(p.UserProfile), nil
}
