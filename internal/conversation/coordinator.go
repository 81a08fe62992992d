// Package conversation owns one dashboard session: the chat transcript, the
// active user binding and everything derived from it after each exchange.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/healthdash/internal/backend"
	"github.com/ashureev/healthdash/internal/domain"
	"github.com/ashureev/healthdash/internal/health"
	"github.com/ashureev/healthdash/internal/intent"
	"github.com/ashureev/healthdash/internal/mealplan"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ConnectErrorText is shown when the agent could not be reached.
const ConnectErrorText = "Error: Could not connect to the healthcare agent. Please check your connection and try again."

var (
	// ErrNotBound is returned by operations that need a bound user profile.
	ErrNotBound = errors.New("no user profile bound to this session")
	// ErrEmptyInput is returned when a quick-log value is blank.
	ErrEmptyInput = errors.New("input is empty")
)

const (
	channelChat       = "chat"
	directionOutbound = "outbound"
	directionInbound  = "inbound"
	directionInternal = "internal"

	eventUserMessage   = "chat_user_message"
	eventAgentMessage  = "chat_agent_message"
	eventSendFailed    = "chat_send_failed"
	eventIdentityBound = "identity_bound"
	eventIdentityFail  = "identity_failed"
	eventMealPlanSet   = "meal_plan_set"
)

// Options configures a Coordinator. Zero values fall back to defaults.
type Options struct {
	SessionID       string
	Logger          *slog.Logger
	ConversationLog ConversationLogger
	Tracer          trace.Tracer
	Meter           metric.Meter
	Matchers        []intent.Matcher
	Now             func() time.Time
}

// Snapshot is a point-in-time copy of a session for the render layer.
// UserID and Profile are nil unless a profile is bound.
type Snapshot struct {
	SessionID string               `json:"session_id"`
	Messages  []domain.ChatMessage `json:"messages"`
	UserID    *int64               `json:"user_id"`
	Profile   *domain.UserProfile  `json:"profile"`
	Timelines health.Timelines     `json:"timelines"`
	MealPlan  *domain.MealPlan     `json:"meal_plan"`
	Pending   int                  `json:"pending"`
}

// Bound reports whether the snapshot carries a bound profile.
func (s Snapshot) Bound() bool {
	return s.Profile != nil
}

// Coordinator reconciles chat exchanges into session state.
// Sends may overlap; each one completes independently.
type Coordinator struct {
	backend   backend.Service
	sessionID string
	logger    *slog.Logger
	convLog   ConversationLogger
	tracer    trace.Tracer
	metrics   instruments
	matchers  []intent.Matcher
	now       func() time.Time

	transcript Transcript
	pending    atomic.Int64

	mu    sync.Mutex
	state SessionState

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

// NewCoordinator creates a coordinator for one session.
func NewCoordinator(svc backend.Service, opts Options) *Coordinator {
	c := &Coordinator{
		backend:   svc,
		sessionID: opts.SessionID,
		logger:    opts.Logger,
		convLog:   opts.ConversationLog,
		tracer:    opts.Tracer,
		metrics:   newInstruments(opts.Meter),
		matchers:  opts.Matchers,
		now:       opts.Now,
		state:     newSessionState(),
		subs:      make(map[chan struct{}]struct{}),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("session_id", c.sessionID)
	if c.convLog == nil {
		c.convLog = noopConversationLogger{}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(instrumentationName)
	}
	if c.matchers == nil {
		c.matchers = intent.DefaultMatchers
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// SessionID returns the session this coordinator serves.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// Send runs one chat exchange. Blank text is ignored. Failures are reported
// as transcript entries, never returned.
//
// After a successful reply, in order: timelines are refreshed for the bound
// user, the exchange is classified for a meal plan, and any identity intent
// in text rebinds the session. That follow-up work ignores cancellation of ctx.
func (c *Coordinator) Send(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	ctx, span := c.tracer.Start(ctx, "Coordinator.Send")
	defer span.End()

	c.pending.Add(1)
	defer func() {
		c.pending.Add(-1)
		c.notify()
	}()

	c.appendMessage(text, domain.SenderUser, domain.ClassNormal)

	req := backend.ChatRequest{Message: text, SessionID: c.sessionID}
	c.mu.Lock()
	if id, ok := c.state.rawUserID(); ok {
		req.UserID = &id
	}
	c.mu.Unlock()
	userLabel := ""
	if req.UserID != nil {
		userLabel = strconv.FormatInt(*req.UserID, 10)
		span.SetAttributes(attribute.Int64("user_id", *req.UserID))
	}

	c.logEvent(userLabel, directionOutbound, eventUserMessage, text, nil)
	add(ctx, c.metrics.sends)

	start := time.Now()
	reply, err := c.backend.Chat(ctx, req)
	if err != nil {
		add(ctx, c.metrics.sendFailures)
		span.SetStatus(codes.Error, "agent unreachable")
		span.RecordError(err)
		c.logger.Warn("Agent chat failed", "user_id", userLabel, "error", err)
		c.appendMessage(ConnectErrorText, domain.SenderAgent, domain.ClassError)
		c.logEvent(userLabel, directionInbound, eventSendFailed, ConnectErrorText, map[string]any{"error": err.Error()})
		return
	}
	if c.metrics.replyLatency != nil {
		c.metrics.replyLatency.Record(ctx, time.Since(start).Seconds())
	}

	class := domain.ClassSuccess
	if reply.Failed() {
		class = domain.ClassError
	}
	c.appendMessage(reply.Text, domain.SenderAgent, class)
	c.logEvent(userLabel, directionInbound, eventAgentMessage, reply.Text, map[string]any{"status": reply.Status})

	// The reply is in the transcript; reconciling it must not depend on the caller staying around.
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	boundID, _, bound := c.state.boundUser()
	c.mu.Unlock()
	if bound {
		if err := c.refresh(ctx, boundID); err != nil {
			c.logger.Warn("Timeline refresh failed", "user_id", boundID, "error", err)
		}
	}

	c.classifyExchange(ctx, text, reply.Text)

	for _, in := range intent.Extract(text, c.matchers) {
		if in.Kind == intent.KindIdentity {
			c.bindUser(ctx, in.UserID)
		}
	}
}

// classifyExchange sets the meal plan when the exchange is a meal-plan event.
// A request whose reply is not plan-like gets a locally synthesized plan when
// a profile is bound; otherwise the reply text is the plan.
func (c *Coordinator) classifyExchange(ctx context.Context, outgoing, reply string) {
	_, requested := intent.MatchMealPlanRequest(outgoing)
	planLike := intent.IsMealPlanReply(reply)
	if !requested && !planLike {
		return
	}

	plan := domain.MealPlan{Text: reply, Source: domain.PlanAgent, CreatedAt: c.now()}

	c.mu.Lock()
	if _, profile, bound := c.state.boundUser(); requested && !planLike && bound {
		plan = mealplan.Plan(profile, c.now())
	}
	c.state.setPlan(plan)
	c.mu.Unlock()

	add(ctx, c.metrics.mealPlans, attribute.String("source", string(plan.Source)))
	c.logEvent("", directionInternal, eventMealPlanSet, "", map[string]any{"source": plan.Source})
	c.notify()
}

// bindUser fetches the profile and logs for userID and rebinds the session.
// A failed profile fetch leaves the session effectively unbound and adds an
// error entry to the transcript.
func (c *Coordinator) bindUser(ctx context.Context, userID int64) {
	ctx, span := c.tracer.Start(ctx, "Coordinator.bind", trace.WithAttributes(attribute.Int64("user_id", userID)))
	defer span.End()

	label := strconv.FormatInt(userID, 10)

	profile, err := c.backend.GetProfile(ctx, userID)
	if err != nil {
		add(ctx, c.metrics.bindFailures)
		span.SetStatus(codes.Error, "profile fetch failed")
		span.RecordError(err)
		c.logger.Warn("Profile fetch failed", "user_id", userID, "error", err)

		c.mu.Lock()
		c.state.bindFailed(userID)
		c.mu.Unlock()

		text := fmt.Sprintf("Error: Could not load the profile for user ID %d. Please try again.", userID)
		if errors.Is(err, backend.ErrProfileNotFound) {
			text = fmt.Sprintf("User ID %d not found. Please check your user ID and try again.", userID)
		}
		c.appendMessage(text, domain.SenderAgent, domain.ClassError)
		c.logEvent(label, directionInternal, eventIdentityFail, text, map[string]any{"error": err.Error()})
		return
	}

	timelines := health.Normalize(nil)
	records, err := c.backend.ListLogs(ctx, userID)
	if err != nil {
		c.logger.Warn("Log fetch failed during bind", "user_id", userID, "error", err)
	} else {
		timelines = health.Normalize(records)
	}

	c.mu.Lock()
	c.state.bind(userID, profile, timelines)
	c.mu.Unlock()

	add(ctx, c.metrics.binds)
	c.logger.Info("User bound", "user_id", userID, "logs", len(records))
	c.logEvent(label, directionInternal, eventIdentityBound, profile.Name(), nil)
	c.notify()
}

// refresh re-derives timelines for userID from a fresh log fetch.
func (c *Coordinator) refresh(ctx context.Context, userID int64) error {
	ctx, span := c.tracer.Start(ctx, "Coordinator.refresh", trace.WithAttributes(attribute.Int64("user_id", userID)))
	defer span.End()

	records, err := c.backend.ListLogs(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, "log fetch failed")
		span.RecordError(err)
		return err
	}
	timelines := health.Normalize(records)

	c.mu.Lock()
	applied := c.state.applyTimelines(userID, timelines)
	c.mu.Unlock()

	if applied {
		add(ctx, c.metrics.refreshes)
		c.notify()
	}
	return nil
}

// Refresh re-fetches logs for the bound user.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	id, _, bound := c.state.boundUser()
	c.mu.Unlock()
	if !bound {
		return ErrNotBound
	}
	if err := c.refresh(ctx, id); err != nil {
		return fmt.Errorf("refresh timelines for user %d: %w", id, err)
	}
	return nil
}

// GenerateMealPlan synthesizes a plan from the bound profile and makes it current.
func (c *Coordinator) GenerateMealPlan(ctx context.Context) (domain.MealPlan, error) {
	c.mu.Lock()
	_, profile, bound := c.state.boundUser()
	if !bound {
		c.mu.Unlock()
		return domain.MealPlan{}, ErrNotBound
	}
	plan := mealplan.Plan(profile, c.now())
	c.state.setPlan(plan)
	c.mu.Unlock()

	add(ctx, c.metrics.mealPlans, attribute.String("source", string(plan.Source)))
	c.logEvent("", directionInternal, eventMealPlanSet, "", map[string]any{"source": plan.Source})
	c.notify()
	return plan, nil
}

// LogMeal sends the quick-log phrase for a meal.
func (c *Coordinator) LogMeal(ctx context.Context, food string) error {
	return c.quickLog(ctx, food, intent.MealLogMessage)
}

// LogGlucose sends the quick-log phrase for a CGM reading.
func (c *Coordinator) LogGlucose(ctx context.Context, reading string) error {
	return c.quickLog(ctx, reading, intent.GlucoseLogMessage)
}

// LogMood sends the quick-log phrase for a mood.
func (c *Coordinator) LogMood(ctx context.Context, mood string) error {
	return c.quickLog(ctx, mood, intent.MoodLogMessage)
}

func (c *Coordinator) quickLog(ctx context.Context, value string, phrase func(string) string) error {
	c.mu.Lock()
	_, _, bound := c.state.boundUser()
	c.mu.Unlock()
	if !bound {
		return ErrNotBound
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyInput
	}
	c.Send(ctx, phrase(value))
	return nil
}

// Pending returns the number of sends still awaiting a reply.
func (c *Coordinator) Pending() int {
	return int(c.pending.Load())
}

// Snapshot returns a copy of the transcript and session state.
func (c *Coordinator) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: c.sessionID,
		Messages:  c.transcript.Messages(),
		Pending:   c.Pending(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if id, profile, bound := c.state.boundUser(); bound {
		snap.UserID = &id
		snap.Profile = &profile
	}
	t := c.state.timelines
	snap.Timelines = health.Timelines{
		Glucose: slices.Clone(t.Glucose),
		Mood:    slices.Clone(t.Mood),
		Meals:   slices.Clone(t.Meals),
	}
	if c.state.plan != nil {
		plan := *c.state.plan
		snap.MealPlan = &plan
	}
	return snap
}

// Subscribe returns a channel signalled after every state change. Signals
// coalesce: a slow reader sees one pending signal, not one per change.
// Call the returned func to unsubscribe.
func (c *Coordinator) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, ch)
			c.subsMu.Unlock()
		})
	}
}

func (c *Coordinator) notify() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (c *Coordinator) appendMessage(text string, sender domain.Sender, class domain.Classification) {
	c.transcript.Append(domain.ChatMessage{
		ID:             uuid.NewString(),
		Text:           text,
		Sender:         sender,
		Timestamp:      c.now(),
		Classification: class,
	})
	c.notify()
}

func (c *Coordinator) logEvent(userID, direction, eventType, content string, meta map[string]any) {
	c.convLog.Log(ConversationLogEvent{
		Timestamp:  c.now().UTC().Format(time.RFC3339Nano),
		UserID:     userID,
		SessionID:  c.sessionID,
		Channel:    channelChat,
		Direction:  direction,
		EventType:  eventType,
		ContentRaw: content,
		Content:    cleanForReadability(content),
		Meta:       meta,
	})
}
