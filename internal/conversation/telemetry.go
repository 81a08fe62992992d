package conversation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ashureev/healthdash/internal/conversation"

type instruments struct {
	sends        metric.Int64Counter
	sendFailures metric.Int64Counter
	binds        metric.Int64Counter
	bindFailures metric.Int64Counter
	refreshes    metric.Int64Counter
	mealPlans    metric.Int64Counter
	replyLatency metric.Float64Histogram
}

func newInstruments(meter metric.Meter) instruments {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	var in instruments
	in.sends, _ = meter.Int64Counter("healthdash_chat_sends_total",
		metric.WithDescription("Chat messages sent to the agent"))
	in.sendFailures, _ = meter.Int64Counter("healthdash_chat_send_failures_total",
		metric.WithDescription("Chat sends that failed to reach the agent"))
	in.binds, _ = meter.Int64Counter("healthdash_identity_binds_total",
		metric.WithDescription("Successful user id bindings"))
	in.bindFailures, _ = meter.Int64Counter("healthdash_identity_bind_failures_total",
		metric.WithDescription("User id bindings whose profile fetch failed"))
	in.refreshes, _ = meter.Int64Counter("healthdash_timeline_refreshes_total",
		metric.WithDescription("Timeline refreshes applied to a session"))
	in.mealPlans, _ = meter.Int64Counter("healthdash_meal_plans_total",
		metric.WithDescription("Meal plans set on a session"))
	in.replyLatency, _ = meter.Float64Histogram("healthdash_agent_reply_seconds",
		metric.WithDescription("Time from send to agent reply"),
		metric.WithUnit("s"))
	return in
}

// add increments c when it was created. Counter creation errors leave the field nil.
func add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
