package services

import (
	"context"
	"log/slog"
	"time"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
)

type EngineLogger struct {
	logger *slog.Logger
}

func NewEngineLogger(logger *slog.Logger) EngineLoggerInterface {
	return &EngineLogger{
		logger: logger,
	}
}

func (el *EngineLogger) LogImportStarted(ctx context.Context, rows int) {
	el.logger.InfoContext(ctx, "import started",
		slog.String("event_type", "import_started"),
		slog.Int("rows", rows),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogImportCompleted(ctx context.Context, imported, skipped, detected int, durationMs int64) {
	el.logger.InfoContext(ctx, "import completed",
		slog.String("event_type", "import_completed"),
		slog.Int("imported", imported),
		slog.Int("skipped", skipped),
		slog.Int("subscriptions_detected", detected),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogRowSkipped(ctx context.Context, line int, reason string) {
	el.logger.WarnContext(ctx, "import row skipped",
		slog.String("event_type", "import_row_skipped"),
		slog.Int("line", line),
		slog.String("reason", reason),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogGroupRejected(ctx context.Context, merchant string, size int, reason string) {
	el.logger.DebugContext(ctx, "merchant group rejected",
		slog.String("event_type", "group_rejected"),
		slog.String("merchant", merchant),
		slog.Int("transactions", size),
		slog.String("reason", reason),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogGroupLinked(ctx context.Context, merchant string, subscriptionID uuid.UUID, linked int) {
	el.logger.InfoContext(ctx, "merchant group linked to existing subscription",
		slog.String("event_type", "group_linked"),
		slog.String("merchant", merchant),
		slog.String("subscription_id", subscriptionID.String()),
		slog.Int("linked", linked),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogSubscriptionDetected(ctx context.Context, subscription *models.Subscription, linked int) {
	el.logger.InfoContext(ctx, "subscription detected",
		slog.String("event_type", "subscription_detected"),
		slog.String("subscription_id", subscription.ID.String()),
		slog.String("name", subscription.Name),
		slog.String("amount", subscription.Amount.StringFixed(2)),
		slog.String("billing_cycle", subscription.BillingCycle),
		slog.Int("linked", linked),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogUpcomingPaymentAlert(ctx context.Context, subscriptionID uuid.UUID, daysUntil int) {
	el.logger.InfoContext(ctx, "upcoming payment alert created",
		slog.String("event_type", "upcoming_payment_alert"),
		slog.String("subscription_id", subscriptionID.String()),
		slog.Int("days_until", daysUntil),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	el.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (el *EngineLogger) LogEventPublishFailed(ctx context.Context, event string, errorMsg string) {
	el.logger.WarnContext(ctx, "event publish failed",
		slog.String("event_type", "event_publish_failed"),
		slog.String("event", event),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

// correlationKey mirrors the context keys set by the request ID middleware
type correlationKey string

const (
	CorrelationIDKey correlationKey = "correlation_id"
	RequestIDKey     correlationKey = "request_id"
)

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}

	return ""
}

// WithCorrelationID returns a copy of ctx carrying id for engine log records
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}
