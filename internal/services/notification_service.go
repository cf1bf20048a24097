package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

const DefaultUpcomingWindowDays = 7

type notificationService struct {
	store      repositories.Store
	windowDays int
	metrics    MetricsRecorderInterface
	engineLog  EngineLoggerInterface
	now        func() time.Time
}

// NewNotificationService creates the notification service. windowDays bounds the
// upcoming-payment sweep; a negative value uses the default.
func NewNotificationService(
	store repositories.Store,
	windowDays int,
	metrics MetricsRecorderInterface,
	engineLog EngineLoggerInterface,
) NotificationServiceInterface {
	if windowDays < 0 {
		windowDays = DefaultUpcomingWindowDays
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if engineLog == nil {
		engineLog = NewEngineLogger(slog.Default())
	}
	return &notificationService{
		store:      store,
		windowDays: windowDays,
		metrics:    metrics,
		engineLog:  engineLog,
		now:        time.Now,
	}
}

// SweepUpcoming alerts on active subscriptions due within [today, today+window].
// A subscription that already has an unread upcoming alert is skipped.
func (s *notificationService) SweepUpcoming(ctx context.Context) (int, error) {
	today := models.DateOnly(s.now())
	until := today.AddDate(0, 0, s.windowDays)

	due, err := s.store.Subscriptions().ListDueBetween(today, until)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming subscriptions: %w", err)
	}

	created := 0
	for _, subscription := range due {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		exists, err := s.store.Notifications().HasUnread(subscription.ID, models.NotificationTitleUpcomingPayment)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		days := models.DaysBetween(today, *subscription.NextBillingDate)
		subscriptionID := subscription.ID
		notification := &models.Notification{
			Title:          models.NotificationTitleUpcomingPayment,
			Message:        UpcomingPaymentMessage(subscription.Name, subscription.Amount.StringFixed(2), days),
			Type:           models.NotificationTypeWarning,
			SubscriptionID: &subscriptionID,
		}
		if err := s.store.Notifications().Create(notification); err != nil {
			return created, err
		}

		created++
		s.metrics.IncrementCounter("notification.created", map[string]string{"type": models.NotificationTypeWarning})
		s.engineLog.LogUpcomingPaymentAlert(ctx, subscription.ID, days)
	}

	return created, nil
}

// UpcomingPaymentMessage formats "<name> - £<amount> due in <n> day|days"
func UpcomingPaymentMessage(name, amount string, days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s - £%s due in %d %s", name, amount, days, unit)
}

func (s *notificationService) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	notifications, err := s.store.Notifications().List(models.NotificationFilters{UnreadOnly: unreadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Notifications().MarkRead(id); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	count, err := s.store.Notifications().MarkAllRead()
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) CountUnread(ctx context.Context) (int64, error) {
	count, err := s.store.Notifications().CountUnread()
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
