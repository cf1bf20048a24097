package services

import (
	"context"
	"io"
	"time"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/importer"
	"subscription-tracker/internal/models"

	"github.com/google/uuid"
)

// CategoryServiceInterface defines category management and merchant categorization
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// CategorizeMerchant returns the first keyword rule contained in the merchant, or the fallback rule
	CategorizeMerchant(merchant string) CategoryMatch

	// ResolveCategory categorizes the merchant and returns the persisted category, creating it if needed
	ResolveCategory(ctx context.Context, merchant string) (*models.Category, error)
}

// PaymentMethodServiceInterface defines payment method management
type PaymentMethodServiceInterface interface {
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, req *dto.CreatePaymentMethodRequest) (*models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id uuid.UUID) error
}

// SubscriptionServiceInterface defines manual subscription management
type SubscriptionServiceInterface interface {
	ListSubscriptions(ctx context.Context, filters models.SubscriptionFilters) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id uuid.UUID, req *dto.UpdateSubscriptionRequest) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}

// ReconcilerInterface turns merchant groups into linked subscriptions
type ReconcilerInterface interface {
	// Reconcile classifies each merchant group of transactions and either links it to an
	// existing subscription or creates a new one. It returns only newly created subscriptions.
	Reconcile(ctx context.Context, transactions []models.Transaction) ([]models.Subscription, error)
}

// NotificationServiceInterface defines alert generation and management
type NotificationServiceInterface interface {
	// SweepUpcoming creates one unread "Upcoming Payment" alert per active subscription due in the window
	SweepUpcoming(ctx context.Context) (int, error)
	ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

// ImportServiceInterface defines transaction ingestion
type ImportServiceInterface interface {
	ImportRows(ctx context.Context, rows []importer.Row) (*models.ImportSummary, error)
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportSummary, error)
	ListTransactions(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error)
}

// AnalyticsServiceInterface defines the read-side aggregations
type AnalyticsServiceInterface interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	CategoryBreakdown(ctx context.Context) ([]models.CategorySummary, error)
	MonthlySpend(ctx context.Context, months int) ([]models.MonthlySpend, error)
	YearlySpend(ctx context.Context) ([]models.YearlySpend, error)
	SpendByPaymentMethod(ctx context.Context) ([]models.PaymentMethodSpend, error)
}

// EventPublisherInterface publishes domain events to downstream consumers
type EventPublisherInterface interface {
	PublishSubscriptionDetected(ctx context.Context, subscription *models.Subscription) error
	Close() error
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type EngineLoggerInterface interface {
	LogImportStarted(ctx context.Context, rows int)
	LogImportCompleted(ctx context.Context, imported, skipped, detected int, durationMs int64)
	LogRowSkipped(ctx context.Context, line int, reason string)
	LogGroupRejected(ctx context.Context, merchant string, size int, reason string)
	LogGroupLinked(ctx context.Context, merchant string, subscriptionID uuid.UUID, linked int)
	LogSubscriptionDetected(ctx context.Context, subscription *models.Subscription, linked int)
	LogUpcomingPaymentAlert(ctx context.Context, subscriptionID uuid.UUID, daysUntil int)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
	LogEventPublishFailed(ctx context.Context, event string, errorMsg string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() CircuitBreakerState
	Reset()
	GetFailureCount() int
}
