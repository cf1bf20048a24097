package app

import (
	"context"
	"log/slog"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/events"
	"subscription-tracker/internal/middleware"
	"subscription-tracker/internal/repositories"
	"subscription-tracker/internal/server"
	"subscription-tracker/internal/services"

	"gorm.io/gorm"
)

const eventsService = "amqp"

// Options overrides the collaborators New would otherwise default
type Options struct {
	Logger    *slog.Logger
	Metrics   services.MetricsRecorderInterface
	Publisher services.EventPublisherInterface
}

// App is the assembled service graph shared by every command
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Store     repositories.Store
	Metrics   services.MetricsRecorderInterface
	Publisher services.EventPublisherInterface
	Breaker   *services.CircuitBreaker

	Categories     services.CategoryServiceInterface
	PaymentMethods services.PaymentMethodServiceInterface
	Subscriptions  services.SubscriptionServiceInterface
	Reconciler     services.ReconcilerInterface
	Notifications  services.NotificationServiceInterface
	Imports        services.ImportServiceInterface
	Analytics      services.AnalyticsServiceInterface
}

// New wires repositories and services on top of db
func New(cfg *config.Config, db *gorm.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = services.NoopMetrics{}
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	engineLog := services.NewEngineLogger(logger)
	store := repositories.NewStore(db)
	currency := cfg.Detection.DefaultCurrency

	breaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	breaker.OnStateChange(func(from, to services.CircuitBreakerState) {
		engineLog.LogCircuitBreakerStateChange(context.Background(), eventsService, from.String(), to.String())
		metrics.RecordGauge("circuit_breaker.state", float64(to), map[string]string{"service": eventsService})
	})

	categories := services.NewCategoryService(store, cfg.Detection.CategoryRules)
	notifications := services.NewNotificationService(store, cfg.Detection.UpcomingWindowDays, metrics, engineLog)
	reconciler := services.NewReconciler(
		store,
		services.NewCadenceClassifier(cfg.Detection.AmountTolerance),
		categories,
		publisher,
		breaker,
		metrics,
		engineLog,
	)

	return &App{
		Config:         cfg,
		DB:             db,
		Store:          store,
		Metrics:        metrics,
		Publisher:      publisher,
		Breaker:        breaker,
		Categories:     categories,
		PaymentMethods: services.NewPaymentMethodService(store),
		Subscriptions:  services.NewSubscriptionService(store, currency),
		Reconciler:     reconciler,
		Notifications:  notifications,
		Imports:        services.NewImportService(store, reconciler, notifications, metrics, engineLog, currency),
		Analytics:      services.NewAnalyticsService(store, notifications, metrics, currency),
	}
}

// RouterDependencies exposes the services to the HTTP layer
func (a *App) RouterDependencies(limiter *middleware.RateLimiter) server.Dependencies {
	return server.Dependencies{
		DB:             a.DB,
		Categories:     a.Categories,
		PaymentMethods: a.PaymentMethods,
		Subscriptions:  a.Subscriptions,
		Imports:        a.Imports,
		Notifications:  a.Notifications,
		Analytics:      a.Analytics,
		RateLimiter:    limiter,
		EventBreaker:   a.Breaker,
	}
}

// Close releases the event publisher
func (a *App) Close() error {
	return a.Publisher.Close()
}
