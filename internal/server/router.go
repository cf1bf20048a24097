package server

import (
	"fmt"
	"net/http"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/handlers"
	"subscription-tracker/internal/middleware"
	"subscription-tracker/internal/services"
	"subscription-tracker/internal/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// multipartOverhead leaves room for form boundaries around the uploaded file
const multipartOverhead = 64 << 10

// Dependencies holds everything the HTTP layer needs from the application
type Dependencies struct {
	DB             *gorm.DB
	Categories     services.CategoryServiceInterface
	PaymentMethods services.PaymentMethodServiceInterface
	Subscriptions  services.SubscriptionServiceInterface
	Imports        services.ImportServiceInterface
	Notifications  services.NotificationServiceInterface
	Analytics      services.AnalyticsServiceInterface
	RateLimiter    *middleware.RateLimiter

	// EventBreaker guards the event publisher; its state shows up on /health when set
	EventBreaker handlers.BreakerState

	// MetricsHandler serves /metrics. Defaults to the prometheus default registry.
	MetricsHandler http.Handler
}

// NewRouter builds the echo instance with middleware and every route registered
func NewRouter(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.GetValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.MaxUploadBytes+multipartOverhead)))

	health := handlers.NewHealthCheckHandler(deps.DB, deps.EventBreaker)
	e.GET("/", health.Root)
	e.GET("/health", health.HealthCheck)

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	api := e.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}

	categories := handlers.NewCategoryHandler(deps.Categories)
	api.GET("/categories", categories.ListCategories)
	api.POST("/categories", categories.CreateCategory)
	api.DELETE("/categories/:id", categories.DeleteCategory)

	paymentMethods := handlers.NewPaymentMethodHandler(deps.PaymentMethods)
	api.GET("/payment-methods", paymentMethods.ListPaymentMethods)
	api.POST("/payment-methods", paymentMethods.CreatePaymentMethod)
	api.DELETE("/payment-methods/:id", paymentMethods.DeletePaymentMethod)

	subscriptions := handlers.NewSubscriptionHandler(deps.Subscriptions)
	api.GET("/subscriptions", subscriptions.ListSubscriptions)
	api.POST("/subscriptions", subscriptions.CreateSubscription)
	api.GET("/subscriptions/:id", subscriptions.GetSubscription)
	api.PUT("/subscriptions/:id", subscriptions.UpdateSubscription)
	api.DELETE("/subscriptions/:id", subscriptions.DeleteSubscription)

	transactions := handlers.NewTransactionHandler(deps.Imports, cfg.Server.MaxUploadBytes)
	api.GET("/transactions", transactions.ListTransactions)
	api.POST("/transactions/import", transactions.ImportTransactions)

	notifications := handlers.NewNotificationHandler(deps.Notifications)
	api.GET("/notifications", notifications.ListNotifications)
	api.PUT("/notifications/:id/read", notifications.MarkRead)
	api.POST("/notifications/mark-all-read", notifications.MarkAllRead)

	analytics := handlers.NewAnalyticsHandler(deps.Analytics)
	api.GET("/analytics/dashboard", analytics.Dashboard)
	api.GET("/analytics/monthly", analytics.MonthlySpend)
	api.GET("/analytics/yearly", analytics.YearlySpend)
	api.GET("/analytics/by-payment-method", analytics.SpendByPaymentMethod)

	return e
}
