package handlers

import (
	"net/http"
	"time"

	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Banner is served on the root path
const Banner = "Subscription Tracker API"

// BreakerState is the part of the event publisher's circuit breaker health reads
type BreakerState interface {
	GetState() services.CircuitBreakerState
}

// HealthReport is the /health body
type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Events   string `json:"events,omitempty"`
	Time     string `json:"time"`
}

type HealthCheckHandler struct {
	db      *gorm.DB
	events  BreakerState
	timeNow func() time.Time
}

// NewHealthCheckHandler creates the handler. events may be nil when no publisher is configured.
func NewHealthCheckHandler(db *gorm.DB, events BreakerState) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, events: events, timeNow: time.Now}
}

// HealthCheck pings the database. An open event breaker is reported but does
// not fail the check, since imports still succeed without events.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthReport
// @Failure 503 {object} errors.ErrorResponse "SYSTEM_003 - database unreachable"
// @Router /health [get]
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	if err := h.pingDatabase(c); err != nil {
		return SendError(c, errors.SystemServiceUnavailable, errors.WithDetails("database: "+err.Error()))
	}

	report := HealthReport{
		Status:   "healthy",
		Database: "up",
		Time:     h.timeNow().UTC().Format(time.RFC3339),
	}
	if h.events != nil {
		report.Events = h.events.GetState().String()
	}
	return c.JSON(http.StatusOK, report)
}

func (h *HealthCheckHandler) pingDatabase(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request().Context())
}

// Root serves the API banner
// @Router / [get]
func (h *HealthCheckHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": Banner})
}
