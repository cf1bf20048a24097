package handlers

import (
	"net/http"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the spend aggregations
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServiceInterface
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService services.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard returns the headline figures. Reading it also runs the upcoming payment sweep.
// @Summary Dashboard
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	stats, err := h.analyticsService.Dashboard(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// MonthlySpend returns spend per calendar month, oldest first
// @Summary Monthly spend
// @Tags Analytics
// @Param months query int false "Months to include (default 12)"
// @Success 200 {object} dto.MonthlySpendResponse
// @Router /analytics/monthly [get]
func (h *AnalyticsHandler) MonthlySpend(c echo.Context) error {
	var query dto.MonthlyQuery
	if ok, err := bindAndValidate(c, &query); !ok {
		return err
	}
	if query.Months == 0 {
		query.Months = services.DefaultSeriesMonths
	}

	months, err := h.analyticsService.MonthlySpend(c.Request().Context(), query.Months)
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MonthlySpendResponse{Months: months})
}

// YearlySpend returns spend per calendar year
// @Summary Yearly spend
// @Tags Analytics
// @Success 200 {object} dto.YearlySpendResponse
// @Router /analytics/yearly [get]
func (h *AnalyticsHandler) YearlySpend(c echo.Context) error {
	years, err := h.analyticsService.YearlySpend(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, dto.YearlySpendResponse{Years: years})
}

// SpendByPaymentMethod returns spend grouped by payment method
// @Summary Spend by payment method
// @Tags Analytics
// @Success 200 {object} dto.PaymentMethodSpendResponse
// @Router /analytics/by-payment-method [get]
func (h *AnalyticsHandler) SpendByPaymentMethod(c echo.Context) error {
	methods, err := h.analyticsService.SpendByPaymentMethod(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PaymentMethodSpendResponse{PaymentMethods: methods})
}
