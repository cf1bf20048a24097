package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/services"
	"subscription-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AnalyticsHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockAnalyticsServiceInterface
	handler     *AnalyticsHandler
	echo        *echo.Echo
}

func (s *AnalyticsHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockAnalyticsServiceInterface(s.ctrl)
	s.handler = NewAnalyticsHandler(s.mockService)
	s.echo = newTestEcho()
}

func (s *AnalyticsHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAnalyticsHandlerSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlerSuite))
}

func (s *AnalyticsHandlerSuite) TestDashboard() {
	s.mockService.EXPECT().Dashboard(gomock.Any()).Return(&models.DashboardStats{
		ActiveSubscriptions: 2,
		MonthlySpend:        decimal.RequireFromString("45.50"),
		Currency:            "GBP",
	}, nil)

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/analytics/dashboard", nil)
	s.NoError(s.handler.Dashboard(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp models.DashboardStats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(2), resp.ActiveSubscriptions)
	s.True(decimal.RequireFromString("45.5").Equal(resp.MonthlySpend))
}

func (s *AnalyticsHandlerSuite) TestDashboard_Failure() {
	s.mockService.EXPECT().Dashboard(gomock.Any()).Return(nil, fmt.Errorf("boom"))

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/analytics/dashboard", nil)
	s.NoError(s.handler.Dashboard(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *AnalyticsHandlerSuite) TestMonthlySpend() {
	s.mockService.EXPECT().MonthlySpend(gomock.Any(), services.DefaultSeriesMonths).
		Return([]models.MonthlySpend{{Month: "2024-01", Total: decimal.RequireFromString("15.99"), Currency: "GBP"}}, nil)

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/analytics/monthly", nil)
	s.NoError(s.handler.MonthlySpend(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.MonthlySpendResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Months, 1)
	s.Equal("2024-01", resp.Months[0].Month)

	s.mockService.EXPECT().MonthlySpend(gomock.Any(), 6).Return([]models.MonthlySpend{}, nil)
	c, rec = newJSONContext(s.echo, http.MethodGet, "/api/analytics/monthly?months=6", nil)
	s.NoError(s.handler.MonthlySpend(c))
	s.Equal(http.StatusOK, rec.Code)

	c, rec = newJSONContext(s.echo, http.MethodGet, "/api/analytics/monthly?months=500", nil)
	s.NoError(s.handler.MonthlySpend(c))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AnalyticsHandlerSuite) TestYearlyAndPaymentMethods() {
	s.mockService.EXPECT().YearlySpend(gomock.Any()).Return([]models.YearlySpend{}, nil)
	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/analytics/yearly", nil)
	s.NoError(s.handler.YearlySpend(c))
	s.Equal(http.StatusOK, rec.Code)

	s.mockService.EXPECT().SpendByPaymentMethod(gomock.Any()).Return([]models.PaymentMethodSpend{}, nil)
	c, rec = newJSONContext(s.echo, http.MethodGet, "/api/analytics/by-payment-method", nil)
	s.NoError(s.handler.SpendByPaymentMethod(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"payment_methods":[]}`, rec.Body.String())
}
