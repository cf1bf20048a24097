package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscription-tracker/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.HTTPErrorHandler = CustomHTTPErrorHandler
	s.echo.Use(RequestID(), PanicRecovery())
}

func (s *PanicRecoveryTestSuite) do(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set(TraceIDHeader, "upload-7")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *PanicRecoveryTestSuite) TestPanicBecomesSystemError() {
	s.echo.POST("/api/import", func(c echo.Context) error {
		var rows []string
		_ = rows[3]
		return nil
	})

	rec := s.do("/api/import")

	s.Equal(http.StatusInternalServerError, rec.Code)
	var body errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(string(errors.SystemInternalError), body.Error.Code)
	s.Equal("upload-7", body.Error.TraceID)
	s.NotContains(rec.Body.String(), "index out of range")
}

func (s *PanicRecoveryTestSuite) TestPanicValues() {
	values := map[string]any{
		"string": "boom",
		"error":  stderrors.New("boom"),
		"int":    42,
		"nil":    nil,
	}

	for name, value := range values {
		s.Run(name, func() {
			handler := PanicRecovery()(func(echo.Context) error { panic(value) })
			c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			var err error
			s.NotPanics(func() { err = handler(c) })
			s.ErrorIs(err, ErrPanicRecovered)
		})
	}
}

func (s *PanicRecoveryTestSuite) TestPassesThroughWithoutPanic() {
	s.echo.GET("/api/subscriptions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	rec := httptest.NewRecorder()

	s.echo.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *PanicRecoveryTestSuite) TestHandlerErrorIsNotWrapped() {
	handler := PanicRecovery()(func(echo.Context) error {
		return echo.ErrNotFound
	})
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := handler(c)

	s.Equal(echo.ErrNotFound, err)
	s.NotErrorIs(err, ErrPanicRecovered)
}
