package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "API errors answered by the error handler, by code, route and status",
	},
	[]string{"code", "endpoint", "status"},
)

// CustomHTTPErrorHandler renders errors that escape the handlers in the standard
// envelope: unknown routes, bind failures, body limits and recovered panics.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	response, status := resolveError(err, traceID)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "request failed",
		"trace_id", traceID,
		"error_code", response.Error.Code,
		"status", status,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err.Error(),
	)

	route := c.Path()
	if route == "" {
		route = "unmatched"
	}
	apiErrorsTotal.WithLabelValues(response.Error.Code, route, strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, response); sendErr != nil {
		slog.Error("failed to send error response", "trace_id", traceID, "error", sendErr)
	}
}

func resolveError(err error, traceID string) (*errors.ErrorResponse, int) {
	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case stderrors.As(err, &validationErrs):
		return errors.NewValidationError(validation.FieldErrors(validationErrs), traceID), http.StatusBadRequest

	case stderrors.As(err, &echoErr):
		code := mapHTTPStatusToErrorCode(echoErr.Code)
		var opts []errors.ErrorOption
		// routing misses keep the catalogue text; binder messages are worth passing on
		if code == errors.ValidationGeneral || code == errors.SystemUnexpectedError {
			opts = append(opts, errors.WithDetails(fmt.Sprint(echoErr.Message)))
		}
		return errors.NewErrorResponse(code, traceID, opts...), echoErr.Code

	default:
		response, _ := errors.WrapSystemError(err, traceID)
		return response, response.Status()
	}
}

func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnsupportedMediaType,
		http.StatusUnprocessableEntity:
		return errors.ValidationGeneral
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusRequestEntityTooLarge:
		return errors.ImportFileTooLarge
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}
