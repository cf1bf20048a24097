package handlers

import (
	"log/slog"
	"net/http"

	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/validation"

	"github.com/labstack/echo/v4"
)

// All handlers answer failures through the helpers below:
//
// 1. SendError - client and business rule errors (4xx)
//    - Validation: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Not found: SendError(c, errors.SubscriptionNotFound)
//    - Conflicts: SendError(c, errors.CategoryInUse, errors.WithDetails(err.Error()))
//
// 2. SendValidationError - validator.ValidationErrors from c.Validate, one detail per field
//
// 3. SendSystemError - store and unexpected errors (500). The cause is logged, never returned.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.Status(), errorResponse)
}

// SendValidationError reports each failing field of a validation error
func SendValidationError(c echo.Context, err error) error {
	fieldErrors := validation.FieldErrors(err)
	if len(fieldErrors) == 0 {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	errorResponse := errors.NewValidationError(fieldErrors, getTraceID(c))
	return c.JSON(http.StatusBadRequest, errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, cause := errors.WrapSystemError(err, traceID)

	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", cause,
	)

	return c.JSON(http.StatusInternalServerError, errorResponse)
}
