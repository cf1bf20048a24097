package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// ErrPanicRecovered wraps the value of a recovered handler panic
var ErrPanicRecovered = stderrors.New("panic recovered")

// PanicRecovery turns a handler panic into an error for the HTTP error handler,
// which answers with SYSTEM_001 and counts it in api_errors_total.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.ErrorContext(c.Request().Context(), "Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				err = fmt.Errorf("%w: %v", ErrPanicRecovered, r)
			}()

			return next(c)
		}
	}
}
