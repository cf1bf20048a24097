package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the envelope every failed API call returns
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes a response built by NewErrorResponse
type ErrorOption func(*ErrorResponse)

func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage replaces the catalogue message for the code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the envelope for code with its catalogue message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError renders field errors as "field: message" details, sorted by field
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, fieldErrors[field]))
	}

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind SYSTEM_001. The cause is handed back for logging.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// GetHTTPStatus maps an error code to its response status. Unknown codes are 500.
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationOutOfRange, ValidationInvalidDate, ValidationInvalidID,
		SubscriptionInvalidAmount, SubscriptionInvalidCycle, TransactionInvalidAmount,
		ImportMissingFile, ImportInvalidFileType, ImportMalformedCSV, ImportMissingColumns:
		return http.StatusBadRequest

	case CategoryNotFound, PaymentMethodNotFound, SubscriptionNotFound,
		TransactionNotFound, NotificationNotFound, SystemRouteNotFound:
		return http.StatusNotFound

	// duplicates and deletes blocked by references
	case CategoryAlreadyExists, PaymentMethodAlreadyExists, CategoryInUse, PaymentMethodInUse:
		return http.StatusConflict

	case ImportFileTooLarge:
		return http.StatusRequestEntityTooLarge

	// well-formed request naming a category or payment method that does not exist
	case SubscriptionReferenceNotFound:
		return http.StatusUnprocessableEntity

	case SystemRateLimitExceeded:
		return http.StatusTooManyRequests

	case SystemServiceUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// Status returns the HTTP status for the response's code
func (er *ErrorResponse) Status() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
