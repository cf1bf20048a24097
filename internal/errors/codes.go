package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
	ValidationInvalidID     ErrorCode = "VALIDATION_006"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound      ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists ErrorCode = "CATEGORY_002"
	CategoryInUse         ErrorCode = "CATEGORY_003"
)

// Payment method error codes (PAYMENT_METHOD_*)
const (
	PaymentMethodNotFound      ErrorCode = "PAYMENT_METHOD_001"
	PaymentMethodAlreadyExists ErrorCode = "PAYMENT_METHOD_002"
	PaymentMethodInUse         ErrorCode = "PAYMENT_METHOD_003"
)

// Subscription error codes (SUBSCRIPTION_*)
const (
	SubscriptionNotFound          ErrorCode = "SUBSCRIPTION_001"
	SubscriptionInvalidAmount     ErrorCode = "SUBSCRIPTION_002"
	SubscriptionInvalidCycle      ErrorCode = "SUBSCRIPTION_003"
	SubscriptionReferenceNotFound ErrorCode = "SUBSCRIPTION_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
)

// Notification error codes (NOTIFICATION_*)
const (
	NotificationNotFound ErrorCode = "NOTIFICATION_001"
)

// Import error codes (IMPORT_*)
const (
	ImportMissingFile     ErrorCode = "IMPORT_001"
	ImportInvalidFileType ErrorCode = "IMPORT_002"
	ImportMalformedCSV    ErrorCode = "IMPORT_003"
	ImportMissingColumns  ErrorCode = "IMPORT_004"
	ImportFileTooLarge    ErrorCode = "IMPORT_005"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationInvalidID:     "Invalid identifier format",

	// Category errors
	CategoryNotFound:      "Category not found",
	CategoryAlreadyExists: "Category already exists",
	CategoryInUse:         "Category is used by one or more subscriptions",

	// Payment method errors
	PaymentMethodNotFound:      "Payment method not found",
	PaymentMethodAlreadyExists: "Payment method already exists",
	PaymentMethodInUse:         "Payment method is used by subscriptions or transactions",

	// Subscription errors
	SubscriptionNotFound:          "Subscription not found",
	SubscriptionInvalidAmount:     "Subscription amount must be greater than zero",
	SubscriptionInvalidCycle:      "Billing cycle must be monthly, quarterly or yearly",
	SubscriptionReferenceNotFound: "Referenced category or payment method does not exist",

	// Transaction errors
	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",

	// Notification errors
	NotificationNotFound: "Notification not found",

	// Import errors
	ImportMissingFile:     "A CSV file is required",
	ImportInvalidFileType: "File must be a CSV",
	ImportMalformedCSV:    "CSV file could not be parsed",
	ImportMissingColumns:  "CSV must contain date, description and amount columns",
	ImportFileTooLarge:    "CSV file exceeds the maximum upload size",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
