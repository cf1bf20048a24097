package models

import "time"

// TransactionFilters contains filtering options for transaction queries
type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Merchant  string
	Offset    int
	Limit     int
}

// SubscriptionFilters contains filtering options for subscription queries
type SubscriptionFilters struct {
	IsActive *bool
	Offset   int
	Limit    int
}

// NotificationFilters contains filtering options for notification queries
type NotificationFilters struct {
	UnreadOnly bool
}
