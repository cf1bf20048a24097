package dto

import "subscription-tracker/internal/models"

// PaginationQuery binds skip/limit query parameters
type PaginationQuery struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

// TransactionListResponse represents a page of transactions, newest first
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Skip         int                  `json:"skip"`
	Limit        int                  `json:"limit"`
}

// ImportResponse is returned after a CSV upload
type ImportResponse struct {
	Message               string                `json:"message"`
	Count                 int                   `json:"count"`
	Skipped               int                   `json:"skipped"`
	SubscriptionsDetected int                   `json:"subscriptions_detected"`
	Subscriptions         []models.Subscription `json:"subscriptions"`
}

// NewImportResponse converts an import summary into its API shape
func NewImportResponse(summary *models.ImportSummary) ImportResponse {
	subs := summary.Subscriptions
	if subs == nil {
		subs = []models.Subscription{}
	}
	return ImportResponse{
		Message:               summary.Message,
		Count:                 summary.Count,
		Skipped:               summary.Skipped,
		SubscriptionsDetected: summary.SubscriptionsDetected,
		Subscriptions:         subs,
	}
}
