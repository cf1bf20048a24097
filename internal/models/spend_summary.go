package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the read model behind the dashboard view
type DashboardStats struct {
	ActiveSubscriptions int64             `json:"active_subscriptions"`
	MonthlySpend        decimal.Decimal   `json:"monthly_spend"`
	YearlySpend         decimal.Decimal   `json:"yearly_spend"`
	Currency            string            `json:"currency"`
	CategoryBreakdown   []CategorySummary `json:"category_breakdown"`
	RecentTransactions  []Transaction     `json:"recent_transactions"`
	UnreadNotifications int64             `json:"unread_notifications"`
}

// MonthlySpend is the absolute spend for one YYYY-MM bucket
type MonthlySpend struct {
	Month    string          `json:"month"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// YearlySpend is the absolute spend for one calendar year
type YearlySpend struct {
	Year     int             `json:"year"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// PaymentMethodSpend is the absolute spend attributed to a payment method
type PaymentMethodSpend struct {
	PaymentMethodID  uuid.UUID       `json:"payment_method_id"`
	Name             string          `json:"name"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int64           `json:"transaction_count"`
	Currency         string          `json:"currency"`
}

// ImportSummary reports the outcome of one import batch
type ImportSummary struct {
	Message               string         `json:"message"`
	Count                 int            `json:"count"`
	Skipped               int            `json:"skipped"`
	SubscriptionsDetected int            `json:"subscriptions_detected"`
	Subscriptions         []Subscription `json:"subscriptions,omitempty"`
}
