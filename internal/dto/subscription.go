package dto

import (
	"subscription-tracker/internal/models"
)

// Subscription Request DTOs

// CreateSubscriptionRequest represents the request payload for manually adding a subscription.
// Dates use the YYYY-MM-DD layout and amounts are decimal strings.
type CreateSubscriptionRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=255"`
	Description     string  `json:"description" validate:"max=1000"`
	Amount          string  `json:"amount" validate:"required,money_amount"`
	Currency        string  `json:"currency" validate:"omitempty,currency_code"`
	BillingCycle    string  `json:"billing_cycle" validate:"required,billing_cycle"`
	CategoryID      *string `json:"category_id" validate:"omitempty,uuid"`
	PaymentMethodID *string `json:"payment_method_id" validate:"omitempty,uuid"`
	StartDate       string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	NextBillingDate *string `json:"next_billing_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive        *bool   `json:"is_active"`
}

// UpdateSubscriptionRequest represents a partial update; nil fields are left unchanged.
// An empty category_id, payment_method_id or next_billing_date clears the value.
type UpdateSubscriptionRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	Amount          *string `json:"amount" validate:"omitempty,money_amount"`
	Currency        *string `json:"currency" validate:"omitempty,currency_code"`
	BillingCycle    *string `json:"billing_cycle" validate:"omitempty,billing_cycle"`
	CategoryID      *string `json:"category_id" validate:"omitempty,uuid|eq="`
	PaymentMethodID *string `json:"payment_method_id" validate:"omitempty,uuid|eq="`
	StartDate       *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	NextBillingDate *string `json:"next_billing_date" validate:"omitempty,datetime=2006-01-02|eq="`
	IsActive        *bool   `json:"is_active"`
}

// ListSubscriptionsQuery binds the subscription list query string
type ListSubscriptionsQuery struct {
	IsActive string `query:"is_active" validate:"omitempty,boolean"`
	Skip     int    `query:"skip" validate:"min=0"`
	Limit    int    `query:"limit" validate:"min=0,max=1000"`
}

// Subscription Response DTOs

// SubscriptionListResponse represents a page of subscriptions
type SubscriptionListResponse struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
	Skip          int                   `json:"skip"`
	Limit         int                   `json:"limit"`
}
