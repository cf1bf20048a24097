package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BillingCycleMonthly   = "monthly"
	BillingCycleQuarterly = "quarterly"
	BillingCycleYearly    = "yearly"

	DefaultCurrency = "GBP"

	// AmountScale is the number of decimal places kept for a subscription amount.
	// Detected amounts are group means, which need more than cents.
	AmountScale = 8
)

var (
	ErrSubscriptionNameRequired  = errors.New("subscription name is required")
	ErrInvalidSubscriptionAmount = errors.New("subscription amount must be positive")
	ErrInvalidBillingCycle       = errors.New("invalid billing cycle")
	ErrInvalidCurrency           = errors.New("currency must be a 3-letter code")
)

// Subscription is a recurring charge, either entered manually or detected from transactions
type Subscription struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	BillingCycle    string          `gorm:"type:varchar(20);not null" json:"billing_cycle"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid;index" json:"payment_method_id,omitempty"`
	StartDate       time.Time       `gorm:"type:date;not null" json:"start_date"`
	NextBillingDate *time.Time      `gorm:"type:date;index" json:"next_billing_date,omitempty"`
	IsActive        bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

// BeforeCreate hook for Subscription
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}

	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	return s.Validate()
}

// BeforeUpdate hook for Subscription
func (s *Subscription) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now().UTC()
	return s.Validate()
}

// Validate validates the subscription fields
func (s *Subscription) Validate() error {
	if s.Name == "" {
		return ErrSubscriptionNameRequired
	}
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidSubscriptionAmount
	}
	if !IsValidBillingCycle(s.BillingCycle) {
		return ErrInvalidBillingCycle
	}
	if len(s.Currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// IsDueWithin reports whether the next billing date falls in [from, to]
func (s *Subscription) IsDueWithin(from, to time.Time) bool {
	if !s.IsActive || s.NextBillingDate == nil {
		return false
	}
	due := DateOnly(*s.NextBillingDate)
	return !due.Before(DateOnly(from)) && !due.After(DateOnly(to))
}

// TableName returns the table name for Subscription
func (s *Subscription) TableName() string {
	return "subscriptions"
}

// IsValidBillingCycle checks if the billing cycle is one of the supported cadences
func IsValidBillingCycle(cycle string) bool {
	switch cycle {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return true
	default:
		return false
	}
}

// AllBillingCycles returns the supported cadences
func AllBillingCycles() []string {
	return []string{BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly}
}
