package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionDescriptionRequired = errors.New("transaction description is required")
	ErrTransactionDateRequired        = errors.New("transaction date is required")
	ErrMatchedWithoutSubscription     = errors.New("matched transaction must reference a subscription")
)

// Transaction is a single imported statement line. Negative amounts are outflows.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Date            time.Time       `gorm:"type:date;not null;index" json:"date"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	Merchant        string          `gorm:"type:varchar(255);index" json:"merchant,omitempty"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid;index" json:"payment_method_id,omitempty"`
	RawData         RawRow          `gorm:"type:text" json:"raw_data,omitempty"`
	SubscriptionID  *uuid.UUID      `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	IsMatched       bool            `gorm:"not null;index" json:"is_matched"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`

	// Associations
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Date = DateOnly(t.Date)

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrTransactionDateRequired
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrTransactionDescriptionRequired
	}
	if len(t.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if t.IsMatched && (t.SubscriptionID == nil || *t.SubscriptionID == uuid.Nil) {
		return ErrMatchedWithoutSubscription
	}
	return nil
}

// HasMerchant reports whether the transaction carries a merchant label
func (t *Transaction) HasMerchant() bool {
	return t.Merchant != ""
}

// AbsAmount returns the magnitude of the transaction amount
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// LinkTo marks the transaction as belonging to a subscription
func (t *Transaction) LinkTo(subscriptionID uuid.UUID) {
	id := subscriptionID
	t.SubscriptionID = &id
	t.IsMatched = true
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// MerchantFromDescription returns the first whitespace-separated token of a description
func MerchantFromDescription(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
