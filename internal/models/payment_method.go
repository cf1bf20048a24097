package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPaymentMethodNameRequired = errors.New("payment method name is required")

// PaymentMethod is a card or account label such as "Visa *1234"
type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook for PaymentMethod
func (p *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Name == "" {
		return ErrPaymentMethodNameRequired
	}
	return nil
}

// TableName returns the table name for PaymentMethod
func (p *PaymentMethod) TableName() string {
	return "payment_methods"
}
