package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeInfo    = "info"
	NotificationTypeWarning = "warning"
	NotificationTypeAlert   = "alert"
	NotificationTypeSuccess = "success"

	NotificationTitleNewSubscription = "New Subscription Detected"
	NotificationTitleUpcomingPayment = "Upcoming Payment"
)

var (
	ErrNotificationTitleRequired = errors.New("notification title is required")
	ErrInvalidNotificationType   = errors.New("invalid notification type")
)

// Notification is a user-facing alert derived from subscription state
type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title          string     `gorm:"type:varchar(255);not null;index" json:"title"`
	Message        string     `gorm:"type:text;not null" json:"message"`
	Type           string     `gorm:"type:varchar(20);not null" json:"type"`
	IsRead         bool       `gorm:"not null;index" json:"is_read"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate hook for Notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Type == "" {
		n.Type = NotificationTypeInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return n.Validate()
}

// Validate validates the notification fields
func (n *Notification) Validate() error {
	if n.Title == "" {
		return ErrNotificationTitleRequired
	}
	if !IsValidNotificationType(n.Type) {
		return ErrInvalidNotificationType
	}
	return nil
}

// TableName returns the table name for Notification
func (n *Notification) TableName() string {
	return "notifications"
}

// IsValidNotificationType checks if the notification type is valid
func IsValidNotificationType(notificationType string) bool {
	switch notificationType {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeAlert, NotificationTypeSuccess:
		return true
	default:
		return false
	}
}
