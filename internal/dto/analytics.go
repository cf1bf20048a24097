package dto

import "subscription-tracker/internal/models"

// MonthlyQuery binds the monthly series window
type MonthlyQuery struct {
	Months int `query:"months" validate:"min=0,max=120"`
}

// NotificationListQuery binds the notification list filter
type NotificationListQuery struct {
	UnreadOnly bool `query:"unread_only"`
}

// NotificationListResponse wraps notifications with the unread count
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// MonthlySpendResponse wraps the monthly series
type MonthlySpendResponse struct {
	Months []models.MonthlySpend `json:"months"`
}

// YearlySpendResponse wraps the yearly series
type YearlySpendResponse struct {
	Years []models.YearlySpend `json:"years"`
}

// PaymentMethodSpendResponse wraps the per payment method breakdown
type PaymentMethodSpendResponse struct {
	PaymentMethods []models.PaymentMethodSpend `json:"payment_methods"`
}
