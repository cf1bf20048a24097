package dto

import "subscription-tracker/internal/models"

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hex_color"`
}

// CreatePaymentMethodRequest represents the request payload for creating a payment method
type CreatePaymentMethodRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryListResponse wraps the category collection
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// PaymentMethodListResponse wraps the payment method collection
type PaymentMethodListResponse struct {
	PaymentMethods []models.PaymentMethod `json:"payment_methods"`
}

// MessageResponse is returned by delete and bulk update endpoints
type MessageResponse struct {
	Message string `json:"message"`
}
