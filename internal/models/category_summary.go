package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySummary is one row of the active-subscription spend breakdown
type CategorySummary struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}
