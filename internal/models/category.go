package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCategoryColor = "#3b82f6"

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidCategoryColor = errors.New("category color must be a #rrggbb hex value")

	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Category groups subscriptions for the spend breakdown
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook for Category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return c.Validate()
}

// Validate validates the category fields
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if !IsValidHexColor(c.Color) {
		return ErrInvalidCategoryColor
	}
	return nil
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}

// IsValidHexColor reports whether color has the #rrggbb form
func IsValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
