package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Subscription
		wantErr error
	}{
		{
			name: "valid monthly",
			sub:  Subscription{Name: "Netflix", Amount: decimal.NewFromFloat(9.99), Currency: "GBP", BillingCycle: BillingCycleMonthly},
		},
		{
			name:    "missing name",
			sub:     Subscription{Amount: decimal.NewFromFloat(9.99), Currency: "GBP", BillingCycle: BillingCycleMonthly},
			wantErr: ErrSubscriptionNameRequired,
		},
		{
			name:    "zero amount",
			sub:     Subscription{Name: "Netflix", Amount: decimal.Zero, Currency: "GBP", BillingCycle: BillingCycleMonthly},
			wantErr: ErrInvalidSubscriptionAmount,
		},
		{
			name:    "unknown cycle",
			sub:     Subscription{Name: "Netflix", Amount: decimal.NewFromFloat(9.99), Currency: "GBP", BillingCycle: "weekly"},
			wantErr: ErrInvalidBillingCycle,
		},
		{
			name:    "bad currency",
			sub:     Subscription{Name: "Netflix", Amount: decimal.NewFromFloat(9.99), Currency: "GB", BillingCycle: BillingCycleYearly},
			wantErr: ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubscription_BeforeCreateDefaults(t *testing.T) {
	sub := &Subscription{Name: "Spotify", Amount: decimal.NewFromFloat(11.99), BillingCycle: BillingCycleMonthly}

	require.NoError(t, sub.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, DefaultCurrency, sub.Currency)
	assert.False(t, sub.CreatedAt.IsZero())
	assert.Equal(t, sub.CreatedAt, sub.UpdatedAt)
}

func TestSubscription_IsDueWithin(t *testing.T) {
	today := time.Date(2024, 4, 10, 9, 30, 0, 0, time.UTC)
	inWindow := time.Date(2024, 4, 17, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 7)

	assert.True(t, (&Subscription{IsActive: true, NextBillingDate: &inWindow}).IsDueWithin(today, end))
	assert.True(t, (&Subscription{IsActive: true, NextBillingDate: &today}).IsDueWithin(today, end))
	assert.False(t, (&Subscription{IsActive: true, NextBillingDate: &outside}).IsDueWithin(today, end))
	assert.False(t, (&Subscription{IsActive: true, NextBillingDate: &past}).IsDueWithin(today, end))
	assert.False(t, (&Subscription{IsActive: false, NextBillingDate: &inWindow}).IsDueWithin(today, end))
	assert.False(t, (&Subscription{IsActive: true}).IsDueWithin(today, end))
}

func TestIsValidBillingCycle(t *testing.T) {
	for _, cycle := range AllBillingCycles() {
		assert.True(t, IsValidBillingCycle(cycle))
	}
	assert.False(t, IsValidBillingCycle("weekly"))
	assert.False(t, IsValidBillingCycle(""))
}

func TestCategory_BeforeCreate(t *testing.T) {
	category := &Category{Name: "Streaming"}
	require.NoError(t, category.BeforeCreate(nil))
	assert.Equal(t, DefaultCategoryColor, category.Color)

	bad := &Category{Name: "Streaming", Color: "pink"}
	assert.ErrorIs(t, bad.BeforeCreate(nil), ErrInvalidCategoryColor)

	assert.ErrorIs(t, (&Category{}).BeforeCreate(nil), ErrCategoryNameRequired)
}

func TestNotification_Validate(t *testing.T) {
	n := &Notification{Title: NotificationTitleUpcomingPayment, Message: "x"}
	require.NoError(t, n.BeforeCreate(nil))
	assert.Equal(t, NotificationTypeInfo, n.Type)

	n.Type = "urgent"
	assert.ErrorIs(t, n.Validate(), ErrInvalidNotificationType)
}

func TestDateHelpers(t *testing.T) {
	a := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 3, 15, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 60, DaysBetween(a, b))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), FirstOfMonth(b))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateOnly(a))
}
