package services

import (
	"sort"
	"time"

	"subscription-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// RejectionReason explains why a merchant group is not recurring
type RejectionReason string

const (
	RejectInsufficientSample RejectionReason = "insufficient_sample"
	RejectZeroMean           RejectionReason = "zero_mean"
	RejectUnstableAmount     RejectionReason = "unstable_amount"
)

// Inclusive day ranges for each cadence; anything else falls back to monthly
var cadenceRanges = []struct {
	cycle    string
	min, max float64
}{
	{models.BillingCycleMonthly, 25, 35},
	{models.BillingCycleQuarterly, 85, 95},
	{models.BillingCycleYearly, 350, 380},
}

const DefaultAmountTolerance = 0.10

// Classification is the outcome of classifying one merchant group
type Classification struct {
	Merchant       string
	Recurring      bool
	Reason         RejectionReason
	BillingCycle   string
	MeanAmount     decimal.Decimal
	AverageGapDays float64
	Transactions   []models.Transaction
}

// CadenceClassifier decides whether a merchant group is a recurring charge
type CadenceClassifier struct {
	tolerance decimal.Decimal
}

// NewCadenceClassifier creates a classifier. A non-positive tolerance uses the default.
func NewCadenceClassifier(tolerance float64) *CadenceClassifier {
	if tolerance <= 0 {
		tolerance = DefaultAmountTolerance
	}
	return &CadenceClassifier{tolerance: decimal.NewFromFloat(tolerance)}
}

// Classify checks amount stability, then maps the average gap between the first
// and last transaction to a billing cycle. The input slice is not modified.
func (c *CadenceClassifier) Classify(merchant string, group []models.Transaction) Classification {
	result := Classification{Merchant: merchant}

	if len(group) < 2 {
		result.Reason = RejectInsufficientSample
		return result
	}

	sorted := make([]models.Transaction, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	result.Transactions = sorted

	mean := MeanAbsAmount(sorted)
	result.MeanAmount = mean
	if mean.IsZero() {
		result.Reason = RejectZeroMean
		return result
	}

	if !c.IsStable(sorted, mean) {
		result.Reason = RejectUnstableAmount
		return result
	}

	first, last := sorted[0].Date, sorted[len(sorted)-1].Date
	result.AverageGapDays = float64(models.DaysBetween(first, last)) / float64(len(sorted)-1)
	result.BillingCycle = CycleForGap(result.AverageGapDays)
	result.Recurring = true
	return result
}

// IsStable reports whether every absolute amount is within tolerance of mean
func (c *CadenceClassifier) IsStable(group []models.Transaction, mean decimal.Decimal) bool {
	for _, t := range group {
		deviation := t.AbsAmount().Sub(mean).Abs().Div(mean)
		if !deviation.LessThan(c.tolerance) {
			return false
		}
	}
	return true
}

// MeanAbsAmount returns the unrounded mean of the absolute amounts
func MeanAbsAmount(group []models.Transaction) decimal.Decimal {
	if len(group) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, t := range group {
		sum = sum.Add(t.AbsAmount())
	}
	return sum.Div(decimal.NewFromInt(int64(len(group))))
}

// CycleForGap maps an average gap in days to a billing cycle
func CycleForGap(days float64) string {
	for _, r := range cadenceRanges {
		if days >= r.min && days <= r.max {
			return r.cycle
		}
	}
	return models.BillingCycleMonthly
}

// NextBillingDate projects the next charge from the latest transaction date
// by the whole-day part of the average gap.
func (c Classification) NextBillingDate() *time.Time {
	if len(c.Transactions) == 0 {
		return nil
	}
	latest := c.Transactions[len(c.Transactions)-1].Date
	next := models.DateOnly(latest).AddDate(0, 0, int(c.AverageGapDays))
	return &next
}

// StartDate is the earliest transaction date of the group
func (c Classification) StartDate() time.Time {
	if len(c.Transactions) == 0 {
		return time.Time{}
	}
	return models.DateOnly(c.Transactions[0].Date)
}
