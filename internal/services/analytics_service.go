package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultSeriesMonths     = 12
	recentTransactionsLimit = 10
)

var hundred = decimal.NewFromInt(100)

type analyticsService struct {
	store         repositories.Store
	notifications NotificationServiceInterface
	metrics       MetricsRecorderInterface
	currency      string
	now           func() time.Time
}

// NewAnalyticsService creates the read-side aggregation service. Figures are
// recomputed from the store on every call.
func NewAnalyticsService(
	store repositories.Store,
	notifications NotificationServiceInterface,
	metrics MetricsRecorderInterface,
	currency string,
) AnalyticsServiceInterface {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &analyticsService{
		store:         store,
		notifications: notifications,
		metrics:       metrics,
		currency:      currency,
		now:           time.Now,
	}
}

// Dashboard runs the upcoming-payment sweep, then assembles the dashboard figures
func (s *analyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if s.notifications != nil {
		if _, err := s.notifications.SweepUpcoming(ctx); err != nil {
			return nil, err
		}
	}

	active, err := s.store.Subscriptions().CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	today := models.DateOnly(s.now())

	monthStart := models.FirstOfMonth(today)
	nextMonth := monthStart.AddDate(0, 1, 0)
	monthly, err := s.spendBetween(&monthStart, &nextMonth)
	if err != nil {
		return nil, err
	}

	yearStart := models.AddMonths(today, -12)
	yearly, err := s.spendBetween(&yearStart, nil)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.CategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.Transactions().GetRecent(recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}

	unread, err := s.store.Notifications().CountUnread()
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	s.metrics.RecordGauge("subscriptions.active", float64(active), nil)
	s.metrics.RecordGauge("spend.monthly", monthly.InexactFloat64(), nil)

	return &models.DashboardStats{
		ActiveSubscriptions: active,
		MonthlySpend:        monthly,
		YearlySpend:         yearly,
		Currency:            s.currency,
		CategoryBreakdown:   breakdown,
		RecentTransactions:  recent,
		UnreadNotifications: unread,
	}, nil
}

// CategoryBreakdown totals active subscription amounts per category. Percentages
// are of the grand total, or all zero when the grand total is zero.
func (s *analyticsService) CategoryBreakdown(ctx context.Context) ([]models.CategorySummary, error) {
	active, err := s.store.Subscriptions().ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	byCategory := make(map[uuid.UUID]*models.CategorySummary)
	grandTotal := decimal.Zero
	for _, subscription := range active {
		if subscription.CategoryID == nil || subscription.Category == nil {
			continue
		}
		summary, ok := byCategory[*subscription.CategoryID]
		if !ok {
			summary = &models.CategorySummary{
				CategoryID: subscription.Category.ID,
				Name:       subscription.Category.Name,
				Color:      subscription.Category.Color,
				Total:      decimal.Zero,
			}
			byCategory[*subscription.CategoryID] = summary
		}
		summary.Total = summary.Total.Add(subscription.Amount)
		grandTotal = grandTotal.Add(subscription.Amount)
	}

	breakdown := make([]models.CategorySummary, 0, len(byCategory))
	for _, summary := range byCategory {
		summary.Percentage = decimal.Zero
		if !grandTotal.IsZero() {
			summary.Percentage = summary.Total.Mul(hundred).Div(grandTotal)
		}
		breakdown = append(breakdown, *summary)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Name < breakdown[j].Name
	})

	return breakdown, nil
}

// MonthlySpend buckets absolute spend by YYYY-MM over the last months months
func (s *analyticsService) MonthlySpend(ctx context.Context, months int) ([]models.MonthlySpend, error) {
	if months <= 0 {
		months = DefaultSeriesMonths
	}
	start := models.AddMonths(models.DateOnly(s.now()), -months)

	transactions, err := s.store.Transactions().GetByDateRange(&start, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		key := t.Date.Format("2006-01")
		totals[key] = totals[key].Add(t.Amount)
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]models.MonthlySpend, 0, len(keys))
	for _, key := range keys {
		series = append(series, models.MonthlySpend{
			Month:    key,
			Total:    totals[key].Abs(),
			Currency: s.currency,
		})
	}
	return series, nil
}

// YearlySpend buckets absolute spend by calendar year over all transactions
func (s *analyticsService) YearlySpend(ctx context.Context) ([]models.YearlySpend, error) {
	transactions, err := s.store.Transactions().GetByDateRange(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	totals := make(map[int]decimal.Decimal)
	for _, t := range transactions {
		totals[t.Date.Year()] = totals[t.Date.Year()].Add(t.Amount)
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	series := make([]models.YearlySpend, 0, len(years))
	for _, year := range years {
		series = append(series, models.YearlySpend{
			Year:     year,
			Total:    totals[year].Abs(),
			Currency: s.currency,
		})
	}
	return series, nil
}

// SpendByPaymentMethod totals transactions per payment method, ordered by name
func (s *analyticsService) SpendByPaymentMethod(ctx context.Context) ([]models.PaymentMethodSpend, error) {
	transactions, err := s.store.Transactions().GetWithPaymentMethod()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	byMethod := make(map[uuid.UUID]*models.PaymentMethodSpend)
	for _, t := range transactions {
		if t.PaymentMethodID == nil {
			continue
		}
		spend, ok := byMethod[*t.PaymentMethodID]
		if !ok {
			spend = &models.PaymentMethodSpend{
				PaymentMethodID: *t.PaymentMethodID,
				Total:           decimal.Zero,
				Currency:        s.currency,
			}
			if t.PaymentMethod != nil {
				spend.Name = t.PaymentMethod.Name
			}
			byMethod[*t.PaymentMethodID] = spend
		}
		spend.Total = spend.Total.Add(t.Amount)
		spend.TransactionCount++
	}

	result := make([]models.PaymentMethodSpend, 0, len(byMethod))
	for _, spend := range byMethod {
		spend.Total = spend.Total.Abs()
		result = append(result, *spend)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *analyticsService) spendBetween(start, end *time.Time) (decimal.Decimal, error) {
	transactions, err := s.store.Transactions().GetByDateRange(start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get transactions: %w", err)
	}

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total.Abs(), nil
}
