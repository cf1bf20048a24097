package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReconcilerTestSuite struct {
	suite.Suite
	store      repositories.Store
	publisher  *recordingPublisher
	breaker    *CircuitBreaker
	reconciler ReconcilerInterface
}

func TestReconcilerTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerTestSuite))
}

func (s *ReconcilerTestSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.publisher = &recordingPublisher{}
	s.breaker = NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Hour, TrialSuccesses: 1})
	s.reconciler = NewReconciler(
		s.store,
		NewCadenceClassifier(0.10),
		NewCategoryService(s.store, config.DefaultCategoryRules()),
		s.publisher,
		s.breaker,
		NoopMetrics{},
		quietEngineLogger(),
	)
}

func (s *ReconcilerTestSuite) netflix() []models.Transaction {
	return persist(s.T(), s.store,
		charge("Netflix", day(2024, 1, 15), "-15.99"),
		charge("Netflix", day(2024, 2, 14), "-15.99"),
		charge("Netflix", day(2024, 3, 15), "-15.99"),
	)
}

func (s *ReconcilerTestSuite) TestReconcile_CreatesSubscription() {
	transactions := s.netflix()

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Require().Len(created, 1)

	sub := created[0]
	s.Equal("Netflix", sub.Name)
	s.True(decimal.RequireFromString("15.99").Equal(sub.Amount))
	s.Equal("GBP", sub.Currency)
	s.Equal(models.BillingCycleMonthly, sub.BillingCycle)
	s.True(sub.IsActive)
	s.True(day(2024, 1, 15).Equal(sub.StartDate))
	s.Require().NotNil(sub.NextBillingDate)
	s.True(day(2024, 4, 14).Equal(*sub.NextBillingDate))
	s.Require().NotNil(sub.Category)
	s.Equal("Streaming", sub.Category.Name)

	linked, err := s.store.Transactions().GetBySubscriptionID(sub.ID)
	s.Require().NoError(err)
	s.Len(linked, 3)
	for _, t := range linked {
		s.True(t.IsMatched)
	}

	notifications, err := s.store.Notifications().List(models.NotificationFilters{})
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationTitleNewSubscription, notifications[0].Title)
	s.Equal(models.NotificationTypeSuccess, notifications[0].Type)
	s.Equal("Netflix - £15.99/monthly", notifications[0].Message)
	s.Require().NotNil(notifications[0].SubscriptionID)
	s.Equal(sub.ID, *notifications[0].SubscriptionID)

	s.Equal([]string{"Netflix"}, s.publisher.published)
}

func (s *ReconcilerTestSuite) TestReconcile_IdempotentOnReimport() {
	_, err := s.reconciler.Reconcile(context.Background(), s.netflix())
	s.Require().NoError(err)

	second := s.netflix()
	created, err := s.reconciler.Reconcile(context.Background(), second)
	s.Require().NoError(err)
	s.Empty(created)

	subs, err := s.store.Subscriptions().List(models.SubscriptionFilters{})
	s.Require().NoError(err)
	s.Len(subs, 1)

	linked, err := s.store.Transactions().GetBySubscriptionID(subs[0].ID)
	s.Require().NoError(err)
	s.Len(linked, 6)

	notifications, err := s.store.Notifications().List(models.NotificationFilters{})
	s.Require().NoError(err)
	s.Len(notifications, 1)
}

func (s *ReconcilerTestSuite) TestReconcile_LinksToExistingSubscriptionBySubstring() {
	existing := &models.Subscription{
		Name:         "Spotify Premium Family",
		Amount:       decimal.RequireFromString("17.99"),
		BillingCycle: models.BillingCycleMonthly,
		StartDate:    day(2023, 1, 1),
		IsActive:     false,
	}
	s.Require().NoError(s.store.Subscriptions().Create(existing))

	transactions := persist(s.T(), s.store,
		charge("spotify", day(2024, 1, 5), "-9.99"),
		charge("spotify", day(2024, 2, 5), "-9.99"),
	)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Empty(created)

	reloaded, err := s.store.Subscriptions().GetByID(existing.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("17.99").Equal(reloaded.Amount), "existing subscription is left unchanged")
	s.False(reloaded.IsActive)

	linked, err := s.store.Transactions().GetBySubscriptionID(existing.ID)
	s.Require().NoError(err)
	s.Len(linked, 2)
	s.Empty(s.publisher.published)
}

func (s *ReconcilerTestSuite) TestReconcile_RejectedGroupsAreUntouched() {
	transactions := persist(s.T(), s.store,
		charge("Tesco", day(2024, 1, 3), "-23.10"),
		charge("Tesco", day(2024, 1, 10), "-61.42"),
		charge("Coffee", day(2024, 1, 4), "-3.20"),
	)
	noMerchant := charge("", day(2024, 1, 5), "-10.00")
	noMerchant.Description = "CASH"
	transactions = append(transactions, persist(s.T(), s.store, noMerchant)...)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Empty(created)

	all, total, err := s.store.Transactions().GetWithFilters(models.TransactionFilters{})
	s.Require().NoError(err)
	s.EqualValues(4, total)
	for _, t := range all {
		s.False(t.IsMatched)
		s.Nil(t.SubscriptionID)
	}
}

func (s *ReconcilerTestSuite) TestReconcile_MultipleGroupsInSortedOrder() {
	transactions := persist(s.T(), s.store,
		charge("Spotify", day(2024, 1, 2), "-9.99"),
		charge("Adobe", day(2023, 1, 10), "-239.88"),
		charge("Spotify", day(2024, 2, 2), "-9.99"),
		charge("Adobe", day(2024, 1, 10), "-239.88"),
		charge("Dropbox", day(2024, 1, 1), "-9.99"),
		charge("Dropbox", day(2024, 4, 1), "-9.99"),
	)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Require().Len(created, 3)

	s.Equal("Adobe", created[0].Name)
	s.Equal(models.BillingCycleYearly, created[0].BillingCycle)
	s.Equal("Software", created[0].Category.Name)
	s.Equal("Dropbox", created[1].Name)
	s.Equal(models.BillingCycleQuarterly, created[1].BillingCycle)
	s.Equal("Cloud Storage", created[1].Category.Name)
	s.Equal("Spotify", created[2].Name)
	s.Equal("Streaming", created[2].Category.Name)

	s.Equal([]string{"Adobe", "Dropbox", "Spotify"}, s.publisher.published)
}

func (s *ReconcilerTestSuite) TestReconcile_UnknownMerchantUsesFallbackCategory() {
	transactions := persist(s.T(), s.store,
		charge("PureGym", day(2024, 1, 1), "-24.99"),
		charge("PureGym", day(2024, 2, 1), "-24.99"),
	)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Require().Len(created, 1)
	s.Equal(config.FallbackCategoryName, created[0].Category.Name)
	s.Equal(config.FallbackCategoryColor, created[0].Category.Color)
}

func (s *ReconcilerTestSuite) TestReconcile_AmountIsGroupMean() {
	transactions := persist(s.T(), s.store,
		charge("Utility", day(2024, 1, 1), "-10.00"),
		charge("Utility", day(2024, 2, 1), "-10.00"),
		charge("Utility", day(2024, 3, 1), "-10.01"),
	)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Require().Len(created, 1)

	mean := MeanAbsAmount(transactions)
	s.True(created[0].Amount.Equal(mean.Round(models.AmountScale)), created[0].Amount.String())
	s.Equal("10.00333333", created[0].Amount.String())

	stored, err := s.store.Subscriptions().GetByID(created[0].ID)
	s.Require().NoError(err)
	s.Equal("10.00333333", stored.Amount.String())
	s.InDelta(mean.InexactFloat64(), stored.Amount.InexactFloat64(), 1e-8)

	notifications, err := s.store.Notifications().List(models.NotificationFilters{})
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Equal("Utility - £10.00/monthly", notifications[0].Message)
}

func (s *ReconcilerTestSuite) TestReconcile_PublishFailureDoesNotFailImport() {
	s.publisher.err = errBrokerDown

	transactions := persist(s.T(), s.store,
		charge("Netflix", day(2024, 1, 15), "-15.99"),
		charge("Netflix", day(2024, 2, 14), "-15.99"),
		charge("Disney", day(2024, 1, 1), "-7.99"),
		charge("Disney", day(2024, 2, 1), "-7.99"),
		charge("YouTube", day(2024, 1, 1), "-11.99"),
		charge("YouTube", day(2024, 2, 1), "-11.99"),
	)

	created, err := s.reconciler.Reconcile(context.Background(), transactions)
	s.Require().NoError(err)
	s.Len(created, 3)

	s.Equal(StateOpen, s.breaker.GetState(), "two failures open the breaker and the third publish is skipped")
}

func (s *ReconcilerTestSuite) TestReconcile_NilPublisher() {
	reconciler := NewReconciler(s.store, NewCadenceClassifier(0.10),
		NewCategoryService(s.store, nil), nil, nil, nil, nil)

	created, err := reconciler.Reconcile(context.Background(), s.netflix())
	s.Require().NoError(err)
	s.Len(created, 1)
}

func (s *ReconcilerTestSuite) TestReconcile_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := s.reconciler.Reconcile(ctx, s.netflix())
	s.ErrorIs(err, context.Canceled)
	s.Empty(created)
}

func (s *ReconcilerTestSuite) TestReconcile_ConcurrentImportsCreateOnce() {
	first := s.netflix()
	second := s.netflix()

	var wg sync.WaitGroup
	results := make([][]models.Subscription, 2)
	errs := make([]error, 2)
	for i, batch := range [][]models.Transaction{first, second} {
		wg.Add(1)
		go func(i int, batch []models.Transaction) {
			defer wg.Done()
			results[i], errs[i] = s.reconciler.Reconcile(context.Background(), batch)
		}(i, batch)
	}
	wg.Wait()

	s.NoError(errs[0])
	s.NoError(errs[1])
	s.Equal(1, len(results[0])+len(results[1]))

	subs, err := s.store.Subscriptions().List(models.SubscriptionFilters{})
	s.Require().NoError(err)
	s.Len(subs, 1)
}
