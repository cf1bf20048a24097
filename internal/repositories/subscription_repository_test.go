package repositories

import (
	"testing"
	"time"

	"subscription-tracker/internal/database"
	"subscription-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SubscriptionRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store Store
}

func (s *SubscriptionRepositoryTestSuite) SetupTest() {
	s.db = database.NewTestDB(s.T()).Gorm()
	s.store = NewStore(s.db)
}

func TestSubscriptionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositoryTestSuite))
}

func (s *SubscriptionRepositoryTestSuite) createSubscription(name string, active bool, next *time.Time) *models.Subscription {
	sub := &models.Subscription{
		Name:            name,
		Amount:          decimal.NewFromFloat(9.99),
		BillingCycle:    models.BillingCycleMonthly,
		StartDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		NextBillingDate: next,
		IsActive:        active,
	}
	s.Require().NoError(s.store.Subscriptions().Create(sub))
	return sub
}

func (s *SubscriptionRepositoryTestSuite) TestFindByMerchant_CaseInsensitiveSubstring() {
	sub := s.createSubscription("Netflix Premium", true, nil)

	found, err := s.store.Subscriptions().FindByMerchant("netflix")
	s.Require().NoError(err)
	s.Equal(sub.ID, found.ID)

	_, err = s.store.Subscriptions().FindByMerchant("Spotify")
	s.ErrorIs(err, ErrSubscriptionNotFound)
}

func (s *SubscriptionRepositoryTestSuite) TestFindByMerchant_MatchesInactiveAndEscapesWildcards() {
	inactive := s.createSubscription("Disney Plus", false, nil)

	found, err := s.store.Subscriptions().FindByMerchant("DISNEY")
	s.Require().NoError(err)
	s.Equal(inactive.ID, found.ID)

	_, err = s.store.Subscriptions().FindByMerchant("%")
	s.ErrorIs(err, ErrSubscriptionNotFound)
}

func (s *SubscriptionRepositoryTestSuite) TestListFiltersAndCount() {
	s.createSubscription("Netflix", true, nil)
	s.createSubscription("Spotify", true, nil)
	s.createSubscription("Old Gym", false, nil)

	active := true
	subs, err := s.store.Subscriptions().List(models.SubscriptionFilters{IsActive: &active})
	s.Require().NoError(err)
	s.Len(subs, 2)

	paged, err := s.store.Subscriptions().List(models.SubscriptionFilters{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Len(paged, 1)

	count, err := s.store.Subscriptions().CountActive()
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *SubscriptionRepositoryTestSuite) TestListDueBetween_InclusiveWindow() {
	today := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	edge := today.AddDate(0, 0, 7)
	beyond := today.AddDate(0, 0, 8)

	dueToday := s.createSubscription("Netflix", true, &today)
	dueEdge := s.createSubscription("Spotify", true, &edge)
	s.createSubscription("Adobe", true, &beyond)
	s.createSubscription("Paused", false, &today)
	s.createSubscription("Manual", true, nil)

	subs, err := s.store.Subscriptions().ListDueBetween(today, edge)
	s.Require().NoError(err)
	s.Require().Len(subs, 2)
	s.Equal(dueToday.ID, subs[0].ID)
	s.Equal(dueEdge.ID, subs[1].ID)
}

func (s *SubscriptionRepositoryTestSuite) TestUpdate() {
	sub := s.createSubscription("Netflix", true, nil)
	sub.IsActive = false
	sub.Amount = decimal.NewFromFloat(12.99)

	s.Require().NoError(s.store.Subscriptions().Update(sub))

	reloaded, err := s.store.Subscriptions().GetByID(sub.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsActive)
	s.True(decimal.NewFromFloat(12.99).Equal(reloaded.Amount))
}

func (s *SubscriptionRepositoryTestSuite) TestDelete_UnlinksTransactionsAndNotifications() {
	sub := s.createSubscription("Netflix", true, nil)

	tx := models.Transaction{Date: time.Now(), Description: "Netflix", Amount: decimal.NewFromFloat(-9.99)}
	tx.LinkTo(sub.ID)
	s.Require().NoError(s.store.Transactions().Create(&tx))
	s.Require().NoError(s.store.Notifications().Create(&models.Notification{
		Title: models.NotificationTitleNewSubscription, Message: "Netflix", SubscriptionID: &sub.ID,
	}))

	s.Require().NoError(s.store.Subscriptions().Delete(sub.ID))

	reloaded, err := s.store.Transactions().GetByID(tx.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsMatched)
	s.Nil(reloaded.SubscriptionID)

	notifications, err := s.store.Notifications().List(models.NotificationFilters{})
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Nil(notifications[0].SubscriptionID)

	s.ErrorIs(s.store.Subscriptions().Delete(uuid.New()), ErrSubscriptionNotFound)
}

func (s *SubscriptionRepositoryTestSuite) TestWithinTransaction_RollsBack() {
	err := s.store.WithinTransaction(func(tx Store) error {
		sub := &models.Subscription{Name: "Netflix", Amount: decimal.NewFromFloat(9.99), BillingCycle: models.BillingCycleMonthly, IsActive: true}
		if err := tx.Subscriptions().Create(sub); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	s.ErrorIs(err, gorm.ErrInvalidData)

	count, err := s.store.Subscriptions().CountActive()
	s.Require().NoError(err)
	s.Zero(count)
}
