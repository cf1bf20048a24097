package services

import (
	"context"
	"testing"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	store   repositories.Store
	service SubscriptionServiceInterface
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (s *SubscriptionServiceTestSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.service = NewSubscriptionService(s.store, "GBP")
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func (s *SubscriptionServiceTestSuite) createRequest() *dto.CreateSubscriptionRequest {
	return &dto.CreateSubscriptionRequest{
		Name:         "Disney Plus",
		Amount:       "7.99",
		BillingCycle: models.BillingCycleMonthly,
		StartDate:    "2024-02-01",
	}
}

func (s *SubscriptionServiceTestSuite) TestCreateSubscription_BooksInitialTransaction() {
	method, err := s.store.PaymentMethods().GetOrCreate("Visa *1234")
	s.Require().NoError(err)
	req := s.createRequest()
	req.PaymentMethodID = strPtr(method.ID.String())
	req.NextBillingDate = strPtr("2024-03-01")

	sub, err := s.service.CreateSubscription(context.Background(), req)
	s.Require().NoError(err)

	s.Equal("Disney Plus", sub.Name)
	s.Equal("GBP", sub.Currency)
	s.True(sub.IsActive)
	s.Require().NotNil(sub.PaymentMethod)
	s.Equal("Visa *1234", sub.PaymentMethod.Name)
	s.Require().NotNil(sub.NextBillingDate)
	s.True(day(2024, 3, 1).Equal(*sub.NextBillingDate))

	linked, err := s.store.Transactions().GetBySubscriptionID(sub.ID)
	s.Require().NoError(err)
	s.Require().Len(linked, 1)
	initial := linked[0]
	s.True(initial.IsMatched)
	s.True(day(2024, 2, 1).Equal(initial.Date))
	s.True(decimal.RequireFromString("-7.99").Equal(initial.Amount))
	s.Equal("Disney Plus - monthly subscription", initial.Description)
	s.Equal("Disney Plus", initial.Merchant)
	s.Require().NotNil(initial.PaymentMethodID)
	s.Equal(method.ID, *initial.PaymentMethodID)
}

func (s *SubscriptionServiceTestSuite) TestCreateSubscription_Inactive() {
	req := s.createRequest()
	req.IsActive = boolPtr(false)
	req.Currency = "eur"

	sub, err := s.service.CreateSubscription(context.Background(), req)
	s.Require().NoError(err)
	s.False(sub.IsActive)
	s.Equal("EUR", sub.Currency)
}

func (s *SubscriptionServiceTestSuite) TestCreateSubscription_UnknownReferences() {
	req := s.createRequest()
	req.CategoryID = strPtr(uuid.New().String())

	_, err := s.service.CreateSubscription(context.Background(), req)
	s.ErrorIs(err, ErrSubscriptionReferenceNotFound)

	_, total, err := s.store.Transactions().GetWithFilters(models.TransactionFilters{})
	s.Require().NoError(err)
	s.Zero(total, "the initial transaction is rolled back")
}

func (s *SubscriptionServiceTestSuite) TestCreateSubscription_InvalidInput() {
	req := s.createRequest()
	req.Amount = "-1"
	_, err := s.service.CreateSubscription(context.Background(), req)
	s.ErrorIs(err, ErrInvalidAmount)

	req = s.createRequest()
	req.StartDate = "01/02/2024"
	_, err = s.service.CreateSubscription(context.Background(), req)
	s.ErrorIs(err, ErrInvalidDate)

	req = s.createRequest()
	req.CategoryID = strPtr("nope")
	_, err = s.service.CreateSubscription(context.Background(), req)
	s.ErrorIs(err, ErrInvalidReference)

	req = s.createRequest()
	req.BillingCycle = "weekly"
	_, err = s.service.CreateSubscription(context.Background(), req)
	s.ErrorIs(err, models.ErrInvalidBillingCycle)
}

func (s *SubscriptionServiceTestSuite) TestUpdateSubscription_Partial() {
	sub, err := s.service.CreateSubscription(context.Background(), s.createRequest())
	s.Require().NoError(err)
	category, err := s.store.Categories().GetOrCreate("Streaming", "#ec4899")
	s.Require().NoError(err)

	updated, err := s.service.UpdateSubscription(context.Background(), sub.ID, &dto.UpdateSubscriptionRequest{
		Amount:     strPtr("8.99"),
		CategoryID: strPtr(category.ID.String()),
		IsActive:   boolPtr(false),
	})
	s.Require().NoError(err)

	s.Equal("Disney Plus", updated.Name)
	s.Equal("8.99", updated.Amount.StringFixed(2))
	s.False(updated.IsActive)
	s.Require().NotNil(updated.Category)
	s.Equal("Streaming", updated.Category.Name)

	cleared, err := s.service.UpdateSubscription(context.Background(), sub.ID, &dto.UpdateSubscriptionRequest{
		CategoryID: strPtr(""),
	})
	s.Require().NoError(err)
	s.Nil(cleared.CategoryID)
	s.Nil(cleared.Category)
}

func (s *SubscriptionServiceTestSuite) TestUpdateSubscription_Errors() {
	_, err := s.service.UpdateSubscription(context.Background(), uuid.New(), &dto.UpdateSubscriptionRequest{})
	s.ErrorIs(err, ErrSubscriptionNotFound)

	sub, err := s.service.CreateSubscription(context.Background(), s.createRequest())
	s.Require().NoError(err)

	_, err = s.service.UpdateSubscription(context.Background(), sub.ID, &dto.UpdateSubscriptionRequest{
		PaymentMethodID: strPtr(uuid.New().String()),
	})
	s.ErrorIs(err, ErrSubscriptionReferenceNotFound)

	_, err = s.service.UpdateSubscription(context.Background(), sub.ID, &dto.UpdateSubscriptionRequest{
		BillingCycle: strPtr("fortnightly"),
	})
	s.ErrorIs(err, models.ErrInvalidBillingCycle)
}

func (s *SubscriptionServiceTestSuite) TestDeleteSubscription_UnlinksTransactions() {
	sub, err := s.service.CreateSubscription(context.Background(), s.createRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteSubscription(context.Background(), sub.ID))

	_, err = s.service.GetSubscription(context.Background(), sub.ID)
	s.ErrorIs(err, ErrSubscriptionNotFound)

	transactions, _, err := s.store.Transactions().GetWithFilters(models.TransactionFilters{})
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.False(transactions[0].IsMatched)
	s.Nil(transactions[0].SubscriptionID)

	s.ErrorIs(s.service.DeleteSubscription(context.Background(), sub.ID), ErrSubscriptionNotFound)
}

func (s *SubscriptionServiceTestSuite) TestListSubscriptions_Filter() {
	_, err := s.service.CreateSubscription(context.Background(), s.createRequest())
	s.Require().NoError(err)
	req := s.createRequest()
	req.Name = "Paused"
	req.IsActive = boolPtr(false)
	_, err = s.service.CreateSubscription(context.Background(), req)
	s.Require().NoError(err)

	all, err := s.service.ListSubscriptions(context.Background(), models.SubscriptionFilters{})
	s.Require().NoError(err)
	s.Len(all, 2)

	active, err := s.service.ListSubscriptions(context.Background(), models.SubscriptionFilters{IsActive: boolPtr(true)})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("Disney Plus", active[0].Name)

	paged, err := s.service.ListSubscriptions(context.Background(), models.SubscriptionFilters{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Len(paged, 1)
}
