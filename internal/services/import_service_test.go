package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"subscription-tracker/internal/importer"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"
)

type ImportServiceTestSuite struct {
	suite.Suite
	store         repositories.Store
	notifications *notificationService
	service       ImportServiceInterface
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.notifications = NewNotificationService(s.store, 7, NoopMetrics{}, quietEngineLogger()).(*notificationService)
	s.notifications.now = fixedClock(time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC))

	reconciler := NewReconciler(s.store, NewCadenceClassifier(0.10), NewCategoryService(s.store, nil),
		nil, nil, NoopMetrics{}, quietEngineLogger())
	s.service = NewImportService(s.store, reconciler, s.notifications, NoopMetrics{}, quietEngineLogger(), "GBP")
}

const netflixCSV = `date,description,amount,merchant,payment_method
2024-01-15,NETFLIX.COM 866-579-7172,-15.99,Netflix,Visa *1234
2024-02-14,NETFLIX.COM 866-579-7172,-15.99,Netflix,Visa *1234
2024-03-15,NETFLIX.COM 866-579-7172,-15.99,Netflix,Visa *1234
2024-03-02,TESCO STORES 2231,-45.12,,
not-a-date,BROKEN ROW,-1.00,,
2024-03-03,BAD AMOUNT,abc,,
`

func (s *ImportServiceTestSuite) TestImportCSV_NetflixEndToEnd() {
	summary, err := s.service.ImportCSV(context.Background(), strings.NewReader(netflixCSV))
	s.Require().NoError(err)

	s.Equal(4, summary.Count)
	s.Equal(2, summary.Skipped)
	s.Equal(1, summary.SubscriptionsDetected)
	s.Equal("Successfully imported 4 transactions and detected 1 subscriptions", summary.Message)

	s.Require().Len(summary.Subscriptions, 1)
	netflix := summary.Subscriptions[0]
	s.Equal("Netflix", netflix.Name)
	s.Equal("15.99", netflix.Amount.StringFixed(2))
	s.Require().NotNil(netflix.NextBillingDate)
	s.True(day(2024, 4, 14).Equal(*netflix.NextBillingDate))

	linked, err := s.store.Transactions().GetBySubscriptionID(netflix.ID)
	s.Require().NoError(err)
	s.Len(linked, 3)

	methods, err := s.store.PaymentMethods().List()
	s.Require().NoError(err)
	s.Require().Len(methods, 1)
	s.Equal("Visa *1234", methods[0].Name)
	s.Require().NotNil(linked[0].PaymentMethodID)
	s.Equal(methods[0].ID, *linked[0].PaymentMethodID)

	// Next billing 2024-04-14 is within 7 days of 2024-04-10
	unread, err := s.store.Notifications().List(models.NotificationFilters{UnreadOnly: true})
	s.Require().NoError(err)
	titles := map[string]string{}
	for _, n := range unread {
		titles[n.Title] = n.Message
	}
	s.Equal("Netflix - £15.99/monthly", titles[models.NotificationTitleNewSubscription])
	s.Equal("Netflix - £15.99 due in 4 days", titles[models.NotificationTitleUpcomingPayment])
}

func (s *ImportServiceTestSuite) TestImportCSV_ReimportIsIdempotent() {
	_, err := s.service.ImportCSV(context.Background(), strings.NewReader(netflixCSV))
	s.Require().NoError(err)

	summary, err := s.service.ImportCSV(context.Background(), strings.NewReader(netflixCSV))
	s.Require().NoError(err)
	s.Equal(0, summary.SubscriptionsDetected)
	s.Equal("Successfully imported 4 transactions and detected 0 subscriptions", summary.Message)

	subs, err := s.store.Subscriptions().List(models.SubscriptionFilters{})
	s.Require().NoError(err)
	s.Len(subs, 1)

	upcoming := 0
	all, err := s.store.Notifications().List(models.NotificationFilters{})
	s.Require().NoError(err)
	for _, n := range all {
		if n.Title == models.NotificationTitleUpcomingPayment {
			upcoming++
		}
	}
	s.Equal(1, upcoming)
}

func (s *ImportServiceTestSuite) TestImportRows_MerchantFallbackAndDefaults() {
	rows := []importer.Row{
		{Line: 2, Date: "2024-01-05", Description: "Spotify P0A1B2", Amount: "-9.99", Raw: map[string]string{"date": "2024-01-05"}},
		{Line: 3, Date: "2024-02-05", Description: "Spotify P0C3D4", Amount: "-9.99", Currency: "eur"},
	}

	summary, err := s.service.ImportRows(context.Background(), rows)
	s.Require().NoError(err)
	s.Equal(2, summary.Count)
	s.Equal(1, summary.SubscriptionsDetected)
	s.Equal("Spotify", summary.Subscriptions[0].Name)
	s.Equal("GBP", summary.Subscriptions[0].Currency, "currency comes from the earliest transaction")

	transactions, _, err := s.store.Transactions().GetWithFilters(models.TransactionFilters{})
	s.Require().NoError(err)
	s.Require().Len(transactions, 2)
	s.Equal("EUR", transactions[0].Currency)
	s.Equal("GBP", transactions[1].Currency)
	s.Equal("2024-01-05", transactions[1].RawData["date"])
}

func (s *ImportServiceTestSuite) TestImportRows_SkipsInvalidRows() {
	rows := []importer.Row{
		{Line: 2, Date: "", Description: "No date", Amount: "-1"},
		{Line: 3, Date: "2024-01-01", Description: "", Amount: "-1"},
		{Line: 4, Date: "2024-01-01", Description: "Bad currency", Amount: "-1", Currency: "POUNDS"},
		{Line: 5, Date: "2024-01-01", Description: gofakeit.Company(), Amount: "-1"},
	}

	summary, err := s.service.ImportRows(context.Background(), rows)
	s.Require().NoError(err)
	s.Equal(1, summary.Count)
	s.Equal(3, summary.Skipped)
	s.Empty(summary.Subscriptions)
}

func (s *ImportServiceTestSuite) TestImportRows_Empty() {
	summary, err := s.service.ImportRows(context.Background(), nil)
	s.Require().NoError(err)
	s.Equal(0, summary.Count)
	s.Equal("Successfully imported 0 transactions and detected 0 subscriptions", summary.Message)
}

func (s *ImportServiceTestSuite) TestImportCSV_HeaderErrors() {
	_, err := s.service.ImportCSV(context.Background(), strings.NewReader("date,amount\n2024-01-01,1\n"))
	s.ErrorIs(err, importer.ErrMissingColumns)

	_, err = s.service.ImportCSV(context.Background(), strings.NewReader(""))
	s.ErrorIs(err, importer.ErrEmptyFile)
}

func (s *ImportServiceTestSuite) TestListTransactions() {
	_, err := s.service.ImportCSV(context.Background(), strings.NewReader(netflixCSV))
	s.Require().NoError(err)

	page, total, err := s.service.ListTransactions(context.Background(), 1, 2)
	s.Require().NoError(err)
	s.EqualValues(4, total)
	s.Require().Len(page, 2)
	s.True(day(2024, 3, 2).Equal(page[0].Date))
	s.True(day(2024, 2, 14).Equal(page[1].Date))

	all, _, err := s.service.ListTransactions(context.Background(), 0, 0)
	s.Require().NoError(err)
	s.Len(all, 4)
	s.True(day(2024, 3, 15).Equal(all[0].Date))
}

func (s *ImportServiceTestSuite) TestImportMessage() {
	s.Equal("Successfully imported 3 transactions and detected 1 subscriptions", ImportMessage(3, 1))
}
