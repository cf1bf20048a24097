package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"subscription-tracker/internal/database"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) repositories.Store {
	return repositories.NewStore(database.NewTestDB(t).Gorm())
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func charge(merchant string, date time.Time, amount string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Description: merchant + " payment",
		Amount:      decimal.RequireFromString(amount),
		Currency:    "GBP",
		Merchant:    merchant,
	}
}

// persist stores transactions and returns them with IDs populated
func persist(t *testing.T, store repositories.Store, transactions ...models.Transaction) []models.Transaction {
	t.Helper()
	if err := store.Transactions().CreateBatch(transactions); err != nil {
		t.Fatalf("failed to persist transactions: %v", err)
	}
	return transactions
}

func quietEngineLogger() EngineLoggerInterface {
	return NewEngineLogger(slog.New(slog.DiscardHandler))
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *recordingPublisher) PublishSubscriptionDetected(ctx context.Context, subscription *models.Subscription) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, subscription.Name)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errBrokerDown = errors.New("broker down")
