package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"subscription-tracker/internal/importer"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
)

const DefaultTransactionPageSize = 100

type importService struct {
	store           repositories.Store
	reconciler      ReconcilerInterface
	notifications   NotificationServiceInterface
	metrics         MetricsRecorderInterface
	engineLog       EngineLoggerInterface
	defaultCurrency string
}

// NewImportService creates the ingestion service that feeds the detection engine
func NewImportService(
	store repositories.Store,
	reconciler ReconcilerInterface,
	notifications NotificationServiceInterface,
	metrics MetricsRecorderInterface,
	engineLog EngineLoggerInterface,
	defaultCurrency string,
) ImportServiceInterface {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if engineLog == nil {
		engineLog = NewEngineLogger(slog.Default())
	}
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &importService{
		store:           store,
		reconciler:      reconciler,
		notifications:   notifications,
		metrics:         metrics,
		engineLog:       engineLog,
		defaultCurrency: defaultCurrency,
	}
}

// ImportCSV parses r and imports its rows. Header problems fail the whole file.
func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportSummary, error) {
	rows, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.ImportRows(ctx, rows)
}

// ImportRows persists the parseable rows in one batch, runs detection over them
// and then sweeps for upcoming payments. Unparseable rows are skipped.
func (s *importService) ImportRows(ctx context.Context, rows []importer.Row) (*models.ImportSummary, error) {
	start := time.Now()
	s.engineLog.LogImportStarted(ctx, len(rows))

	paymentMethods := make(map[string]uuid.UUID)
	transactions := make([]models.Transaction, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		transaction, reason := s.buildTransaction(row)
		if reason != "" {
			skipped++
			s.metrics.IncrementCounter("import.rows.skipped", nil)
			s.engineLog.LogRowSkipped(ctx, row.Line, reason)
			continue
		}

		if name := strings.TrimSpace(row.PaymentMethod); name != "" {
			id, ok := paymentMethods[name]
			if !ok {
				method, err := s.store.PaymentMethods().GetOrCreate(name)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve payment method %q: %w", name, err)
				}
				id = method.ID
				paymentMethods[name] = id
			}
			transaction.PaymentMethodID = &id
		}

		transactions = append(transactions, transaction)
	}

	if err := s.store.Transactions().CreateBatch(transactions); err != nil {
		return nil, fmt.Errorf("failed to store transactions: %w", err)
	}
	for range transactions {
		s.metrics.IncrementCounter("import.rows.imported", nil)
	}

	detected, err := s.reconciler.Reconcile(ctx, transactions)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if _, err := s.notifications.SweepUpcoming(ctx); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	s.metrics.RecordProcessingTime("import.duration", elapsed)
	s.engineLog.LogImportCompleted(ctx, len(transactions), skipped, len(detected), elapsed.Milliseconds())

	return &models.ImportSummary{
		Message:               ImportMessage(len(transactions), len(detected)),
		Count:                 len(transactions),
		Skipped:               skipped,
		SubscriptionsDetected: len(detected),
		Subscriptions:         detected,
	}, nil
}

// ImportMessage formats the user-facing import result
func ImportMessage(imported, detected int) string {
	return fmt.Sprintf("Successfully imported %d transactions and detected %d subscriptions", imported, detected)
}

// buildTransaction converts a row, returning a non-empty reason when it must be skipped
func (s *importService) buildTransaction(row importer.Row) (models.Transaction, string) {
	date, err := importer.ParseDate(row.Date)
	if err != nil {
		return models.Transaction{}, err.Error()
	}
	amount, err := importer.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, err.Error()
	}

	description := strings.TrimSpace(row.Description)
	if description == "" {
		return models.Transaction{}, "description is empty"
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if len(currency) != 3 {
		return models.Transaction{}, fmt.Sprintf("invalid currency %q", row.Currency)
	}

	merchant := strings.TrimSpace(row.Merchant)
	if merchant == "" {
		merchant = models.MerchantFromDescription(description)
	}

	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Merchant:    merchant,
		RawData:     models.RawRow(row.Raw),
	}, ""
}

func (s *importService) ListTransactions(ctx context.Context, offset, limit int) ([]models.Transaction, int64, error) {
	if limit <= 0 {
		limit = DefaultTransactionPageSize
	}
	transactions, total, err := s.store.Transactions().GetWithFilters(models.TransactionFilters{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}
