package repositories

import (
	"errors"
	"fmt"
	"time"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

const batchSize = 500

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Omit(clause.Associations).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch creates multiple transactions in a single database transaction.
// IDs are populated on the passed slice.
func (r *transactionRepository) CreateBatch(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).CreateInBatches(&transactions, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetWithFilters retrieves transactions newest first with optional date, merchant and paging filters
func (r *transactionRepository) GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{})

	if filters.StartDate != nil {
		query = query.Where("date >= ?", models.DateOnly(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where("date < ?", models.DateOnly(*filters.EndDate))
	}
	if filters.Merchant != "" {
		query = query.Where("merchant = ?", filters.Merchant)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC").Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// GetRecent retrieves the most recent transactions by date
func (r *transactionRepository) GetRecent(limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Order("date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// GetByDateRange retrieves transactions with date in [startDate, endDate). Nil bounds are open.
func (r *transactionRepository) GetByDateRange(startDate, endDate *time.Time) ([]models.Transaction, error) {
	query := r.db.Model(&models.Transaction{})
	if startDate != nil {
		query = query.Where("date >= ?", models.DateOnly(*startDate))
	}
	if endDate != nil {
		query = query.Where("date < ?", models.DateOnly(*endDate))
	}

	var transactions []models.Transaction
	if err := query.Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GetWithPaymentMethod retrieves transactions that reference a payment method
func (r *transactionRepository) GetWithPaymentMethod() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("PaymentMethod").
		Where("payment_method_id IS NOT NULL").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions with payment method: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) GetBySubscriptionID(subscriptionID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get subscription transactions: %w", err)
	}
	return transactions, nil
}

// LinkToSubscription marks the given transactions as matched to subscriptionID
func (r *transactionRepository) LinkToSubscription(ids []uuid.UUID, subscriptionID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Model(&models.Transaction{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"subscription_id": subscriptionID, "is_matched": true}).Error; err != nil {
		return fmt.Errorf("failed to link transactions: %w", err)
	}
	return nil
}

func (r *transactionRepository) UnlinkSubscription(subscriptionID uuid.UUID) error {
	if err := r.db.Model(&models.Transaction{}).
		Where("subscription_id = ?", subscriptionID).
		Updates(map[string]interface{}{"subscription_id": nil, "is_matched": false}).Error; err != nil {
		return fmt.Errorf("failed to unlink transactions: %w", err)
	}
	return nil
}
