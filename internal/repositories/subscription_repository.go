package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepositoryInterface {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *models.Subscription) error {
	if err := r.db.Omit(clause.Associations).Create(subscription).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) GetByID(id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.Preload("Category").Preload("PaymentMethod").
		Where("id = ?", id).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &subscription, nil
}

// FindByMerchant returns the oldest subscription, active or not, whose name
// contains merchant case-insensitively.
func (r *subscriptionRepository) FindByMerchant(merchant string) (*models.Subscription, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(merchant)) + "%"

	var subscriptions []models.Subscription
	if err := r.db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at ASC").Order("id ASC").
		Limit(1).
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to find subscription by merchant: %w", err)
	}
	if len(subscriptions) == 0 {
		return nil, ErrSubscriptionNotFound
	}
	return &subscriptions[0], nil
}

func (r *subscriptionRepository) List(filters models.SubscriptionFilters) ([]models.Subscription, error) {
	query := r.db.Model(&models.Subscription{}).Preload("Category").Preload("PaymentMethod")
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var subscriptions []models.Subscription
	if err := query.Order("created_at ASC").Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) ListActive() ([]models.Subscription, error) {
	active := true
	return r.List(models.SubscriptionFilters{IsActive: &active})
}

// ListDueBetween returns active subscriptions whose next billing date is within [from, to]
func (r *subscriptionRepository) ListDueBetween(from, to time.Time) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	if err := r.db.Where("is_active = ? AND next_billing_date IS NOT NULL AND next_billing_date >= ? AND next_billing_date <= ?",
		true, models.DateOnly(from), models.DateOnly(to)).
		Order("next_billing_date ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) CountActive() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count, nil
}

func (r *subscriptionRepository) Update(subscription *models.Subscription) error {
	if err := r.db.Omit(clause.Associations).Save(subscription).Error; err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription after unlinking its transactions and notifications,
// so no matched transaction is left pointing at a missing subscription.
func (r *subscriptionRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("subscription_id = ?", id).
			Updates(map[string]interface{}{"subscription_id": nil, "is_matched": false}).Error; err != nil {
			return fmt.Errorf("failed to unlink transactions: %w", err)
		}

		if err := tx.Model(&models.Notification{}).
			Where("subscription_id = ?", id).
			Update("subscription_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach notifications: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Subscription{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete subscription: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSubscriptionNotFound
		}
		return nil
	})
}
