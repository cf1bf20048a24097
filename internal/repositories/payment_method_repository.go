package repositories

import (
	"errors"
	"fmt"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)

type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepositoryInterface {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(paymentMethod *models.PaymentMethod) error {
	if err := r.db.Create(paymentMethod).Error; err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

func (r *paymentMethodRepository) GetByID(id uuid.UUID) (*models.PaymentMethod, error) {
	var paymentMethod models.PaymentMethod
	if err := r.db.Where("id = ?", id).First(&paymentMethod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &paymentMethod, nil
}

func (r *paymentMethodRepository) GetByName(name string) (*models.PaymentMethod, error) {
	var paymentMethod models.PaymentMethod
	if err := r.db.Where("name = ?", name).First(&paymentMethod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to get payment method by name: %w", err)
	}
	return &paymentMethod, nil
}

func (r *paymentMethodRepository) GetOrCreate(name string) (*models.PaymentMethod, error) {
	existing, err := r.GetByName(name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrPaymentMethodNotFound) {
		return nil, err
	}

	paymentMethod := &models.PaymentMethod{Name: name}
	if createErr := r.db.Create(paymentMethod).Error; createErr != nil {
		if existing, err := r.GetByName(name); err == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create payment method: %w", createErr)
	}
	return paymentMethod, nil
}

func (r *paymentMethodRepository) List() ([]models.PaymentMethod, error) {
	var paymentMethods []models.PaymentMethod
	if err := r.db.Order("name ASC").Find(&paymentMethods).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return paymentMethods, nil
}

func (r *paymentMethodRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.PaymentMethod{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

// CountUsage returns how many subscriptions and transactions reference the payment method
func (r *paymentMethodRepository) CountUsage(id uuid.UUID) (subscriptions, transactions int64, err error) {
	if err = r.db.Model(&models.Subscription{}).Where("payment_method_id = ?", id).Count(&subscriptions).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count payment method subscriptions: %w", err)
	}
	if err = r.db.Model(&models.Transaction{}).Where("payment_method_id = ?", id).Count(&transactions).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count payment method transactions: %w", err)
	}
	return subscriptions, transactions, nil
}
