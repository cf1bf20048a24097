package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrPaymentMethodNotFound      = errors.New("payment method not found")
	ErrPaymentMethodAlreadyExists = errors.New("payment method already exists")
	ErrPaymentMethodInUse         = errors.New("payment method is in use")
)

type paymentMethodService struct {
	store repositories.Store
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(store repositories.Store) PaymentMethodServiceInterface {
	return &paymentMethodService{store: store}
}

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	methods, err := s.store.PaymentMethods().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *paymentMethodService) CreatePaymentMethod(ctx context.Context, req *dto.CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	name := strings.TrimSpace(req.Name)

	if _, err := s.store.PaymentMethods().GetByName(name); err == nil {
		return nil, ErrPaymentMethodAlreadyExists
	} else if !errors.Is(err, repositories.ErrPaymentMethodNotFound) {
		return nil, fmt.Errorf("failed to check payment method: %w", err)
	}

	method := &models.PaymentMethod{Name: name}
	if err := s.store.PaymentMethods().Create(method); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return method, nil
}

// DeletePaymentMethod refuses to delete a method still used by subscriptions or transactions
func (s *paymentMethodService) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return s.store.WithinTransaction(func(tx repositories.Store) error {
		if _, err := tx.PaymentMethods().GetByID(id); err != nil {
			if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
				return ErrPaymentMethodNotFound
			}
			return fmt.Errorf("failed to get payment method: %w", err)
		}

		subscriptions, transactions, err := tx.PaymentMethods().CountUsage(id)
		if err != nil {
			return err
		}
		if subscriptions > 0 || transactions > 0 {
			return fmt.Errorf("%w: used by %d subscription(s) and %d transaction(s)",
				ErrPaymentMethodInUse, subscriptions, transactions)
		}

		if err := tx.PaymentMethods().Delete(id); err != nil {
			if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
				return ErrPaymentMethodNotFound
			}
			return err
		}
		return nil
	})
}
