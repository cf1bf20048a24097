package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSubscriptionNotFound          = errors.New("subscription not found")
	ErrInvalidAmount                 = errors.New("amount must be a positive decimal")
	ErrInvalidDate                   = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidReference              = errors.New("invalid identifier")
	ErrSubscriptionReferenceNotFound = errors.New("referenced category or payment method does not exist")
)

const dateLayout = "2006-01-02"

type subscriptionService struct {
	store           repositories.Store
	defaultCurrency string
}

// NewSubscriptionService creates a service for manually managed subscriptions
func NewSubscriptionService(store repositories.Store, defaultCurrency string) SubscriptionServiceInterface {
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &subscriptionService{
		store:           store,
		defaultCurrency: defaultCurrency,
	}
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filters models.SubscriptionFilters) ([]models.Subscription, error) {
	subscriptions, err := s.store.Subscriptions().List(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.store.Subscriptions().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return subscription, nil
}

// CreateSubscription stores the subscription and books its first charge as a
// matched transaction dated on the start date.
func (s *subscriptionService) CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	subscription := &models.Subscription{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Amount:       amount,
		Currency:     s.currencyOrDefault(req.Currency),
		BillingCycle: req.BillingCycle,
		StartDate:    startDate,
		IsActive:     true,
	}
	if req.IsActive != nil {
		subscription.IsActive = *req.IsActive
	}
	if req.NextBillingDate != nil && *req.NextBillingDate != "" {
		next, err := parseDate(*req.NextBillingDate)
		if err != nil {
			return nil, err
		}
		subscription.NextBillingDate = &next
	}
	if subscription.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		return nil, err
	}
	if subscription.PaymentMethodID, err = parseOptionalID(req.PaymentMethodID); err != nil {
		return nil, err
	}

	err = s.store.WithinTransaction(func(tx repositories.Store) error {
		if err := checkReferences(tx, subscription); err != nil {
			return err
		}

		if err := tx.Subscriptions().Create(subscription); err != nil {
			return err
		}

		initial := models.Transaction{
			Date:            subscription.StartDate,
			Description:     fmt.Sprintf("%s - %s subscription", subscription.Name, subscription.BillingCycle),
			Amount:          subscription.Amount.Abs().Neg(),
			Currency:        subscription.Currency,
			Merchant:        subscription.Name,
			PaymentMethodID: subscription.PaymentMethodID,
		}
		initial.LinkTo(subscription.ID)
		return tx.Transactions().Create(&initial)
	})
	if err != nil {
		if errors.Is(err, ErrSubscriptionReferenceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return s.GetSubscription(ctx, subscription.ID)
}

// UpdateSubscription applies the non-nil fields of req. An empty category or
// payment method id clears the reference.
func (s *subscriptionService) UpdateSubscription(ctx context.Context, id uuid.UUID, req *dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	err := s.store.WithinTransaction(func(tx repositories.Store) error {
		subscription, err := tx.Subscriptions().GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrSubscriptionNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}

		if err := applyUpdate(subscription, req); err != nil {
			return err
		}
		if err := checkReferences(tx, subscription); err != nil {
			return err
		}

		subscription.Category = nil
		subscription.PaymentMethod = nil
		return tx.Subscriptions().Update(subscription)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionNotFound),
			errors.Is(err, ErrSubscriptionReferenceNotFound),
			errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrInvalidDate),
			errors.Is(err, ErrInvalidReference):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return s.GetSubscription(ctx, id)
}

// DeleteSubscription removes the subscription and unlinks its transactions
func (s *subscriptionService) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Subscriptions().Delete(id); err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (s *subscriptionService) currencyOrDefault(currency string) string {
	if currency == "" {
		return s.defaultCurrency
	}
	return strings.ToUpper(currency)
}

func applyUpdate(subscription *models.Subscription, req *dto.UpdateSubscriptionRequest) error {
	if req.Name != nil {
		subscription.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		subscription.Description = *req.Description
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return err
		}
		subscription.Amount = amount
	}
	if req.Currency != nil {
		subscription.Currency = strings.ToUpper(*req.Currency)
	}
	if req.BillingCycle != nil {
		subscription.BillingCycle = *req.BillingCycle
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return err
		}
		subscription.StartDate = start
	}
	if req.NextBillingDate != nil {
		if *req.NextBillingDate == "" {
			subscription.NextBillingDate = nil
		} else {
			next, err := parseDate(*req.NextBillingDate)
			if err != nil {
				return err
			}
			subscription.NextBillingDate = &next
		}
	}
	if req.CategoryID != nil {
		id, err := parseOptionalID(req.CategoryID)
		if err != nil {
			return err
		}
		subscription.CategoryID = id
	}
	if req.PaymentMethodID != nil {
		id, err := parseOptionalID(req.PaymentMethodID)
		if err != nil {
			return err
		}
		subscription.PaymentMethodID = id
	}
	if req.IsActive != nil {
		subscription.IsActive = *req.IsActive
	}
	return nil
}

func checkReferences(tx repositories.Store, subscription *models.Subscription) error {
	if subscription.CategoryID != nil {
		if _, err := tx.Categories().GetByID(*subscription.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return ErrSubscriptionReferenceNotFound
			}
			return err
		}
	}
	if subscription.PaymentMethodID != nil {
		if _, err := tx.PaymentMethods().GetByID(*subscription.PaymentMethodID); err != nil {
			if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
				return ErrSubscriptionReferenceNotFound
			}
			return err
		}
	}
	return nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount.Round(2), nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return models.DateOnly(t), nil
}

func parseOptionalID(value *string) (*uuid.UUID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		return nil, ErrInvalidReference
	}
	return &id, nil
}
