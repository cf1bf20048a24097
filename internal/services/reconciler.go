package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"subscription-tracker/internal/models"
	"subscription-tracker/internal/repositories"

	"github.com/google/uuid"
)

const eventSubscriptionDetected = "subscription.detected"

type reconciler struct {
	store      repositories.Store
	classifier *CadenceClassifier
	categories CategoryServiceInterface
	publisher  EventPublisherInterface
	breaker    CircuitBreakerInterface
	metrics    MetricsRecorderInterface
	engineLog  EngineLoggerInterface
	locks      *keyedMutex
}

// NewReconciler creates the reconciler. publisher may be nil, which disables events.
func NewReconciler(
	store repositories.Store,
	classifier *CadenceClassifier,
	categories CategoryServiceInterface,
	publisher EventPublisherInterface,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	engineLog EngineLoggerInterface,
) ReconcilerInterface {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig())
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if engineLog == nil {
		engineLog = NewEngineLogger(slog.Default())
	}
	return &reconciler{
		store:      store,
		classifier: classifier,
		categories: categories,
		publisher:  publisher,
		breaker:    breaker,
		metrics:    metrics,
		engineLog:  engineLog,
		locks:      newKeyedMutex(),
	}
}

// Reconcile processes merchant groups in sorted order. Each group commits on its
// own; a store failure stops the run and leaves earlier groups committed.
func (r *reconciler) Reconcile(ctx context.Context, transactions []models.Transaction) ([]models.Subscription, error) {
	groups := GroupByMerchant(transactions)

	var created []models.Subscription
	for _, merchant := range SortedMerchants(groups) {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		classification := r.classifier.Classify(merchant, groups[merchant])
		if !classification.Recurring {
			r.metrics.IncrementCounter("detection.group.rejected", map[string]string{"reason": string(classification.Reason)})
			r.engineLog.LogGroupRejected(ctx, merchant, len(groups[merchant]), string(classification.Reason))
			continue
		}

		subscription, err := r.reconcileGroup(ctx, classification)
		if err != nil {
			return created, fmt.Errorf("failed to reconcile merchant %q: %w", merchant, err)
		}
		if subscription != nil {
			created = append(created, *subscription)
		}
	}

	for i := range created {
		r.publishDetected(ctx, &created[i])
	}

	return created, nil
}

// reconcileGroup links the group to an existing subscription or creates one.
// It returns the subscription only when it was created.
func (r *reconciler) reconcileGroup(ctx context.Context, c Classification) (*models.Subscription, error) {
	unlock := r.locks.Lock(c.Merchant)
	defer unlock()

	ids := transactionIDs(c.Transactions)

	existing, err := r.store.Subscriptions().FindByMerchant(c.Merchant)
	if err != nil && !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := r.store.Transactions().LinkToSubscription(ids, existing.ID); err != nil {
			return nil, err
		}
		r.metrics.IncrementCounter("detection.group.linked", nil)
		r.engineLog.LogGroupLinked(ctx, c.Merchant, existing.ID, len(ids))
		return nil, nil
	}

	category, err := r.categories.ResolveCategory(ctx, c.Merchant)
	if err != nil {
		return nil, err
	}

	subscription := &models.Subscription{
		Name:            c.Merchant,
		Amount:          c.MeanAmount.Round(models.AmountScale),
		Currency:        c.Transactions[0].Currency,
		BillingCycle:    c.BillingCycle,
		CategoryID:      &category.ID,
		StartDate:       c.StartDate(),
		NextBillingDate: c.NextBillingDate(),
		IsActive:        true,
	}

	var linkedExisting bool
	err = r.store.WithinTransaction(func(tx repositories.Store) error {
		// Re-check inside the unit of work in case another process created it
		found, err := tx.Subscriptions().FindByMerchant(c.Merchant)
		if err != nil && !errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return err
		}
		if found != nil {
			linkedExisting = true
			subscription = found
			return tx.Transactions().LinkToSubscription(ids, found.ID)
		}

		if err := tx.Subscriptions().Create(subscription); err != nil {
			return err
		}
		if err := tx.Transactions().LinkToSubscription(ids, subscription.ID); err != nil {
			return err
		}

		subscriptionID := subscription.ID
		return tx.Notifications().Create(&models.Notification{
			Title:          models.NotificationTitleNewSubscription,
			Message:        fmt.Sprintf("%s - £%s/%s", subscription.Name, subscription.Amount.StringFixed(2), subscription.BillingCycle),
			Type:           models.NotificationTypeSuccess,
			SubscriptionID: &subscriptionID,
		})
	})
	if err != nil {
		return nil, err
	}

	if linkedExisting {
		r.metrics.IncrementCounter("detection.group.linked", nil)
		r.engineLog.LogGroupLinked(ctx, c.Merchant, subscription.ID, len(ids))
		return nil, nil
	}

	subscription.Category = category
	r.metrics.IncrementCounter("detection.group.created", nil)
	r.metrics.IncrementCounter("notification.created", map[string]string{"type": models.NotificationTypeSuccess})
	r.engineLog.LogSubscriptionDetected(ctx, subscription, len(ids))
	return subscription, nil
}

// publishDetected never fails the import; failures only feed the circuit breaker
func (r *reconciler) publishDetected(ctx context.Context, subscription *models.Subscription) {
	if r.publisher == nil {
		return
	}
	if r.breaker.IsOpen() {
		slog.Debug("skipping event publish, circuit open", "subscription_id", subscription.ID)
		return
	}

	tags := map[string]string{"event": eventSubscriptionDetected}
	if err := r.publisher.PublishSubscriptionDetected(ctx, subscription); err != nil {
		r.breaker.RecordFailure()
		r.metrics.IncrementCounter("event.failed", tags)
		r.engineLog.LogEventPublishFailed(ctx, eventSubscriptionDetected, err.Error())
		return
	}
	r.breaker.RecordSuccess()
	r.metrics.IncrementCounter("event.published", tags)
}

func transactionIDs(transactions []models.Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, t := range transactions {
		ids = append(ids, t.ID)
	}
	return ids
}
