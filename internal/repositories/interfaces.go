package repositories

import (
	"time"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
)

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	GetOrCreate(name, color string) (*models.Category, error)
	List() ([]models.Category, error)
	Delete(id uuid.UUID) error
	CountSubscriptions(id uuid.UUID) (int64, error)
}

// PaymentMethodRepositoryInterface defines the contract for payment method repository operations
type PaymentMethodRepositoryInterface interface {
	Create(paymentMethod *models.PaymentMethod) error
	GetByID(id uuid.UUID) (*models.PaymentMethod, error)
	GetByName(name string) (*models.PaymentMethod, error)
	GetOrCreate(name string) (*models.PaymentMethod, error)
	List() ([]models.PaymentMethod, error)
	Delete(id uuid.UUID) error
	CountUsage(id uuid.UUID) (subscriptions, transactions int64, err error)
}

// SubscriptionRepositoryInterface defines the contract for subscription repository operations
type SubscriptionRepositoryInterface interface {
	Create(subscription *models.Subscription) error
	GetByID(id uuid.UUID) (*models.Subscription, error)
	FindByMerchant(merchant string) (*models.Subscription, error)
	List(filters models.SubscriptionFilters) ([]models.Subscription, error)
	ListActive() ([]models.Subscription, error)
	ListDueBetween(from, to time.Time) ([]models.Subscription, error)
	CountActive() (int64, error)
	Update(subscription *models.Subscription) error
	Delete(id uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetRecent(limit int) ([]models.Transaction, error)
	GetByDateRange(startDate, endDate *time.Time) ([]models.Transaction, error)
	GetWithPaymentMethod() ([]models.Transaction, error)
	GetBySubscriptionID(subscriptionID uuid.UUID) ([]models.Transaction, error)
	LinkToSubscription(ids []uuid.UUID, subscriptionID uuid.UUID) error
	UnlinkSubscription(subscriptionID uuid.UUID) error
}

// NotificationRepositoryInterface defines the contract for notification repository operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	List(filters models.NotificationFilters) ([]models.Notification, error)
	HasUnread(subscriptionID uuid.UUID, title string) (bool, error)
	CountUnread() (int64, error)
	MarkRead(id uuid.UUID) error
	MarkAllRead() (int64, error)
	DetachSubscription(subscriptionID uuid.UUID) error
}

// Store groups the repositories behind a single unit of work
type Store interface {
	Categories() CategoryRepositoryInterface
	PaymentMethods() PaymentMethodRepositoryInterface
	Subscriptions() SubscriptionRepositoryInterface
	Transactions() TransactionRepositoryInterface
	Notifications() NotificationRepositoryInterface

	// WithinTransaction runs fn against a Store bound to one database transaction.
	// Returning an error from fn rolls the transaction back.
	WithinTransaction(fn func(Store) error) error
}
