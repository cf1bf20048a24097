package repositories

import "gorm.io/gorm"

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Categories() CategoryRepositoryInterface {
	return NewCategoryRepository(s.db)
}

func (s *gormStore) PaymentMethods() PaymentMethodRepositoryInterface {
	return NewPaymentMethodRepository(s.db)
}

func (s *gormStore) Subscriptions() SubscriptionRepositoryInterface {
	return NewSubscriptionRepository(s.db)
}

func (s *gormStore) Transactions() TransactionRepositoryInterface {
	return NewTransactionRepository(s.db)
}

func (s *gormStore) Notifications() NotificationRepositoryInterface {
	return NewNotificationRepository(s.db)
}

func (s *gormStore) WithinTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
