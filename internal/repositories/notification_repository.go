package repositories

import (
	"errors"
	"fmt"

	"subscription-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepositoryInterface {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

// List returns notifications newest first
func (r *notificationRepository) List(filters models.NotificationFilters) ([]models.Notification, error) {
	query := r.db.Model(&models.Notification{})
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// HasUnread reports whether an unread notification with title exists for the subscription
func (r *notificationRepository) HasUnread(subscriptionID uuid.UUID, title string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("subscription_id = ? AND title = ? AND is_read = ?", subscriptionID, title, false).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check unread notifications: %w", err)
	}
	return count > 0, nil
}

func (r *notificationRepository) CountUnread() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(id uuid.UUID) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification as read and returns how many changed
func (r *notificationRepository) MarkAllRead() (int64, error) {
	result := r.db.Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) DetachSubscription(subscriptionID uuid.UUID) error {
	if err := r.db.Model(&models.Notification{}).
		Where("subscription_id = ?", subscriptionID).
		Update("subscription_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach notifications: %w", err)
	}
	return nil
}
