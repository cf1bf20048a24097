package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationServiceInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications returns notifications newest first with the unread count
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param unread_only query bool false "Only unread notifications"
// @Success 200 {object} dto.NotificationListResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	var query dto.NotificationListQuery
	if ok, err := bindAndValidate(c, &query); !ok {
		return err
	}

	ctx := c.Request().Context()
	notifications, err := h.notificationService.ListNotifications(ctx, query.UnreadOnly)
	if err != nil {
		return SendSystemError(c, err)
	}

	unread, err := h.notificationService.CountUnread(ctx)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Param id path string true "Notification ID (UUID)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "NOTIFICATION_001 - Notification not found"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "notification")
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), id); err != nil {
		if stderrors.Is(err, services.ErrNotificationNotFound) {
			return SendError(c, errors.NotificationNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllRead marks every unread notification as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Success 200 {object} dto.MessageResponse
// @Router /notifications/mark-all-read [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	updated, err := h.notificationService.MarkAllRead(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Marked %d notifications as read", updated),
	})
}
