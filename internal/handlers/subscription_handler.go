package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

const defaultSubscriptionLimit = 100

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServiceInterface
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService services.SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// ListSubscriptions returns subscriptions, optionally filtered by is_active
// @Summary List subscriptions
// @Tags Subscriptions
// @Produce json
// @Param is_active query bool false "Only active or inactive subscriptions"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 100)"
// @Success 200 {object} dto.SubscriptionListResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	var query dto.ListSubscriptionsQuery
	if ok, err := bindAndValidate(c, &query); !ok {
		return err
	}
	if query.Limit == 0 {
		query.Limit = defaultSubscriptionLimit
	}

	filters := models.SubscriptionFilters{Offset: query.Skip, Limit: query.Limit}
	if query.IsActive != "" {
		isActive, _ := strconv.ParseBool(query.IsActive)
		filters.IsActive = &isActive
	}

	subscriptions, err := h.subscriptionService.ListSubscriptions(c.Request().Context(), filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SubscriptionListResponse{
		Subscriptions: subscriptions,
		Skip:          query.Skip,
		Limit:         query.Limit,
	})
}

// GetSubscription returns one subscription with its category and payment method
// @Summary Get subscription
// @Tags Subscriptions
// @Param id path string true "Subscription ID (UUID)"
// @Success 200 {object} models.Subscription
// @Failure 404 {object} errors.ErrorResponse "SUBSCRIPTION_001 - Subscription not found"
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "subscription")
	}

	subscription, err := h.subscriptionService.GetSubscription(c.Request().Context(), id)
	if err != nil {
		return h.sendSubscriptionError(c, err)
	}

	return c.JSON(http.StatusOK, subscription)
}

// CreateSubscription adds a subscription by hand and books its first charge
// @Summary Create subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CreateSubscriptionRequest true "Subscription"
// @Success 201 {object} models.Subscription
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 422 {object} errors.ErrorResponse "SUBSCRIPTION_004 - Referenced category or payment method does not exist"
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req dto.CreateSubscriptionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	subscription, err := h.subscriptionService.CreateSubscription(c.Request().Context(), &req)
	if err != nil {
		return h.sendSubscriptionError(c, err)
	}

	return c.JSON(http.StatusCreated, subscription)
}

// UpdateSubscription applies a partial update
// @Summary Update subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID (UUID)"
// @Param request body dto.UpdateSubscriptionRequest true "Fields to change"
// @Success 200 {object} models.Subscription
// @Failure 404 {object} errors.ErrorResponse "SUBSCRIPTION_001 - Subscription not found"
// @Router /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "subscription")
	}

	var req dto.UpdateSubscriptionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	subscription, err := h.subscriptionService.UpdateSubscription(c.Request().Context(), id, &req)
	if err != nil {
		return h.sendSubscriptionError(c, err)
	}

	return c.JSON(http.StatusOK, subscription)
}

// DeleteSubscription removes a subscription and unlinks its transactions
// @Summary Delete subscription
// @Tags Subscriptions
// @Param id path string true "Subscription ID (UUID)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "SUBSCRIPTION_001 - Subscription not found"
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "subscription")
	}

	if err := h.subscriptionService.DeleteSubscription(c.Request().Context(), id); err != nil {
		return h.sendSubscriptionError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Subscription deleted successfully"})
}

func (h *SubscriptionHandler) sendSubscriptionError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrSubscriptionNotFound):
		return SendError(c, errors.SubscriptionNotFound)
	case stderrors.Is(err, services.ErrSubscriptionReferenceNotFound):
		return SendError(c, errors.SubscriptionReferenceNotFound)
	case stderrors.Is(err, services.ErrInvalidAmount), stderrors.Is(err, models.ErrInvalidSubscriptionAmount):
		return SendError(c, errors.SubscriptionInvalidAmount)
	case stderrors.Is(err, models.ErrInvalidBillingCycle):
		return SendError(c, errors.SubscriptionInvalidCycle)
	case stderrors.Is(err, services.ErrInvalidDate):
		return SendError(c, errors.ValidationInvalidDate)
	case stderrors.Is(err, services.ErrInvalidReference):
		return SendError(c, errors.ValidationInvalidID)
	case stderrors.Is(err, models.ErrSubscriptionNameRequired), stderrors.Is(err, models.ErrInvalidCurrency):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
