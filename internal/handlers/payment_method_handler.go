package handlers

import (
	stderrors "errors"
	"net/http"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentMethodHandler handles payment method HTTP requests
type PaymentMethodHandler struct {
	paymentMethodService services.PaymentMethodServiceInterface
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(paymentMethodService services.PaymentMethodServiceInterface) *PaymentMethodHandler {
	return &PaymentMethodHandler{paymentMethodService: paymentMethodService}
}

// ListPaymentMethods returns every payment method ordered by name
// @Summary List payment methods
// @Tags PaymentMethods
// @Produce json
// @Success 200 {object} dto.PaymentMethodListResponse
// @Router /payment-methods [get]
func (h *PaymentMethodHandler) ListPaymentMethods(c echo.Context) error {
	methods, err := h.paymentMethodService.ListPaymentMethods(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PaymentMethodListResponse{PaymentMethods: methods})
}

// CreatePaymentMethod adds a payment method
// @Summary Create payment method
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentMethodRequest true "Payment method"
// @Success 201 {object} models.PaymentMethod
// @Failure 409 {object} errors.ErrorResponse "PAYMENT_METHOD_002 - Payment method already exists"
// @Router /payment-methods [post]
func (h *PaymentMethodHandler) CreatePaymentMethod(c echo.Context) error {
	var req dto.CreatePaymentMethodRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	method, err := h.paymentMethodService.CreatePaymentMethod(c.Request().Context(), &req)
	if err != nil {
		if stderrors.Is(err, services.ErrPaymentMethodAlreadyExists) {
			return SendError(c, errors.PaymentMethodAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, method)
}

// DeletePaymentMethod removes an unused payment method
// @Summary Delete payment method
// @Tags PaymentMethods
// @Param id path string true "Payment method ID (UUID)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "PAYMENT_METHOD_001 - Payment method not found"
// @Failure 409 {object} errors.ErrorResponse "PAYMENT_METHOD_003 - Payment method is in use"
// @Router /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) DeletePaymentMethod(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "payment method")
	}

	if err := h.paymentMethodService.DeletePaymentMethod(c.Request().Context(), id); err != nil {
		switch {
		case stderrors.Is(err, services.ErrPaymentMethodNotFound):
			return SendError(c, errors.PaymentMethodNotFound)
		case stderrors.Is(err, services.ErrPaymentMethodInUse):
			return SendError(c, errors.PaymentMethodInUse, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Payment method deleted successfully"})
}
