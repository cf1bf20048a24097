package handlers

import (
	stderrors "errors"
	"net/http"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns every category ordered by name
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} dto.CategoryListResponse
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CategoryListResponse{Categories: categories})
}

// CreateCategory adds a category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Category already exists"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req dto.CreateCategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), &req)
	if err != nil {
		if stderrors.Is(err, services.ErrCategoryAlreadyExists) {
			return SendError(c, errors.CategoryAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes a category that no subscription references
// @Summary Delete category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid category ID"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_003 - Category is in use"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := getIDParam(c, "id")
	if err != nil {
		return invalidIDError(c, "category")
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		switch {
		case stderrors.Is(err, services.ErrCategoryNotFound):
			return SendError(c, errors.CategoryNotFound)
		case stderrors.Is(err, services.ErrCategoryInUse):
			return SendError(c, errors.CategoryInUse, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Category deleted successfully"})
}
