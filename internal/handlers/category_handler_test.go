package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/models"
	"subscription-tracker/internal/services"
	"subscription-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type CategoryHandlerSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	categories    *service_mocks.MockCategoryServiceInterface
	methods       *service_mocks.MockPaymentMethodServiceInterface
	handler       *CategoryHandler
	methodHandler *PaymentMethodHandler
	echo          *echo.Echo
}

func (s *CategoryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categories = service_mocks.NewMockCategoryServiceInterface(s.ctrl)
	s.methods = service_mocks.NewMockPaymentMethodServiceInterface(s.ctrl)
	s.handler = NewCategoryHandler(s.categories)
	s.methodHandler = NewPaymentMethodHandler(s.methods)
	s.echo = newTestEcho()
}

func (s *CategoryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCategoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerSuite))
}

func (s *CategoryHandlerSuite) TestListCategories() {
	s.categories.EXPECT().ListCategories(gomock.Any()).Return([]models.Category{
		{ID: uuid.New(), Name: "Software", Color: "#6366f1"},
		{ID: uuid.New(), Name: "Streaming", Color: "#ec4899"},
	}, nil)

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/categories", nil)
	s.NoError(s.handler.ListCategories(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.CategoryListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Categories, 2)
	s.Equal("Software", resp.Categories[0].Name)
}

func (s *CategoryHandlerSuite) TestListCategories_StoreFailure() {
	s.categories.EXPECT().ListCategories(gomock.Any()).Return(nil, fmt.Errorf("database is locked"))

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/categories", nil)
	s.NoError(s.handler.ListCategories(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	resp := decodeError(rec)
	s.Equal(string(errors.SystemInternalError), resp.Error.Code)
	s.Equal("test-trace-id", resp.Error.TraceID)
	s.NotContains(rec.Body.String(), "database is locked")
}

func (s *CategoryHandlerSuite) TestCreateCategory() {
	s.categories.EXPECT().
		CreateCategory(gomock.Any(), &dto.CreateCategoryRequest{Name: "Fitness", Color: "#22c55e"}).
		Return(&models.Category{ID: uuid.New(), Name: "Fitness", Color: "#22c55e"}, nil)

	c, rec := newJSONContext(s.echo, http.MethodPost, "/api/categories",
		map[string]string{"name": "Fitness", "color": "#22c55e"})
	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *CategoryHandlerSuite) TestCreateCategory_Validation() {
	c, rec := newJSONContext(s.echo, http.MethodPost, "/api/categories",
		map[string]string{"name": "", "color": "pink"})
	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusBadRequest, rec.Code)

	resp := decodeError(rec)
	s.Equal(string(errors.ValidationGeneral), resp.Error.Code)
	s.Len(resp.Error.Details, 2)
}

func (s *CategoryHandlerSuite) TestCreateCategory_Conflict() {
	s.categories.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil, services.ErrCategoryAlreadyExists)

	c, rec := newJSONContext(s.echo, http.MethodPost, "/api/categories", map[string]string{"name": "Streaming"})
	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(errors.CategoryAlreadyExists), decodeError(rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory() {
	id := uuid.New()
	s.categories.EXPECT().DeleteCategory(gomock.Any(), id).Return(nil)

	c, rec := newJSONContext(s.echo, http.MethodDelete, "/api/categories/"+id.String(), nil)
	s.NoError(s.handler.DeleteCategory(withIDParam(c, id.String())))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory_Errors() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{"not found", services.ErrCategoryNotFound, http.StatusNotFound, errors.CategoryNotFound},
		{"in use", fmt.Errorf("%w: used by 2 subscription(s)", services.ErrCategoryInUse), http.StatusConflict, errors.CategoryInUse},
		{"store failure", fmt.Errorf("boom"), http.StatusInternalServerError, errors.SystemInternalError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id := uuid.New()
			s.categories.EXPECT().DeleteCategory(gomock.Any(), id).Return(tc.err)

			c, rec := newJSONContext(s.echo, http.MethodDelete, "/api/categories/"+id.String(), nil)
			s.NoError(s.handler.DeleteCategory(withIDParam(c, id.String())))
			s.Equal(tc.wantStatus, rec.Code)
			s.Equal(string(tc.wantCode), decodeError(rec).Error.Code)
		})
	}
}

func (s *CategoryHandlerSuite) TestDeleteCategory_InUseNamesUsage() {
	id := uuid.New()
	s.categories.EXPECT().DeleteCategory(gomock.Any(), id).
		Return(fmt.Errorf("%w: used by 3 subscription(s)", services.ErrCategoryInUse))

	c, rec := newJSONContext(s.echo, http.MethodDelete, "/api/categories/"+id.String(), nil)
	s.NoError(s.handler.DeleteCategory(withIDParam(c, id.String())))

	resp := decodeError(rec)
	s.Require().Len(resp.Error.Details, 1)
	s.Contains(resp.Error.Details[0], "used by 3 subscription(s)")
}

func (s *CategoryHandlerSuite) TestDeleteCategory_InvalidID() {
	c, rec := newJSONContext(s.echo, http.MethodDelete, "/api/categories/abc", nil)
	s.NoError(s.handler.DeleteCategory(withIDParam(c, "abc")))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationInvalidID), decodeError(rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestPaymentMethods() {
	s.methods.EXPECT().ListPaymentMethods(gomock.Any()).Return([]models.PaymentMethod{{ID: uuid.New(), Name: "Visa"}}, nil)
	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/payment-methods", nil)
	s.NoError(s.methodHandler.ListPaymentMethods(c))
	s.Equal(http.StatusOK, rec.Code)

	s.methods.EXPECT().CreatePaymentMethod(gomock.Any(), gomock.Any()).Return(nil, services.ErrPaymentMethodAlreadyExists)
	c, rec = newJSONContext(s.echo, http.MethodPost, "/api/payment-methods", map[string]string{"name": "Visa"})
	s.NoError(s.methodHandler.CreatePaymentMethod(c))
	s.Equal(http.StatusConflict, rec.Code)

	id := uuid.New()
	s.methods.EXPECT().DeletePaymentMethod(gomock.Any(), id).
		Return(fmt.Errorf("%w: used by 1 subscription(s) and 4 transaction(s)", services.ErrPaymentMethodInUse))
	c, rec = newJSONContext(s.echo, http.MethodDelete, "/api/payment-methods/"+id.String(), nil)
	s.NoError(s.methodHandler.DeletePaymentMethod(withIDParam(c, id.String())))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(errors.PaymentMethodInUse), decodeError(rec).Error.Code)

	s.methods.EXPECT().DeletePaymentMethod(gomock.Any(), id).Return(services.ErrPaymentMethodNotFound)
	c, rec = newJSONContext(s.echo, http.MethodDelete, "/api/payment-methods/"+id.String(), nil)
	s.NoError(s.methodHandler.DeletePaymentMethod(withIDParam(c, id.String())))
	s.Equal(http.StatusNotFound, rec.Code)
}
