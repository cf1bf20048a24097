package handlers

import (
	"encoding/json"
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

type NotificationHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockNotificationServiceInterface
	handler     *NotificationHandler
	echo        *echo.Echo
}

func (s *NotificationHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockNotificationServiceInterface(s.ctrl)
	s.handler = NewNotificationHandler(s.mockService)
	s.echo = newTestEcho()
}

func (s *NotificationHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerSuite))
}

func (s *NotificationHandlerSuite) TestListNotifications_UnreadOnly() {
	gomock.InOrder(
		s.mockService.EXPECT().ListNotifications(gomock.Any(), true).Return([]models.Notification{
			{ID: uuid.New(), Title: "Upcoming Payment", Message: "Netflix - £15.99 due in 4 days", Type: "warning"},
		}, nil),
		s.mockService.EXPECT().CountUnread(gomock.Any()).Return(int64(1), nil),
	)

	c, rec := newJSONContext(s.echo, http.MethodGet, "/api/notifications?unread_only=true", nil)
	s.NoError(s.handler.ListNotifications(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.NotificationListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Notifications, 1)
	s.Equal(int64(1), resp.UnreadCount)
}

func (s *NotificationHandlerSuite) TestMarkRead() {
	id := uuid.New()
	s.mockService.EXPECT().MarkRead(gomock.Any(), id).Return(nil)

	c, rec := newJSONContext(s.echo, http.MethodPut, "/api/notifications/"+id.String()+"/read", nil)
	s.NoError(s.handler.MarkRead(withIDParam(c, id.String())))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *NotificationHandlerSuite) TestMarkRead_NotFound() {
	id := uuid.New()
	s.mockService.EXPECT().MarkRead(gomock.Any(), id).Return(services.ErrNotificationNotFound)

	c, rec := newJSONContext(s.echo, http.MethodPut, "/api/notifications/"+id.String()+"/read", nil)
	s.NoError(s.handler.MarkRead(withIDParam(c, id.String())))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(errors.NotificationNotFound), decodeError(rec).Error.Code)
}

func (s *NotificationHandlerSuite) TestMarkAllRead() {
	s.mockService.EXPECT().MarkAllRead(gomock.Any()).Return(int64(3), nil)

	c, rec := newJSONContext(s.echo, http.MethodPost, "/api/notifications/mark-all-read", nil)
	s.NoError(s.handler.MarkAllRead(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.MessageResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Marked 3 notifications as read", resp.Message)
}
