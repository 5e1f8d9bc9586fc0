// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"strconv"

	"projexa-service/internal/domain/notification"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications retrieves paginated notifications for the current user
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var filters notification.NotificationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.notificationService.GetUserNotifications(c.Request.Context(), identityID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to get notifications")
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// GetNotification retrieves a single notification by ID
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	notifID, ok := pathID(c)
	if !ok {
		return
	}

	n, err := h.notificationService.GetByID(c.Request.Context(), notifID, identityID)
	if err != nil {
		response.FromError(c, err, "failed to load notification")
		return
	}

	response.Success(c, http.StatusOK, "notification retrieved", n)
}

// GetUnreadCount returns the badge counter
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), identityID)
	if err != nil {
		response.FromError(c, err, "failed to get unread count")
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{"unread_count": count})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	notifID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), notifID, identityID); err != nil {
		response.FromError(c, err, "failed to mark as read")
		return
	}

	count, _ := h.notificationService.GetUnreadCount(c.Request.Context(), identityID)
	response.Success(c, http.StatusOK, "notification marked as read", gin.H{"unread_count": count})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), identityID); err != nil {
		response.FromError(c, err, "failed to mark all as read")
		return
	}

	response.Success(c, http.StatusOK, "all notifications marked as read", gin.H{"unread_count": 0})
}

// Delete removes one notification of the current user
func (h *NotificationHandler) Delete(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	notifID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), notifID, identityID); err != nil {
		response.FromError(c, err, "failed to delete notification")
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return 0, false
	}
	return id, true
}
