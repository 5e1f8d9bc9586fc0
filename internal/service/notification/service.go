// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"

	"projexa-service/internal/domain/notification"
	wstypes "projexa-service/internal/domain/websocket"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	"projexa-service/internal/service/email"
	ws "projexa-service/internal/websocket"

	"go.uber.org/zap"
)

// NotificationService handles notification business logic
type NotificationService struct {
	repo        *postgres.NotificationRepository
	projectRepo *postgres.ProjectRepository
	emailSender *email.EmailSender
	hub         *ws.Hub
	logger      *zap.Logger
}

func NewNotificationService(
	repo *postgres.NotificationRepository,
	projectRepo *postgres.ProjectRepository,
	emailSender *email.EmailSender,
	hub *ws.Hub,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		repo:        repo,
		projectRepo: projectRepo,
		emailSender: emailSender,
		hub:         hub,
		logger:      logger,
	}
}

// CreateAndPush creates a notification and pushes it via WebSocket
func (s *NotificationService) CreateAndPush(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	n := &notification.Notification{
		IdentityID: req.IdentityID,
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
		Metadata:   req.Metadata,
	}
	if n.Type == "" {
		n.Type = notification.TypeInfo
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.pushToWebSocket(n)

	return n, nil
}

// GetByID retrieves a notification by ID
func (s *NotificationService) GetByID(ctx context.Context, id int64, identityID int64) (*notification.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Verify ownership
	if n.IdentityID != identityID {
		return nil, xerrors.ErrNotFound
	}

	return n, nil
}

// GetUserNotifications retrieves notifications for a user with filters
func (s *NotificationService) GetUserNotifications(ctx context.Context, identityID int64, filters *notification.NotificationListFilters) (*notification.NotificationListResponse, error) {
	// Set defaults
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	notifications, total, err := s.repo.GetUserNotifications(ctx, identityID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	summary, err := s.repo.GetSummary(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &notification.NotificationListResponse{
		Notifications: notifications,
		Summary:       *summary,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    totalPages,
	}, nil
}

// MarkAsRead marks a notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id int64, identityID int64) error {
	if err := s.repo.MarkAsRead(ctx, id, identityID); err != nil {
		return fmt.Errorf("failed to mark as read: %w", err)
	}

	s.pushUnreadCount(ctx, identityID)
	return nil
}

// MarkAllAsRead marks all notifications as read for a user
func (s *NotificationService) MarkAllAsRead(ctx context.Context, identityID int64) error {
	if _, err := s.repo.MarkAllAsRead(ctx, identityID); err != nil {
		return fmt.Errorf("failed to mark all as read: %w", err)
	}

	s.hub.SendToUser(identityID, wstypes.NewMessage(wstypes.EventTypeNotificationCount, map[string]interface{}{
		"unread": 0,
	}))
	return nil
}

// GetUnreadCount gets the count of unread notifications
func (s *NotificationService) GetUnreadCount(ctx context.Context, identityID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, identityID)
}

// GetSummary gets notification summary for a user
func (s *NotificationService) GetSummary(ctx context.Context, identityID int64) (*notification.NotificationSummary, error) {
	return s.repo.GetSummary(ctx, identityID)
}

// Delete deletes a notification
func (s *NotificationService) Delete(ctx context.Context, id int64, identityID int64) error {
	if err := s.repo.Delete(ctx, id, identityID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// HandleSocketAck processes notification acknowledgements arriving over the
// websocket instead of the REST API.
func (s *NotificationService) HandleSocketAck(ctx context.Context, identityID int64, notificationID int64, all bool) {
	var err error
	if all {
		err = s.MarkAllAsRead(ctx, identityID)
	} else {
		err = s.MarkAsRead(ctx, notificationID, identityID)
	}
	if err != nil {
		s.logger.Error("failed to process notification ack",
			zap.Int64("identity_id", identityID),
			zap.Bool("all", all),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) pushUnreadCount(ctx context.Context, identityID int64) {
	count, err := s.repo.GetUnreadCount(ctx, identityID)
	if err != nil {
		s.logger.Error("failed to get unread count", zap.Int64("identity_id", identityID), zap.Error(err))
		return
	}
	s.hub.SendToUser(identityID, wstypes.NewMessage(wstypes.EventTypeNotificationCount, map[string]interface{}{
		"unread": count,
	}))
}

// pushToWebSocket pushes notification to WebSocket
func (s *NotificationService) pushToWebSocket(n *notification.Notification) {
	if s.hub == nil {
		return
	}

	s.hub.SendToUser(n.IdentityID, wstypes.NewMessage(wstypes.EventTypeNotification, &wstypes.NotificationData{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}))
}
