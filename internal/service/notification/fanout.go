// internal/service/notification/fanout.go
package notification

import (
	"context"

	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/project"

	"go.uber.org/zap"
)

// FanOutProjectEvent notifies every project member about an event, except the
// actor and the concerned user. Each recipient gets an in-app notification, a
// websocket push and an email; one failing recipient never blocks the others.
func (s *NotificationService) FanOutProjectEvent(ctx context.Context, event *notification.ProjectEvent) {
	members, err := s.projectRepo.ListMembers(ctx, event.ProjectID)
	if err != nil {
		s.logger.Error("fan-out: failed to list project members",
			zap.Int64("project_id", event.ProjectID),
			zap.Error(err),
		)
		return
	}

	content := renderEvent(event)
	meta := eventMetadata(event)

	for _, member := range members {
		if !isRecipient(member, event) {
			continue
		}
		s.notifyMember(ctx, member, event, content, meta)
	}
}

// NotifyConcernedUser delivers the event directly to the user it is about,
// bypassing the fan-out exclusion. Used for "you were added" style messages.
func (s *NotificationService) NotifyConcernedUser(ctx context.Context, event *notification.ProjectEvent, userEmail string) {
	if event.ConcernedID == nil {
		return
	}

	content := renderEvent(event)
	meta := eventMetadata(event)

	s.notifyMember(ctx, project.Member{
		ProjectID: event.ProjectID,
		UserID:    *event.ConcernedID,
		Email:     userEmail,
	}, event, content, meta)
}

// isRecipient applies the fan-out rule: skip the actor, skip the concerned
// user and skip members who muted the project.
func isRecipient(member project.Member, event *notification.ProjectEvent) bool {
	if member.UserID == event.ActorID {
		return false
	}
	if event.ConcernedID != nil && member.UserID == *event.ConcernedID {
		return false
	}
	if member.IsMuted {
		return false
	}
	return true
}

func (s *NotificationService) notifyMember(ctx context.Context, member project.Member, event *notification.ProjectEvent, content rendered, meta map[string]interface{}) {
	n := &notification.Notification{
		IdentityID: member.UserID,
		Title:      content.Title,
		Message:    content.Message,
		Type:       notification.TypeInfo,
		Metadata:   meta,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("fan-out: failed to store notification",
			zap.Int64("identity_id", member.UserID),
			zap.String("event", string(event.Type)),
			zap.Error(err),
		)
	} else {
		s.pushToWebSocket(n)
	}

	if member.Email == "" {
		return
	}

	// Mail delivery is fire and forget.
	go func(to string) {
		if err := s.emailSender.Send(to, content.Subject, content.Body); err != nil {
			s.logger.Error("fan-out: failed to send email",
				zap.String("to", to),
				zap.String("event", string(event.Type)),
				zap.Error(err),
			)
		}
	}(member.Email)
}
