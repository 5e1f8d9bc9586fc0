// internal/service/project/meeting.go
package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"projexa-service/internal/integration/zoom"
	"projexa-service/internal/repository/postgres"
)

// MeetingService schedules Zoom meetings for a project and keeps their
// join links alongside it.
type MeetingService struct {
	repo        *postgres.MeetingRepository
	projectRepo *postgres.ProjectRepository
	zoom        *zoom.Client
}

func NewMeetingService(repo *postgres.MeetingRepository, projectRepo *postgres.ProjectRepository, zoomClient *zoom.Client) *MeetingService {
	return &MeetingService{
		repo:        repo,
		projectRepo: projectRepo,
		zoom:        zoomClient,
	}
}

type ScheduleMeetingRequest struct {
	Topic       string    `json:"topic" binding:"required,max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	DurationMin int       `json:"duration_min" binding:"required,min=5,max=480"`
}

func (s *MeetingService) Schedule(ctx context.Context, projectID, userID int64, userRole string, req *ScheduleMeetingRequest) (*postgres.Meeting, error) {
	if err := requireProjectMember(ctx, s.projectRepo, projectID, userID, userRole); err != nil {
		return nil, err
	}

	zm, err := s.zoom.CreateMeeting(ctx, req.Topic, req.StartsAt, req.DurationMin)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule zoom meeting: %w", err)
	}

	m := &postgres.Meeting{
		ProjectID:   projectID,
		CreatedBy:   userID,
		ZoomID:      fmt.Sprintf("%d", zm.ID),
		Topic:       zm.Topic,
		JoinURL:     zm.JoinURL,
		StartsAt:    sql.NullTime{Time: req.StartsAt, Valid: true},
		DurationMin: req.DurationMin,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeetingService) ListByProject(ctx context.Context, projectID, userID int64, userRole string) ([]postgres.Meeting, error) {
	if err := requireProjectMember(ctx, s.projectRepo, projectID, userID, userRole); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}
