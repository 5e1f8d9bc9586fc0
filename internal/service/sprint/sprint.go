// internal/service/sprint/sprint.go
package sprint

import (
	"context"
	"database/sql"
	"fmt"

	"projexa-service/internal/domain/sprint"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
)

type SprintService struct {
	repo        *postgres.SprintRepository
	projectRepo *postgres.ProjectRepository
}

func NewSprintService(repo *postgres.SprintRepository, projectRepo *postgres.ProjectRepository) *SprintService {
	return &SprintService{repo: repo, projectRepo: projectRepo}
}

func (s *SprintService) Create(ctx context.Context, userID int64, req *sprint.CreateSprintRequest) (*sprint.Sprint, error) {
	if err := s.requireMember(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}

	sp := &sprint.Sprint{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Status:    sprint.StatusPlanned,
	}
	if req.StartsAt != nil {
		sp.StartsAt = sql.NullTime{Time: *req.StartsAt, Valid: true}
	}
	if req.EndsAt != nil {
		sp.EndsAt = sql.NullTime{Time: *req.EndsAt, Valid: true}
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}
	return sp, nil
}

func (s *SprintService) Get(ctx context.Context, sprintID, userID int64) (*sprint.Sprint, error) {
	sp, err := s.repo.FindByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, sp.ProjectID, userID); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SprintService) ListByProject(ctx context.Context, projectID, userID int64) ([]sprint.Sprint, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *SprintService) Update(ctx context.Context, sprintID, userID int64, req *sprint.UpdateSprintRequest) (*sprint.Sprint, error) {
	sp, err := s.repo.FindByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, sp.ProjectID, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sprintID, req); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, sprintID)
}

// Delete removes the sprint; its tasks are kept and detached.
func (s *SprintService) Delete(ctx context.Context, sprintID, userID int64) error {
	sp, err := s.repo.FindByID(ctx, sprintID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, sp.ProjectID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, sprintID)
}

func (s *SprintService) requireMember(ctx context.Context, projectID, userID int64) error {
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return xerrors.ErrNotProjectMember
	}
	return nil
}
