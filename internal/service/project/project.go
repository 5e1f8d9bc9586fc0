// internal/service/project/project.go
package project

import (
	"context"
	"database/sql"
	"fmt"

	"projexa-service/internal/domain/auth"
	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/project"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	notifsvc "projexa-service/internal/service/notification"

	"go.uber.org/zap"
)

type ProjectService struct {
	repo     *postgres.ProjectRepository
	userRepo *postgres.UserRepository
	notifier *notifsvc.NotificationService
	logger   *zap.Logger
}

func NewProjectService(
	repo *postgres.ProjectRepository,
	userRepo *postgres.UserRepository,
	notifier *notifsvc.NotificationService,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// ========== CRUD ==========

func (s *ProjectService) Create(ctx context.Context, ownerID int64, req *project.CreateProjectRequest) (*project.Project, error) {
	p := &project.Project{
		OwnerID: ownerID,
		Name:    req.Name,
		Status:  project.StatusNouveau,
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.StartsAt != nil {
		p.StartsAt = sql.NullTime{Time: *req.StartsAt, Valid: true}
	}
	if req.EndsAt != nil {
		p.EndsAt = sql.NullTime{Time: *req.EndsAt, Valid: true}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, userID int64, userRole string) (*project.Project, error) {
	if err := s.requireMember(ctx, projectID, userID, userRole); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, projectID)
}

func (s *ProjectService) List(ctx context.Context, userID int64, filters *project.ProjectListFilters) (*project.ProjectListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	projects, total, err := s.repo.ListForUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &project.ProjectListResponse{
		Projects:   projects,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID, userID int64, userRole string, req *project.UpdateProjectRequest) (*project.Project, error) {
	if err := s.requireManager(ctx, projectID, userID, userRole); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, projectID, req); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, projectID)
}

// Delete removes the project and everything attached to it. Only the owner or
// an administrator may do this.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID int64, userRole string) error {
	p, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID != userID && userRole != auth.RoleAdmin {
		return xerrors.ErrForbidden
	}
	return s.repo.Delete(ctx, projectID)
}

// ========== Status ==========

// ChangeStatus is the only path that mutates a project's status. The target
// must be reachable from the current status in the transition graph.
func (s *ProjectService) ChangeStatus(ctx context.Context, projectID, userID int64, userRole string, req *project.ChangeStatusRequest) (*project.Project, error) {
	if !project.IsValidStatus(req.Status) {
		return nil, xerrors.ErrInvalidInput
	}

	if err := s.requireManager(ctx, projectID, userID, userRole); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanChangeStatusTo(p.Status, req.Status) {
		return nil, xerrors.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, projectID, req.Status); err != nil {
		return nil, err
	}

	p.Status = req.Status
	return p, nil
}

// ========== Members ==========

func (s *ProjectService) AddMember(ctx context.Context, projectID, actorID int64, actorRole string, req *project.AddMemberRequest) error {
	if err := s.requireManager(ctx, projectID, actorID, actorRole); err != nil {
		return err
	}

	p, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	newMember, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	if err := s.repo.AddMember(ctx, projectID, req.UserID, role); err != nil {
		return err
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to load actor for member notification", zap.Error(err))
		return nil
	}

	// Tell the rest of the team, and the new member separately.
	event := &notification.ProjectEvent{
		Type:          notification.EventUserAdded,
		ProjectID:     projectID,
		ProjectName:   p.Name,
		ActorID:       actorID,
		ActorName:     actor.FullName,
		ConcernedID:   &newMember.ID,
		ConcernedName: newMember.FullName,
	}
	s.notifier.FanOutProjectEvent(ctx, event)

	direct := *event
	direct.Type = notification.EventUserAddedToProject
	s.notifier.NotifyConcernedUser(ctx, &direct, newMember.Email)

	return nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actorID int64, actorRole string, userID int64) error {
	if err := s.requireManager(ctx, projectID, actorID, actorRole); err != nil {
		return err
	}

	p, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		// The owner cannot be removed from their own project.
		return xerrors.ErrForbidden
	}

	return s.repo.RemoveMember(ctx, projectID, userID)
}

func (s *ProjectService) UpdateMember(ctx context.Context, projectID, actorID int64, actorRole string, userID int64, req *project.UpdateMemberRequest) error {
	// Members may mute their own feed; role changes need a manager.
	if req.Role != nil {
		if err := s.requireManager(ctx, projectID, actorID, actorRole); err != nil {
			return err
		}
	} else if actorID != userID {
		if err := s.requireManager(ctx, projectID, actorID, actorRole); err != nil {
			return err
		}
	}

	return s.repo.UpdateMember(ctx, projectID, userID, req)
}

func (s *ProjectService) ListMembers(ctx context.Context, projectID, userID int64, userRole string) ([]project.Member, error) {
	if err := s.requireMember(ctx, projectID, userID, userRole); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, projectID)
}

// ========== Authorization helpers ==========

func (s *ProjectService) requireMember(ctx context.Context, projectID, userID int64, userRole string) error {
	return requireProjectMember(ctx, s.repo, projectID, userID, userRole)
}

func requireProjectMember(ctx context.Context, repo *postgres.ProjectRepository, projectID, userID int64, userRole string) error {
	if userRole == auth.RoleAdmin {
		return nil
	}
	isMember, err := repo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return xerrors.ErrNotProjectMember
	}
	return nil
}

func (s *ProjectService) requireManager(ctx context.Context, projectID, userID int64, userRole string) error {
	if userRole == auth.RoleAdmin {
		return nil
	}
	member, err := s.repo.GetMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if member.Role != "manager" {
		return xerrors.ErrForbidden
	}
	return nil
}
