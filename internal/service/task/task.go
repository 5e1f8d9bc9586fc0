// internal/service/task/task.go
package task

import (
	"context"
	"database/sql"
	"fmt"

	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/task"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	notifsvc "projexa-service/internal/service/notification"

	"go.uber.org/zap"
)

type TaskService struct {
	repo        *postgres.TaskRepository
	projectRepo *postgres.ProjectRepository
	userRepo    *postgres.UserRepository
	notifier    *notifsvc.NotificationService
	logger      *zap.Logger
}

func NewTaskService(
	repo *postgres.TaskRepository,
	projectRepo *postgres.ProjectRepository,
	userRepo *postgres.UserRepository,
	notifier *notifsvc.NotificationService,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		repo:        repo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *TaskService) Create(ctx context.Context, userID int64, req *task.CreateTaskRequest) (*task.Task, error) {
	if err := s.requireMember(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}

	// The assignee must belong to the same project.
	if req.AssigneeID != nil {
		if err := s.requireMember(ctx, req.ProjectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	t := &task.Task{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Status:    task.StatusTodo,
		Priority:  req.Priority,
		CreatedBy: userID,
	}
	if t.Priority == "" {
		t.Priority = "normal"
	}
	if req.SprintID != nil {
		t.SprintID = sql.NullInt64{Int64: *req.SprintID, Valid: true}
	}
	if req.AssigneeID != nil {
		t.AssigneeID = sql.NullInt64{Int64: *req.AssigneeID, Valid: true}
	}
	if req.Description != "" {
		t.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.DueAt != nil {
		t.DueAt = sql.NullTime{Time: *req.DueAt, Valid: true}
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.fanOut(ctx, t, userID, notification.EventTaskCreated)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, taskID, userID int64) (*task.Task, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID int64, filters *task.TaskListFilters) (*task.TaskListResponse, error) {
	if filters.ProjectID == nil {
		return nil, xerrors.ErrInvalidInput
	}
	if err := s.requireMember(ctx, *filters.ProjectID, userID); err != nil {
		return nil, err
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	tasks, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &task.TaskListResponse{
		Tasks:      tasks,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *TaskService) Update(ctx context.Context, taskID, userID int64, req *task.UpdateTaskRequest) (*task.Task, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := s.requireMember(ctx, t.ProjectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, taskID, req); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.fanOut(ctx, updated, userID, notification.EventTaskUpdated)
	return updated, nil
}

// Delete removes the task together with its comments and any pending
// remunerations pointing at it.
func (s *TaskService) Delete(ctx context.Context, taskID, userID int64) error {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}

// ========== Comments ==========

func (s *TaskService) AddComment(ctx context.Context, taskID, userID int64, req *task.CreateCommentRequest) (*task.Comment, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return nil, err
	}

	c := &task.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return c, nil
}

func (s *TaskService) ListComments(ctx context.Context, taskID, userID int64) ([]task.Comment, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, t.ProjectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, taskID)
}

// ========== Helpers ==========

func (s *TaskService) requireMember(ctx context.Context, projectID, userID int64) error {
	isMember, err := s.projectRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return xerrors.ErrNotProjectMember
	}
	return nil
}

// fanOut notifies the project about a task event. The assignee is the
// concerned user and is excluded from the broadcast.
func (s *TaskService) fanOut(ctx context.Context, t *task.Task, actorID int64, eventType notification.ProjectEventType) {
	p, err := s.projectRepo.FindByID(ctx, t.ProjectID)
	if err != nil {
		s.logger.Error("failed to load project for task event", zap.Error(err))
		return
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to load actor for task event", zap.Error(err))
		return
	}

	event := &notification.ProjectEvent{
		Type:        eventType,
		ProjectID:   t.ProjectID,
		ProjectName: p.Name,
		ActorID:     actorID,
		ActorName:   actor.FullName,
		TaskID:      &t.ID,
		TaskTitle:   t.Title,
	}
	if t.AssigneeID.Valid {
		assigneeID := t.AssigneeID.Int64
		event.ConcernedID = &assigneeID
	}

	s.notifier.FanOutProjectEvent(ctx, event)
}
