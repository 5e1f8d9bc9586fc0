// internal/domain/task/dto.go
package task

import "time"

type CreateTaskRequest struct {
	ProjectID   int64      `json:"project_id" binding:"required"`
	SprintID    *int64     `json:"sprint_id"`
	AssigneeID  *int64     `json:"assignee_id"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueAt       *time.Time `json:"due_at"`
}

type UpdateTaskRequest struct {
	SprintID    *int64      `json:"sprint_id"`
	AssigneeID  *int64      `json:"assignee_id"`
	Title       *string     `json:"title" binding:"omitempty,max=255"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueAt       *time.Time  `json:"due_at"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type TaskListFilters struct {
	ProjectID  *int64      `form:"project_id"`
	SprintID   *int64      `form:"sprint_id"`
	AssigneeID *int64      `form:"assignee_id"`
	Status     *TaskStatus `form:"status"`
	Page       int         `form:"page,default=1" binding:"min=1"`
	PageSize   int         `form:"page_size,default=20" binding:"min=1,max=100"`
}

type TaskListResponse struct {
	Tasks      []Task `json:"tasks"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
