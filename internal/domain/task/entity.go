// internal/domain/task/entity.go
package task

import (
	"database/sql"
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type Task struct {
	ID          int64          `json:"id" db:"id"`
	ProjectID   int64          `json:"project_id" db:"project_id"`
	SprintID    sql.NullInt64  `json:"sprint_id,omitempty" db:"sprint_id"`
	AssigneeID  sql.NullInt64  `json:"assignee_id,omitempty" db:"assignee_id"`
	Title       string         `json:"title" db:"title"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Status      TaskStatus     `json:"status" db:"status"`
	Priority    string         `json:"priority" db:"priority"`
	DueAt       sql.NullTime   `json:"due_at,omitempty" db:"due_at"`
	CreatedBy   int64          `json:"created_by" db:"created_by"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
