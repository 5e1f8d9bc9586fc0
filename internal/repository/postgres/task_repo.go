// internal/repository/postgres/task_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projexa-service/internal/domain/task"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, sprint_id, assignee_id, title, description,
	status, priority, due_at, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.SprintID, &t.AssigneeID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (project_id, sprint_id, assignee_id, title, description, status, priority, due_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		t.ProjectID, t.SprintID, t.AssigneeID, t.Title, t.Description,
		t.Status, t.Priority, t.DueAt, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *TaskRepository) List(ctx context.Context, filters *task.TaskListFilters) ([]task.Task, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argPos))
		args = append(args, *filters.ProjectID)
		argPos++
	}
	if filters.SprintID != nil {
		conditions = append(conditions, fmt.Sprintf("sprint_id = $%d", argPos))
		args = append(args, *filters.SprintID)
		argPos++
	}
	if filters.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", argPos))
		args = append(args, *filters.AssigneeID)
		argPos++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0, filters.PageSize)
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.SprintID, &t.AssigneeID, &t.Title, &t.Description,
			&t.Status, &t.Priority, &t.DueAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id int64, req *task.UpdateTaskRequest) error {
	query := `
		UPDATE tasks
		SET sprint_id   = COALESCE($1, sprint_id),
		    assignee_id = COALESCE($2, assignee_id),
		    title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status      = COALESCE($5, status),
		    priority    = COALESCE($6, priority),
		    due_at      = COALESCE($7, due_at),
		    updated_at  = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		req.SprintID, req.AssigneeID, req.Title, req.Description,
		req.Status, req.Priority, req.DueAt, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM remunerations WHERE task_id = $1 AND status = 'pending'`, id); err != nil {
			return fmt.Errorf("failed to delete pending remunerations: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM task_comments WHERE task_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

// --- Comments ---

func (r *TaskRepository) CreateComment(ctx context.Context, c *task.Comment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO task_comments (task_id, author_id, body) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.TaskID, c.AuthorID, c.Body).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListComments(ctx context.Context, taskID int64) ([]task.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, author_id, body, created_at
		FROM task_comments WHERE task_id = $1 ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]task.Comment, 0)
	for rows.Next() {
		var c task.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
