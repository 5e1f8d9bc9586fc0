// internal/repository/postgres/sprint_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"projexa-service/internal/domain/sprint"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type SprintRepository struct {
	db DB
}

func NewSprintRepository(db DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) Create(ctx context.Context, s *sprint.Sprint) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sprints (project_id, name, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, s.ProjectID, s.Name, s.Status, s.StartsAt, s.EndsAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}
	return nil
}

func (r *SprintRepository) FindByID(ctx context.Context, id int64) (*sprint.Sprint, error) {
	var s sprint.Sprint
	err := r.db.QueryRow(ctx, `
		SELECT id, project_id, name, status, starts_at, ends_at, created_at, updated_at
		FROM sprints WHERE id = $1
	`, id).Scan(&s.ID, &s.ProjectID, &s.Name, &s.Status, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	return &s, nil
}

func (r *SprintRepository) ListByProject(ctx context.Context, projectID int64) ([]sprint.Sprint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, name, status, starts_at, ends_at, created_at, updated_at
		FROM sprints WHERE project_id = $1 ORDER BY starts_at NULLS LAST, created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer rows.Close()

	sprints := make([]sprint.Sprint, 0)
	for rows.Next() {
		var s sprint.Sprint
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Status, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sprints = append(sprints, s)
	}
	return sprints, rows.Err()
}

func (r *SprintRepository) Update(ctx context.Context, id int64, req *sprint.UpdateSprintRequest) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sprints
		SET name       = COALESCE($1, name),
		    status     = COALESCE($2, status),
		    starts_at  = COALESCE($3, starts_at),
		    ends_at    = COALESCE($4, ends_at),
		    updated_at = NOW()
		WHERE id = $5
	`, req.Name, req.Status, req.StartsAt, req.EndsAt, id)
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *SprintRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		// Tasks stay on the project; they just leave the sprint.
		if _, err := tx.Exec(ctx, `UPDATE tasks SET sprint_id = NULL, updated_at = NOW() WHERE sprint_id = $1`, id); err != nil {
			return fmt.Errorf("failed to detach tasks: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete sprint: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}
