// internal/repository/postgres/project_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projexa-service/internal/domain/project"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, owner_id, name, description, status, starts_at, ends_at, created_at, updated_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Status,
		&p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

// Create inserts the project and registers the owner as a member, in one
// transaction.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO projects (owner_id, name, description, status, starts_at, ends_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`, p.OwnerID, p.Name, p.Description, p.Status, p.StartsAt, p.EndsAt,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, 'manager')
		`, p.ID, p.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to add owner as member: %w", err)
		}
		return nil
	})
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*project.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// ListForUser returns projects the user is a member of.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int64, filters *project.ProjectListFilters) ([]project.Project, int64, error) {
	conditions := []string{"pm.user_id = $1"}
	args := []interface{}{userID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT p.id, p.owner_id, p.name, p.description, p.status, p.starts_at, p.ends_at, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0, filters.PageSize)
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Status,
			&p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, req *project.UpdateProjectRequest) error {
	query := `
		UPDATE projects
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    starts_at   = COALESCE($3, starts_at),
		    ends_at     = COALESCE($4, ends_at),
		    updated_at  = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, req.Name, req.Description, req.StartsAt, req.EndsAt, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus persists a status change. Callers must validate the
// transition first; this is the only write path for the status column.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int64, status project.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes the project and everything hanging off it in a single
// transaction: remunerations, comments, tasks, sprints, files, meetings and
// member pivots either all go or none do.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM remunerations WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
			`DELETE FROM task_comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
			`DELETE FROM tasks WHERE project_id = $1`,
			`DELETE FROM sprints WHERE project_id = $1`,
			`DELETE FROM files WHERE project_id = $1`,
			`DELETE FROM zoom_meetings WHERE project_id = $1`,
			`DELETE FROM project_members WHERE project_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to cascade project delete: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

// --- Members ---

func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID int64, role string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)
	`, projectID, userID, role)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return xerrors.ErrDuplicateEntry
		case "23503":
			return xerrors.ErrNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) UpdateMember(ctx context.Context, projectID, userID int64, req *project.UpdateMemberRequest) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE project_members
		SET role     = COALESCE($1, role),
		    is_muted = COALESCE($2, is_muted)
		WHERE project_id = $3 AND user_id = $4
	`, req.Role, req.IsMuted, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListMembers returns the member pivot joined with user identity fields.
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]project.Member, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pm.project_id, pm.user_id, pm.role, pm.is_muted, u.email, u.full_name, pm.created_at
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]project.Member, 0)
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.IsMuted, &m.Email, &m.FullName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember returns the pivot row for one user, joined with identity fields.
func (r *ProjectRepository) GetMember(ctx context.Context, projectID, userID int64) (*project.Member, error) {
	var m project.Member
	err := r.db.QueryRow(ctx, `
		SELECT pm.project_id, pm.user_id, pm.role, pm.is_muted, u.email, u.full_name, pm.created_at
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1 AND pm.user_id = $2
	`, projectID, userID).Scan(&m.ProjectID, &m.UserID, &m.Role, &m.IsMuted, &m.Email, &m.FullName, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotProjectMember
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)
	`, projectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}
