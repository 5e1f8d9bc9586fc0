// internal/repository/postgres/recruitment_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projexa-service/internal/domain/recruitment"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type RecruitmentRepository struct {
	db DB
}

func NewRecruitmentRepository(db DB) *RecruitmentRepository {
	return &RecruitmentRepository{db: db}
}

const recruitmentColumns = `id, created_by, title, description, status, deadline, auto_close, created_at, updated_at`

func scanRecruitment(row pgx.Row) (*recruitment.Recruitment, error) {
	var rec recruitment.Recruitment
	err := row.Scan(
		&rec.ID, &rec.CreatedBy, &rec.Title, &rec.Description, &rec.Status,
		&rec.Deadline, &rec.AutoClose, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recruitment: %w", err)
	}
	return &rec, nil
}

// Create inserts the posting and its custom fields in one transaction.
func (r *RecruitmentRepository) Create(ctx context.Context, rec *recruitment.Recruitment, fields []recruitment.CustomField) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO recruitments (created_by, title, description, status, deadline, auto_close)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`, rec.CreatedBy, rec.Title, rec.Description, rec.Status, rec.Deadline, rec.AutoClose,
		).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create recruitment: %w", err)
		}

		for i := range fields {
			fields[i].RecruitmentID = rec.ID
			err = tx.QueryRow(ctx, `
				INSERT INTO recruitment_custom_fields (recruitment_id, label, field_type, required, options, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, rec.ID, fields[i].Label, fields[i].FieldType, fields[i].Required,
				pq.Array(fields[i].Options), fields[i].Position,
			).Scan(&fields[i].ID)
			if err != nil {
				return fmt.Errorf("failed to create custom field: %w", err)
			}
		}
		return nil
	})
}

func (r *RecruitmentRepository) FindByID(ctx context.Context, id int64) (*recruitment.Recruitment, error) {
	query := fmt.Sprintf(`SELECT %s FROM recruitments WHERE id = $1`, recruitmentColumns)
	return scanRecruitment(r.db.QueryRow(ctx, query, id))
}

func (r *RecruitmentRepository) List(ctx context.Context, filters *recruitment.RecruitmentListFilters) ([]recruitment.Recruitment, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM recruitments WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recruitments: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM recruitments WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		recruitmentColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recruitments: %w", err)
	}
	defer rows.Close()

	recs := make([]recruitment.Recruitment, 0, filters.PageSize)
	for rows.Next() {
		var rec recruitment.Recruitment
		if err := rows.Scan(
			&rec.ID, &rec.CreatedBy, &rec.Title, &rec.Description, &rec.Status,
			&rec.Deadline, &rec.AutoClose, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recruitment: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}

// Save persists the full mutable state of the posting, including a status
// forced by the auto-close guard.
func (r *RecruitmentRepository) Save(ctx context.Context, rec *recruitment.Recruitment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE recruitments
		SET title = $1, description = $2, status = $3, deadline = $4, auto_close = $5, updated_at = NOW()
		WHERE id = $6
	`, rec.Title, rec.Description, rec.Status, rec.Deadline, rec.AutoClose, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to save recruitment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CloseExpired force-closes every auto-close posting whose deadline has
// elapsed, in one conditional statement, and returns the affected ids. Run
// by the lifecycle sweeper so that postings close on schedule even when
// nothing else writes to them.
func (r *RecruitmentRepository) CloseExpired(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE recruitments
		SET status = 'closed', updated_at = NOW()
		WHERE auto_close = TRUE AND deadline IS NOT NULL AND deadline <= $1 AND status <> 'closed'
		RETURNING id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to close expired recruitments: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan closed id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RecruitmentRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM recruitment_applications WHERE recruitment_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete applications: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recruitment_custom_fields WHERE recruitment_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete custom fields: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM recruitments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete recruitment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

// ListCustomFields returns the posting's form fields in display order.
func (r *RecruitmentRepository) ListCustomFields(ctx context.Context, recruitmentID int64) ([]recruitment.CustomField, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, recruitment_id, label, field_type, required, options, position
		FROM recruitment_custom_fields
		WHERE recruitment_id = $1
		ORDER BY position
	`, recruitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom fields: %w", err)
	}
	defer rows.Close()

	fields := make([]recruitment.CustomField, 0)
	for rows.Next() {
		var f recruitment.CustomField
		if err := rows.Scan(&f.ID, &f.RecruitmentID, &f.Label, &f.FieldType, &f.Required,
			pq.Array(&f.Options), &f.Position); err != nil {
			return nil, fmt.Errorf("failed to scan custom field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
