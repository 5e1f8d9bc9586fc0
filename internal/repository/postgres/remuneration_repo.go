// internal/repository/postgres/remuneration_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projexa-service/internal/domain/remuneration"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type RemunerationRepository struct {
	db DB
}

func NewRemunerationRepository(db DB) *RemunerationRepository {
	return &RemunerationRepository{db: db}
}

const remunerationColumns = `id, task_id, user_id, type, status, amount, currency,
	payment_date, payment_ref, payment_method, approved_by, notes, created_at, updated_at`

func scanRemuneration(row pgx.Row) (*remuneration.Remuneration, error) {
	var m remuneration.Remuneration
	err := row.Scan(
		&m.ID, &m.TaskID, &m.UserID, &m.Type, &m.Status, &m.Amount, &m.Currency,
		&m.PaymentDate, &m.PaymentRef, &m.PaymentMethod, &m.ApprovedBy, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan remuneration: %w", err)
	}
	return &m, nil
}

func (r *RemunerationRepository) Create(ctx context.Context, m *remuneration.Remuneration) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO remunerations (task_id, user_id, type, status, amount, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, m.TaskID, m.UserID, m.Type, m.Status, m.Amount, m.Currency, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create remuneration: %w", err)
	}
	return nil
}

func (r *RemunerationRepository) FindByID(ctx context.Context, id int64) (*remuneration.Remuneration, error) {
	query := fmt.Sprintf(`SELECT %s FROM remunerations WHERE id = $1`, remunerationColumns)
	return scanRemuneration(r.db.QueryRow(ctx, query, id))
}

func (r *RemunerationRepository) List(ctx context.Context, filters *remuneration.RemunerationListFilters) ([]remuneration.Remuneration, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *filters.UserID)
		argPos++
	}
	if filters.TaskID != nil {
		conditions = append(conditions, fmt.Sprintf("task_id = $%d", argPos))
		args = append(args, *filters.TaskID)
		argPos++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM remunerations WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count remunerations: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM remunerations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		remunerationColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list remunerations: %w", err)
	}
	defer rows.Close()

	items := make([]remuneration.Remuneration, 0, filters.PageSize)
	for rows.Next() {
		var m remuneration.Remuneration
		if err := rows.Scan(
			&m.ID, &m.TaskID, &m.UserID, &m.Type, &m.Status, &m.Amount, &m.Currency,
			&m.PaymentDate, &m.PaymentRef, &m.PaymentMethod, &m.ApprovedBy, &m.Notes,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan remuneration: %w", err)
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// MarkPaid settles a pending remuneration. The transition is expressed as a
// single conditional UPDATE whose affected-row count is the success signal,
// so two concurrent settlements cannot both succeed.
func (r *RemunerationRepository) MarkPaid(ctx context.Context, id int64, approvedBy int64, paymentDate time.Time, paymentRef, paymentMethod string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE remunerations
		SET status = 'paid', payment_date = $1, payment_ref = $2, payment_method = $3,
		    approved_by = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`, paymentDate, paymentRef, paymentMethod, approvedBy, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark remuneration paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkCancelled voids a pending remuneration under the same conditional
// contract as MarkPaid.
func (r *RemunerationRepository) MarkCancelled(ctx context.Context, id int64, approvedBy int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE remunerations
		SET status = 'cancelled', approved_by = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, approvedBy, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel remuneration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
