// internal/repository/postgres/subscription_plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"projexa-service/internal/domain/subscription"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type SubscriptionPlanRepository struct {
	db DB
}

func NewSubscriptionPlanRepository(db DB) *SubscriptionPlanRepository {
	return &SubscriptionPlanRepository{db: db}
}

const planColumns = `id, plan_code, name, description, price, currency, duration_months, features, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*subscription.Plan, error) {
	var p subscription.Plan
	err := row.Scan(
		&p.ID, &p.PlanCode, &p.Name, &p.Description, &p.Price, &p.Currency,
		&p.DurationMonths, pq.Array(&p.Features), &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}
	return &p, nil
}

func (r *SubscriptionPlanRepository) Create(ctx context.Context, p *subscription.Plan) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO subscription_plans (plan_code, name, description, price, currency, duration_months, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, p.PlanCode, p.Name, p.Description, p.Price, p.Currency, p.DurationMonths,
		pq.Array(p.Features), p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *SubscriptionPlanRepository) FindByID(ctx context.Context, id int64) (*subscription.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans WHERE id = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

func (r *SubscriptionPlanRepository) FindByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans WHERE plan_code = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, code))
}

// List returns plans; activeOnly restricts to purchasable ones.
func (r *SubscriptionPlanRepository) List(ctx context.Context, activeOnly bool) ([]subscription.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans`, planColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY price`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]subscription.Plan, 0)
	for rows.Next() {
		var p subscription.Plan
		if err := rows.Scan(
			&p.ID, &p.PlanCode, &p.Name, &p.Description, &p.Price, &p.Currency,
			&p.DurationMonths, pq.Array(&p.Features), &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Update changes descriptive fields and the purchasability flag. Price and
// duration are immutable once subscriptions may reference the plan.
func (r *SubscriptionPlanRepository) Update(ctx context.Context, id int64, req *subscription.UpdatePlanRequest) error {
	var features interface{}
	if req.Features != nil {
		features = pq.Array(req.Features)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE subscription_plans
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    features    = COALESCE($3, features),
		    is_active   = COALESCE($4, is_active),
		    updated_at  = NOW()
		WHERE id = $5
	`, req.Name, req.Description, features, req.IsActive, id)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
