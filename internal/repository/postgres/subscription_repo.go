// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projexa-service/internal/domain/subscription"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository struct {
	db DB
}

func NewSubscriptionRepository(db DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, reference, user_id, plan_id, status, starts_at, ends_at,
	cancelled_at, amount_paid, payment_method, payment_ref, is_renewal, reminder_sent_at,
	created_at, updated_at`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := row.Scan(
		&s.ID, &s.Reference, &s.UserID, &s.PlanID, &s.Status, &s.StartsAt, &s.EndsAt,
		&s.CancelledAt, &s.AmountPaid, &s.PaymentMethod, &s.PaymentRef, &s.IsRenewal,
		&s.ReminderSentAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &s, nil
}

// Create inserts a subscription in pending state at checkout initiation.
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (reference, user_id, plan_id, status, amount_paid, payment_method, payment_ref, is_renewal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, s.Reference, s.UserID, s.PlanID, s.Status, s.AmountPaid, s.PaymentMethod, s.PaymentRef, s.IsRenewal,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id = $1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

func (r *SubscriptionRepository) FindByReference(ctx context.Context, reference string) (*subscription.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE reference = $1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, reference))
}

// FindActiveByUser returns the user's current active subscription, if any.
func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE user_id = $1 AND status = 'active' AND ends_at > NOW()
		ORDER BY ends_at DESC
		LIMIT 1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, userID))
}

func (r *SubscriptionRepository) List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *filters.UserID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM subscriptions WHERE %s`, whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		subscriptionColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]subscription.Subscription, 0, filters.PageSize)
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(
			&s.ID, &s.Reference, &s.UserID, &s.PlanID, &s.Status, &s.StartsAt, &s.EndsAt,
			&s.CancelledAt, &s.AmountPaid, &s.PaymentMethod, &s.PaymentRef, &s.IsRenewal,
			&s.ReminderSentAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, total, rows.Err()
}

// Activate confirms payment on a pending subscription and opens its window.
// The WHERE status = 'pending' clause makes the transition race-free: a
// duplicate payment callback finds no pending row and reports false.
func (r *SubscriptionRepository) Activate(ctx context.Context, id int64, startsAt, endsAt time.Time, amountPaid float64, paymentMethod, paymentRef string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET status = 'active', starts_at = $1, ends_at = $2, amount_paid = $3,
		    payment_method = $4, payment_ref = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'pending'
	`, startsAt, endsAt, amountPaid, paymentMethod, paymentRef, id)
	if err != nil {
		return false, fmt.Errorf("failed to activate subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Cancel marks a pending or active subscription cancelled. Returns false if
// the subscription was already in a terminal state.
func (r *SubscriptionRepository) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET status = 'cancelled', cancelled_at = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ('pending', 'active')
	`, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireLapsed persists the expired status for every active subscription
// whose window has elapsed, returning the affected rows so the caller can
// demote roles and notify users.
func (r *SubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) ([]subscription.Subscription, error) {
	query := fmt.Sprintf(`
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND ends_at IS NOT NULL AND ends_at <= $1
		RETURNING %s`, subscriptionColumns)

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]subscription.Subscription, 0)
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(
			&s.ID, &s.Reference, &s.UserID, &s.PlanID, &s.Status, &s.StartsAt, &s.EndsAt,
			&s.CancelledAt, &s.AmountPaid, &s.PaymentMethod, &s.PaymentRef, &s.IsRenewal,
			&s.ReminderSentAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expired subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// MarkRemindersSent stamps active subscriptions expiring within the window
// that have not yet been reminded, returning them for notification.
func (r *SubscriptionRepository) MarkRemindersSent(ctx context.Context, now time.Time, threshold time.Duration) ([]subscription.Subscription, error) {
	query := fmt.Sprintf(`
		UPDATE subscriptions
		SET reminder_sent_at = $1, updated_at = NOW()
		WHERE status = 'active' AND ends_at IS NOT NULL
		  AND ends_at > $1 AND ends_at <= $2
		  AND reminder_sent_at IS NULL
		RETURNING %s`, subscriptionColumns)

	rows, err := r.db.Query(ctx, query, now, now.Add(threshold))
	if err != nil {
		return nil, fmt.Errorf("failed to mark reminders: %w", err)
	}
	defer rows.Close()

	subs := make([]subscription.Subscription, 0)
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(
			&s.ID, &s.Reference, &s.UserID, &s.PlanID, &s.Status, &s.StartsAt, &s.EndsAt,
			&s.CancelledAt, &s.AmountPaid, &s.PaymentMethod, &s.PaymentRef, &s.IsRenewal,
			&s.ReminderSentAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminded subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
