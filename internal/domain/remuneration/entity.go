// internal/domain/remuneration/entity.go
package remuneration

import (
	"database/sql"
	"time"
)

type RemunerationStatus string

const (
	StatusPending   RemunerationStatus = "pending"
	StatusPaid      RemunerationStatus = "paid"
	StatusCancelled RemunerationStatus = "cancelled"
)

type RemunerationType string

const (
	TypeTaskCompletion RemunerationType = "task_completion"
	TypeBonus          RemunerationType = "bonus"
	TypeRefund         RemunerationType = "refund"
	TypeOther          RemunerationType = "other"
)

type Remuneration struct {
	ID            int64              `json:"id" db:"id"`
	TaskID        int64              `json:"task_id" db:"task_id"`
	UserID        int64              `json:"user_id" db:"user_id"`
	Type          RemunerationType   `json:"type" db:"type"`
	Status        RemunerationStatus `json:"status" db:"status"`
	Amount        float64            `json:"amount" db:"amount"`
	Currency      string             `json:"currency" db:"currency"`
	PaymentDate   sql.NullTime       `json:"payment_date,omitempty" db:"payment_date"`
	PaymentRef    sql.NullString     `json:"payment_ref,omitempty" db:"payment_ref"`
	PaymentMethod sql.NullString     `json:"payment_method,omitempty" db:"payment_method"`
	ApprovedBy    sql.NullInt64      `json:"approved_by,omitempty" db:"approved_by"`
	Notes         sql.NullString     `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}

// CanBePaid reports whether the remuneration may move to paid. Paid and
// cancelled are terminal states.
func (r *Remuneration) CanBePaid() bool {
	return r.Status == StatusPending
}

// CanBeCancelled reports whether the remuneration may move to cancelled.
func (r *Remuneration) CanBeCancelled() bool {
	return r.Status == StatusPending
}
