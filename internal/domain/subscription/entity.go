// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

type Plan struct {
	ID             int64          `json:"id" db:"id"`
	PlanCode       string         `json:"plan_code" db:"plan_code"`
	Name           string         `json:"name" db:"name"`
	Description    sql.NullString `json:"description,omitempty" db:"description"`
	Price          float64        `json:"price" db:"price"`
	Currency       string         `json:"currency" db:"currency"`
	DurationMonths int            `json:"duration_months" db:"duration_months"`
	Features       []string       `json:"features,omitempty" db:"features"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

type Subscription struct {
	ID             int64              `json:"id" db:"id"`
	Reference      string             `json:"reference" db:"reference"`
	UserID         int64              `json:"user_id" db:"user_id"`
	PlanID         int64              `json:"plan_id" db:"plan_id"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	StartsAt       sql.NullTime       `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt         sql.NullTime       `json:"ends_at,omitempty" db:"ends_at"`
	CancelledAt    sql.NullTime       `json:"cancelled_at,omitempty" db:"cancelled_at"`
	AmountPaid     float64            `json:"amount_paid" db:"amount_paid"`
	PaymentMethod  sql.NullString     `json:"payment_method,omitempty" db:"payment_method"`
	PaymentRef     sql.NullString     `json:"payment_ref,omitempty" db:"payment_ref"`
	IsRenewal      bool               `json:"is_renewal" db:"is_renewal"`
	ReminderSentAt sql.NullTime       `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// The evaluators below are derived at call time from the stored status plus
// a comparison of ends_at against the supplied instant. The stored status
// column can lag behind wall-clock expiry between sweeper runs; callers must
// use these rather than reading Status directly.

// IsActive reports whether the subscription is usable at the given instant.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == StatusActive && s.EndsAt.Valid && s.EndsAt.Time.After(now)
}

func (s *Subscription) IsPending() bool {
	return s.Status == StatusPending
}

func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// IsExpired reports whether the subscription has lapsed: either the stored
// status already says so, or an active subscription's window has elapsed.
// A pending subscription is never expired, whatever its dates.
func (s *Subscription) IsExpired(now time.Time) bool {
	if s.Status == StatusExpired {
		return true
	}
	return s.Status == StatusActive && s.EndsAt.Valid && !s.EndsAt.Time.After(now)
}

// IsExpiringSoon reports whether an active subscription lapses within
// thresholdDays of the given instant.
func (s *Subscription) IsExpiringSoon(now time.Time, thresholdDays int) bool {
	if !s.IsActive(now) {
		return false
	}
	return s.EndsAt.Time.Before(now.AddDate(0, 0, thresholdDays))
}
