// internal/domain/project/entity.go
package project

import (
	"database/sql"
	"time"
)

type Project struct {
	ID          int64          `json:"id" db:"id"`
	OwnerID     int64          `json:"owner_id" db:"owner_id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Status      Status         `json:"status" db:"status"`
	StartsAt    sql.NullTime   `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt      sql.NullTime   `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Member is one row of the project/user pivot.
type Member struct {
	ProjectID int64     `json:"project_id" db:"project_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	IsMuted   bool      `json:"is_muted" db:"is_muted"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
