// internal/domain/sprint/entity.go
package sprint

import (
	"database/sql"
	"time"
)

type SprintStatus string

const (
	StatusPlanned   SprintStatus = "planned"
	StatusActive    SprintStatus = "active"
	StatusCompleted SprintStatus = "completed"
)

type Sprint struct {
	ID        int64        `json:"id" db:"id"`
	ProjectID int64        `json:"project_id" db:"project_id"`
	Name      string       `json:"name" db:"name"`
	Status    SprintStatus `json:"status" db:"status"`
	StartsAt  sql.NullTime `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt    sql.NullTime `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

type CreateSprintRequest struct {
	ProjectID int64      `json:"project_id" binding:"required"`
	Name      string     `json:"name" binding:"required,max=255"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

type UpdateSprintRequest struct {
	Name     *string       `json:"name" binding:"omitempty,max=255"`
	Status   *SprintStatus `json:"status" binding:"omitempty,oneof=planned active completed"`
	StartsAt *time.Time    `json:"starts_at"`
	EndsAt   *time.Time    `json:"ends_at"`
}
