// internal/repository/postgres/meeting_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

)

// Meeting is a Zoom meeting attached to a project.
type Meeting struct {
	ID          int64        `json:"id" db:"id"`
	ProjectID   int64        `json:"project_id" db:"project_id"`
	CreatedBy   int64        `json:"created_by" db:"created_by"`
	ZoomID      string       `json:"zoom_id" db:"zoom_id"`
	Topic       string       `json:"topic" db:"topic"`
	JoinURL     string       `json:"join_url" db:"join_url"`
	StartsAt    sql.NullTime `json:"starts_at,omitempty" db:"starts_at"`
	DurationMin int          `json:"duration_min" db:"duration_min"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

type MeetingRepository struct {
	db DB
}

func NewMeetingRepository(db DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Create(ctx context.Context, m *Meeting) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO zoom_meetings (project_id, created_by, zoom_id, topic, join_url, starts_at, duration_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, m.ProjectID, m.CreatedBy, m.ZoomID, m.Topic, m.JoinURL, m.StartsAt, m.DurationMin,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) ListByProject(ctx context.Context, projectID int64) ([]Meeting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, created_by, zoom_id, topic, join_url, starts_at, duration_min, created_at
		FROM zoom_meetings WHERE project_id = $1 ORDER BY starts_at DESC NULLS LAST
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]Meeting, 0)
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.CreatedBy, &m.ZoomID, &m.Topic, &m.JoinURL, &m.StartsAt, &m.DurationMin, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}
