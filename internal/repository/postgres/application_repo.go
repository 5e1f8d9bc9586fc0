// internal/repository/postgres/application_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"projexa-service/internal/domain/recruitment"
	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type ApplicationRepository struct {
	db DB
}

func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *recruitment.Application) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO recruitment_applications (recruitment_id, applicant_name, applicant_email, status, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.RecruitmentID, a.ApplicantName, a.ApplicantEmail, a.Status, a.Answers,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*recruitment.Application, error) {
	var a recruitment.Application
	err := r.db.QueryRow(ctx, `
		SELECT id, recruitment_id, applicant_name, applicant_email, status, answers, created_at, updated_at
		FROM recruitment_applications WHERE id = $1
	`, id).Scan(&a.ID, &a.RecruitmentID, &a.ApplicantName, &a.ApplicantEmail, &a.Status, &a.Answers, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) ListByRecruitment(ctx context.Context, recruitmentID int64) ([]recruitment.Application, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, recruitment_id, applicant_name, applicant_email, status, answers, created_at, updated_at
		FROM recruitment_applications
		WHERE recruitment_id = $1
		ORDER BY created_at DESC
	`, recruitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]recruitment.Application, 0)
	for rows.Next() {
		var a recruitment.Application
		if err := rows.Scan(&a.ID, &a.RecruitmentID, &a.ApplicantName, &a.ApplicantEmail, &a.Status, &a.Answers, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// UpdateStatus moves the application to any status; the review workflow has
// no enforced transition graph.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status recruitment.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE recruitment_applications SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
