// internal/service/recruitment/recruitment.go
package recruitment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"projexa-service/internal/domain/recruitment"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	"projexa-service/internal/service/email"

	"go.uber.org/zap"
)

type RecruitmentService struct {
	repo        *postgres.RecruitmentRepository
	appRepo     *postgres.ApplicationRepository
	emailSender *email.EmailSender
	logger      *zap.Logger
	now         func() time.Time
}

func NewRecruitmentService(
	repo *postgres.RecruitmentRepository,
	appRepo *postgres.ApplicationRepository,
	emailSender *email.EmailSender,
	logger *zap.Logger,
) *RecruitmentService {
	return &RecruitmentService{
		repo:        repo,
		appRepo:     appRepo,
		emailSender: emailSender,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (s *RecruitmentService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RecruitmentService) Create(ctx context.Context, userID int64, req *recruitment.CreateRecruitmentRequest) (*recruitment.Recruitment, error) {
	rec := &recruitment.Recruitment{
		CreatedBy: userID,
		Title:     req.Title,
		Status:    recruitment.StatusDraft,
		AutoClose: req.AutoClose,
	}
	if req.Description != "" {
		rec.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.Deadline != nil {
		rec.Deadline = sql.NullTime{Time: *req.Deadline, Valid: true}
	}

	// A posting created with an elapsed deadline is closed on the spot.
	rec.ApplyAutoClose(s.now())

	fields := make([]recruitment.CustomField, 0, len(req.CustomFields))
	for _, in := range req.CustomFields {
		fieldType := in.FieldType
		if fieldType == "" {
			fieldType = "text"
		}
		fields = append(fields, recruitment.CustomField{
			Label:     in.Label,
			FieldType: fieldType,
			Required:  in.Required,
			Options:   in.Options,
		})
	}

	if err := s.repo.Create(ctx, rec, fields); err != nil {
		return nil, fmt.Errorf("failed to create recruitment: %w", err)
	}
	return rec, nil
}

// Get returns the posting after applying the auto-close guard, so a stale
// published row is never served as open.
func (s *RecruitmentService) Get(ctx context.Context, id int64) (*recruitment.Recruitment, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.ApplyAutoClose(s.now()) {
		if err := s.repo.Save(ctx, rec); err != nil {
			s.logger.Error("failed to persist auto-close", zap.Int64("recruitment_id", rec.ID), zap.Error(err))
		}
	}
	return rec, nil
}

func (s *RecruitmentService) List(ctx context.Context, filters *recruitment.RecruitmentListFilters) ([]recruitment.Recruitment, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	return s.repo.List(ctx, filters)
}

func (s *RecruitmentService) Update(ctx context.Context, id, userID int64, userRole string, req *recruitment.UpdateRecruitmentRequest) (*recruitment.Recruitment, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(rec, userID, userRole); err != nil {
		return nil, err
	}

	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.Deadline != nil {
		rec.Deadline = sql.NullTime{Time: *req.Deadline, Valid: true}
	}
	if req.AutoClose != nil {
		rec.AutoClose = *req.AutoClose
	}

	// The guard runs on every save; it can override a requested re-open when
	// the deadline is already gone.
	rec.ApplyAutoClose(s.now())

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Publish moves a draft posting to published, subject to the same guard.
func (s *RecruitmentService) Publish(ctx context.Context, id, userID int64, userRole string) (*recruitment.Recruitment, error) {
	status := recruitment.StatusPublished
	return s.Update(ctx, id, userID, userRole, &recruitment.UpdateRecruitmentRequest{Status: &status})
}

func (s *RecruitmentService) Delete(ctx context.Context, id, userID int64, userRole string) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(rec, userID, userRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *RecruitmentService) ListCustomFields(ctx context.Context, recruitmentID int64) ([]recruitment.CustomField, error) {
	return s.repo.ListCustomFields(ctx, recruitmentID)
}

// ========== Applications ==========

// Apply files a public application against a published posting.
func (s *RecruitmentService) Apply(ctx context.Context, recruitmentID int64, req *recruitment.ApplyRequest) (*recruitment.Application, error) {
	rec, err := s.Get(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}
	if rec.Status != recruitment.StatusPublished {
		return nil, xerrors.ErrConflict
	}

	app := &recruitment.Application{
		RecruitmentID:  recruitmentID,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		Status:         recruitment.ApplicationPending,
		Answers:        req.Answers,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	go func(to, name, title string) {
		body := fmt.Sprintf("<p>Hello %s,</p><p>We received your application for <strong>%s</strong>. The team will get back to you.</p>", name, title)
		if err := s.emailSender.Send(to, "Application received", body); err != nil {
			s.logger.Error("failed to send application receipt", zap.Error(err))
		}
	}(app.ApplicantEmail, app.ApplicantName, rec.Title)

	return app, nil
}

func (s *RecruitmentService) ListApplications(ctx context.Context, recruitmentID, userID int64, userRole string) ([]recruitment.Application, error) {
	rec, err := s.repo.FindByID(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(rec, userID, userRole); err != nil {
		return nil, err
	}
	return s.appRepo.ListByRecruitment(ctx, recruitmentID)
}

// UpdateApplicationStatus moves an application to any known status; there is
// no transition graph on applications.
func (s *RecruitmentService) UpdateApplicationStatus(ctx context.Context, applicationID, userID int64, userRole string, req *recruitment.UpdateApplicationStatusRequest) (*recruitment.Application, error) {
	if !recruitment.IsValidApplicationStatus(req.Status) {
		return nil, xerrors.ErrInvalidInput
	}

	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, app.RecruitmentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(rec, userID, userRole); err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateStatus(ctx, applicationID, req.Status); err != nil {
		return nil, err
	}
	app.Status = req.Status
	return app, nil
}

// CloseExpired closes every overdue auto-close posting in one statement.
// Called by the lifecycle sweeper.
func (s *RecruitmentService) CloseExpired(ctx context.Context) ([]int64, error) {
	return s.repo.CloseExpired(ctx, s.now())
}

func requireOwner(rec *recruitment.Recruitment, userID int64, userRole string) error {
	if rec.CreatedBy != userID && userRole != "admin" {
		return xerrors.ErrForbidden
	}
	return nil
}
