// internal/service/remuneration/remuneration.go
package remuneration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"projexa-service/internal/domain/auth"
	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/remuneration"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	notifsvc "projexa-service/internal/service/notification"

	"go.uber.org/zap"
)

// Repository is the persistence surface the service needs. Settlement
// methods report whether the row was still pending when the update ran.
type Repository interface {
	Create(ctx context.Context, m *remuneration.Remuneration) error
	FindByID(ctx context.Context, id int64) (*remuneration.Remuneration, error)
	List(ctx context.Context, filters *remuneration.RemunerationListFilters) ([]remuneration.Remuneration, int64, error)
	MarkPaid(ctx context.Context, id int64, approvedBy int64, paymentDate time.Time, paymentRef, paymentMethod string) (bool, error)
	MarkCancelled(ctx context.Context, id int64, approvedBy int64) (bool, error)
}

type RemunerationService struct {
	repo     Repository
	taskRepo *postgres.TaskRepository
	notifier *notifsvc.NotificationService
	logger   *zap.Logger
	now      func() time.Time
}

func NewRemunerationService(
	repo Repository,
	taskRepo *postgres.TaskRepository,
	notifier *notifsvc.NotificationService,
	logger *zap.Logger,
) *RemunerationService {
	return &RemunerationService{
		repo:     repo,
		taskRepo: taskRepo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (s *RemunerationService) SetClock(now func() time.Time) {
	s.now = now
}

// Create opens a pending remuneration against a task. Managers and admins only.
func (s *RemunerationService) Create(ctx context.Context, actorRole string, req *remuneration.CreateRemunerationRequest) (*remuneration.Remuneration, error) {
	if actorRole != auth.RoleAdmin && actorRole != auth.RoleManager {
		return nil, xerrors.ErrForbidden
	}

	if _, err := s.taskRepo.FindByID(ctx, req.TaskID); err != nil {
		return nil, err
	}

	m := &remuneration.Remuneration{
		TaskID:   req.TaskID,
		UserID:   req.UserID,
		Type:     req.Type,
		Status:   remuneration.StatusPending,
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	if m.Type == "" {
		m.Type = remuneration.TypeTaskCompletion
	}
	if m.Currency == "" {
		m.Currency = "XOF"
	}
	if req.Notes != "" {
		m.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create remuneration: %w", err)
	}
	return m, nil
}

func (s *RemunerationService) Get(ctx context.Context, id, userID int64, userRole string) (*remuneration.Remuneration, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID && userRole != auth.RoleAdmin && userRole != auth.RoleManager {
		return nil, xerrors.ErrForbidden
	}
	return m, nil
}

func (s *RemunerationService) List(ctx context.Context, userID int64, userRole string, filters *remuneration.RemunerationListFilters) ([]remuneration.Remuneration, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	// Regular members only ever see their own remunerations.
	if userRole != auth.RoleAdmin && userRole != auth.RoleManager {
		filters.UserID = &userID
	}

	return s.repo.List(ctx, filters)
}

// Pay settles a pending remuneration. The status check and the write are one
// conditional update, so two concurrent payments cannot both succeed; the
// loser gets ErrAlreadySettled.
func (s *RemunerationService) Pay(ctx context.Context, id, actorID int64, actorRole string, req *remuneration.PayRequest) (*remuneration.Remuneration, error) {
	if actorRole != auth.RoleAdmin && actorRole != auth.RoleManager {
		return nil, xerrors.ErrForbidden
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paid, err := s.repo.MarkPaid(ctx, id, actorID, s.now(), req.PaymentRef, req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, xerrors.ErrAlreadySettled
	}

	if _, err := s.notifier.CreateAndPush(ctx, &notification.CreateNotificationRequest{
		IdentityID: m.UserID,
		Title:      "Payment sent",
		Message:    fmt.Sprintf("A payment of %.2f %s has been made for your work.", m.Amount, m.Currency),
		Type:       notification.TypeInfo,
	}); err != nil {
		s.logger.Error("failed to notify payment", zap.Int64("remuneration_id", id), zap.Error(err))
	}

	return s.repo.FindByID(ctx, id)
}

// Cancel voids a pending remuneration, with the same guard as Pay.
func (s *RemunerationService) Cancel(ctx context.Context, id, actorID int64, actorRole string) (*remuneration.Remuneration, error) {
	if actorRole != auth.RoleAdmin && actorRole != auth.RoleManager {
		return nil, xerrors.ErrForbidden
	}

	cancelled, err := s.repo.MarkCancelled(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, xerrors.ErrAlreadySettled
	}

	return s.repo.FindByID(ctx, id)
}
