// internal/service/subscription/subscription.go
package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"projexa-service/internal/domain/auth"
	"projexa-service/internal/domain/notification"
	"projexa-service/internal/domain/subscription"
	wstypes "projexa-service/internal/domain/websocket"
	"projexa-service/internal/integration/fedapay"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	"projexa-service/internal/service/email"
	notifsvc "projexa-service/internal/service/notification"
	ws "projexa-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// reminderThreshold is how far before expiry the renewal reminder goes out.
const reminderThreshold = 7 * 24 * time.Hour

type SubscriptionService struct {
	repo        *postgres.SubscriptionRepository
	planRepo    *postgres.SubscriptionPlanRepository
	userRepo    *postgres.UserRepository
	payments    *fedapay.Client
	notifier    *notifsvc.NotificationService
	emailSender *email.EmailSender
	hub         *ws.Hub
	logger      *zap.Logger
	callbackURL string
	now         func() time.Time
}

func NewSubscriptionService(
	repo *postgres.SubscriptionRepository,
	planRepo *postgres.SubscriptionPlanRepository,
	userRepo *postgres.UserRepository,
	payments *fedapay.Client,
	notifier *notifsvc.NotificationService,
	emailSender *email.EmailSender,
	hub *ws.Hub,
	callbackURL string,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		repo:        repo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		payments:    payments,
		notifier:    notifier,
		emailSender: emailSender,
		hub:         hub,
		logger:      logger,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Used by tests.
func (s *SubscriptionService) SetClock(now func() time.Time) {
	s.now = now
}

// ========== Plans ==========

func (s *SubscriptionService) CreatePlan(ctx context.Context, req *subscription.CreatePlanRequest) (*subscription.Plan, error) {
	p := &subscription.Plan{
		PlanCode:       req.PlanCode,
		Name:           req.Name,
		Price:          req.Price,
		Currency:       req.Currency,
		DurationMonths: req.DurationMonths,
		Features:       req.Features,
		IsActive:       true,
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SubscriptionService) UpdatePlan(ctx context.Context, id int64, req *subscription.UpdatePlanRequest) (*subscription.Plan, error) {
	if err := s.planRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.planRepo.FindByID(ctx, id)
}

func (s *SubscriptionService) GetPlan(ctx context.Context, id int64) (*subscription.Plan, error) {
	return s.planRepo.FindByID(ctx, id)
}

// ListPlans returns only purchasable plans for regular users; admins see all.
func (s *SubscriptionService) ListPlans(ctx context.Context, includeInactive bool) ([]subscription.Plan, error) {
	return s.planRepo.List(ctx, !includeInactive)
}

// ========== Checkout ==========

// Checkout opens a pending subscription and a FedaPay transaction for it.
// The subscription only becomes active when the payment webhook confirms.
func (s *SubscriptionService) Checkout(ctx context.Context, userID int64, req *subscription.CheckoutRequest) (*subscription.CheckoutResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, xerrors.ErrPlanInactive
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A renewal is a checkout while a previous subscription is still live.
	isRenewal := false
	if current, err := s.repo.FindActiveByUser(ctx, userID); err == nil && current.IsActive(s.now()) {
		isRenewal = true
	}

	sub := &subscription.Subscription{
		Reference: fmt.Sprintf("SUB-%s", ulid.Make().String()),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    subscription.StatusPending,
		IsRenewal: isRenewal,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	tx, err := s.payments.CreateTransaction(ctx, &fedapay.CreateTransactionRequest{
		Description:   fmt.Sprintf("Projexa %s subscription", plan.Name),
		Amount:        int64(plan.Price),
		Currency:      plan.Currency,
		CustomerEmail: user.Email,
		CustomerName:  user.FullName,
		Reference:     sub.Reference,
		CallbackURL:   s.callbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open payment transaction: %w", err)
	}

	return &subscription.CheckoutResponse{
		Subscription: sub,
		CheckoutURL:  tx.CheckoutURL,
	}, nil
}

// HandlePaymentWebhook processes a verified FedaPay event. Activation is a
// conditional update on the pending status, so a replayed webhook is a no-op.
func (s *SubscriptionService) HandlePaymentWebhook(ctx context.Context, event *fedapay.WebhookEvent) error {
	if event.Name != "transaction.approved" {
		s.logger.Info("ignoring fedapay event", zap.String("name", event.Name))
		return nil
	}

	reference := event.Entity.CustomMetadata.Reference
	if reference == "" {
		reference = event.Entity.Reference
	}

	sub, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("unknown subscription reference %q: %w", reference, err)
	}

	plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}

	startsAt := s.now()
	endsAt := startsAt.AddDate(0, plan.DurationMonths, 0)

	activated, err := s.repo.Activate(ctx, sub.ID, startsAt, endsAt, event.Entity.Amount, event.Entity.Mode, fmt.Sprintf("%d", event.Entity.ID))
	if err != nil {
		return err
	}
	if !activated {
		s.logger.Info("subscription already settled, skipping activation",
			zap.Int64("subscription_id", sub.ID))
		return nil
	}

	s.promote(ctx, sub.UserID, auth.RoleMember, auth.RolePremium, "subscription activated")

	if _, err := s.notifier.CreateAndPush(ctx, &notification.CreateNotificationRequest{
		IdentityID: sub.UserID,
		Title:      "Subscription active",
		Message:    fmt.Sprintf("Your %s subscription is active until %s.", plan.Name, endsAt.Format("2006-01-02")),
		Type:       notification.TypeInfo,
	}); err != nil {
		s.logger.Error("failed to notify subscription activation", zap.Error(err))
	}

	if user, err := s.userRepo.FindByID(ctx, sub.UserID); err == nil {
		go func(to, planName string) {
			body := fmt.Sprintf("<p>Hello,</p><p>Your <strong>%s</strong> subscription is now active until %s. Enjoy your premium features.</p>",
				planName, endsAt.Format("2006-01-02"))
			if err := s.emailSender.Send(to, "Your Projexa subscription is active", body); err != nil {
				s.logger.Error("failed to send activation email", zap.Error(err))
			}
		}(user.Email, plan.Name)
	}

	return nil
}

// ========== Lifecycle ==========

// Cancel terminates a pending or active subscription and demotes the user.
func (s *SubscriptionService) Cancel(ctx context.Context, subscriptionID, userID int64, userRole string) error {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != userID && userRole != auth.RoleAdmin {
		return xerrors.ErrForbidden
	}

	cancelled, err := s.repo.Cancel(ctx, subscriptionID, s.now())
	if err != nil {
		return err
	}
	if !cancelled {
		return xerrors.ErrConflict
	}

	s.promote(ctx, sub.UserID, auth.RolePremium, auth.RoleMember, "subscription cancelled")

	if _, err := s.notifier.CreateAndPush(ctx, &notification.CreateNotificationRequest{
		IdentityID: sub.UserID,
		Title:      "Subscription cancelled",
		Message:    "Your subscription has been cancelled.",
		Type:       notification.TypeAlert,
	}); err != nil {
		s.logger.Error("failed to notify cancellation", zap.Error(err))
	}

	return nil
}

// ExpireLapsed expires every active subscription whose end date has passed,
// demotes the owners and tells them. Called by the lifecycle sweeper.
func (s *SubscriptionService) ExpireLapsed(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireLapsed(ctx, s.now())
	if err != nil {
		return 0, err
	}

	for _, sub := range expired {
		s.promote(ctx, sub.UserID, auth.RolePremium, auth.RoleMember, "subscription expired")

		s.hub.SendToUser(sub.UserID, wstypes.NewMessage(wstypes.EventTypeSubscriptionExpired, map[string]interface{}{
			"subscription_id": sub.ID,
		}))

		if _, err := s.notifier.CreateAndPush(ctx, &notification.CreateNotificationRequest{
			IdentityID: sub.UserID,
			Title:      "Subscription expired",
			Message:    "Your subscription has expired. Renew to keep your premium features.",
			Type:       notification.TypeAlert,
		}); err != nil {
			s.logger.Error("failed to notify expiry", zap.Int64("subscription_id", sub.ID), zap.Error(err))
		}
	}

	return len(expired), nil
}

// SendExpiryReminders mails users whose subscription lapses within the
// reminder window. Each subscription is reminded at most once.
func (s *SubscriptionService) SendExpiryReminders(ctx context.Context) (int, error) {
	due, err := s.repo.MarkRemindersSent(ctx, s.now(), reminderThreshold)
	if err != nil {
		return 0, err
	}

	for _, sub := range due {
		user, err := s.userRepo.FindByID(ctx, sub.UserID)
		if err != nil {
			s.logger.Error("failed to load user for reminder", zap.Int64("user_id", sub.UserID), zap.Error(err))
			continue
		}

		endsAt := ""
		if sub.EndsAt.Valid {
			endsAt = sub.EndsAt.Time.Format("2006-01-02")
		}

		go func(to, until string) {
			body := fmt.Sprintf("<p>Hello,</p><p>Your Projexa subscription expires on <strong>%s</strong>. Renew now to keep your premium access.</p>", until)
			if err := s.emailSender.Send(to, "Your Projexa subscription expires soon", body); err != nil {
				s.logger.Error("failed to send reminder email", zap.Error(err))
			}
		}(user.Email, endsAt)
	}

	return len(due), nil
}

// ========== Queries ==========

func (s *SubscriptionService) Get(ctx context.Context, subscriptionID, userID int64, userRole string) (*subscription.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID && userRole != auth.RoleAdmin {
		return nil, xerrors.ErrForbidden
	}
	return sub, nil
}

// GetCurrent returns the caller's live subscription, if any.
func (s *SubscriptionService) GetCurrent(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	sub, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive(s.now()) {
		return nil, xerrors.ErrNotFound
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	subs, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &subscription.SubscriptionListResponse{
		Subscriptions: subs,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    totalPages,
	}, nil
}

// promote flips the role only when the user still holds fromRole, so admin
// and manager accounts are never touched by subscription churn.
func (s *SubscriptionService) promote(ctx context.Context, userID int64, fromRole, toRole, reason string) {
	changed, err := s.userRepo.PromoteRole(ctx, userID, fromRole, toRole)
	if err != nil {
		s.logger.Error("failed to update role",
			zap.Int64("user_id", userID),
			zap.String("to", toRole),
			zap.Error(err),
		)
		return
	}
	if !changed {
		return
	}

	s.hub.SendToUser(userID, wstypes.NewMessage(wstypes.EventTypeRoleChanged, &wstypes.RoleChangeData{
		Role:   toRole,
		Reason: reason,
	}))
}
