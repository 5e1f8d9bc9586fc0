// internal/service/lifecycle/sweeper.go
package lifecycle

import (
	"context"
	"time"

	"projexa-service/internal/service/recruitment"
	"projexa-service/internal/service/subscription"

	"go.uber.org/zap"
)

// Sweeper periodically reconciles time-driven state: overdue auto-close
// recruitments, lapsed subscriptions and expiry reminders. The on-read guards
// keep single records honest between runs; the sweeper makes sure nothing
// that is never read stays stale forever.
type Sweeper struct {
	recruitments  *recruitment.RecruitmentService
	subscriptions *subscription.SubscriptionService
	interval      time.Duration
	logger        *zap.Logger
}

func NewSweeper(
	recruitments *recruitment.RecruitmentService,
	subscriptions *subscription.SubscriptionService,
	interval time.Duration,
	logger *zap.Logger,
) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		recruitments:  recruitments,
		subscriptions: subscriptions,
		interval:      interval,
		logger:        logger,
	}
}

// Run blocks until the context is cancelled. One pass runs immediately so a
// restart catches up without waiting a full interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("lifecycle sweeper started", zap.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if closed, err := s.recruitments.CloseExpired(ctx); err != nil {
		s.logger.Error("sweep: failed to close expired recruitments", zap.Error(err))
	} else if len(closed) > 0 {
		s.logger.Info("sweep: closed expired recruitments", zap.Int64s("ids", closed))
	}

	if expired, err := s.subscriptions.ExpireLapsed(ctx); err != nil {
		s.logger.Error("sweep: failed to expire subscriptions", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("sweep: expired subscriptions", zap.Int("count", expired))
	}

	if reminded, err := s.subscriptions.SendExpiryReminders(ctx); err != nil {
		s.logger.Error("sweep: failed to send expiry reminders", zap.Error(err))
	} else if reminded > 0 {
		s.logger.Info("sweep: sent expiry reminders", zap.Int("count", reminded))
	}
}
