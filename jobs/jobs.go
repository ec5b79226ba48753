// Package jobs runs periodic maintenance.
package jobs

import (
	"context"
	"fmt"
	"time"

	"food-ordering-api/store"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Scheduler struct {
	s      gocron.Scheduler
	users  store.UserRepository
	logger *zap.SugaredLogger
}

// New schedules the reset token sweep every interval. Call Start to begin running it.
func New(users store.UserRepository, interval time.Duration, logger *zap.SugaredLogger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	sch := &Scheduler{s: s, users: users, logger: logger}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { sch.SweepResetTokens(context.Background()) }),
		gocron.WithName("reset-token-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule reset token sweep: %w", err)
	}
	return sch, nil
}

// SweepResetTokens clears password reset tokens whose expiry has passed.
func (s *Scheduler) SweepResetTokens(ctx context.Context) {
	n, err := s.users.ClearExpiredResetTokens(ctx, time.Now())
	if err != nil {
		s.logger.Errorw("reset token sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Infow("cleared expired reset tokens", "count", n)
	}
}

func (s *Scheduler) Start() {
	s.s.Start()
	s.logger.Info("maintenance scheduler started")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	return s.s.Shutdown()
}
