package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"portfoliocms/internal/logging"
)

const schedulerUser = "scheduler"

// Scheduler runs a full backup (and rotation) on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	svc     *Service
	keep    int
	timeout time.Duration
	log     *zap.Logger
}

// NewScheduler validates spec (standard 5-field cron or a descriptor such as
// "@daily") and registers the job. Call Start to begin running it.
func NewScheduler(svc *Service, spec string, keep int, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		svc:     svc,
		keep:    keep,
		timeout: 30 * time.Minute,
		log:     logging.OrNop(log),
	}
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return nil, fmt.Errorf("invalid BACKUP_SCHEDULE %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("backup scheduler started")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("backup scheduler stopped while a job was running")
	}
}

// Run performs one scheduled backup. Failures are logged, never returned.
func (s *Scheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.svc.CreateBackup(ctx, schedulerUser); err != nil {
		return
	}
	if _, err := s.svc.Rotate(ctx, s.keep); err != nil {
		s.log.Error("backup rotation failed", zap.Error(err))
	}
}
