package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/config"
	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/service/reminders"
)

const jobTimeout = 2 * time.Minute

// Snapshotter stores ledger snapshots for every crop.
type Snapshotter interface {
	SnapshotAll(ctx context.Context) ([]models.LedgerSnapshot, error)
}

// Reminder sends payment reminders for outstanding balances.
type Reminder interface {
	SendOutstanding(ctx context.Context) (reminders.Result, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	snapshots Snapshotter
	reminders Reminder
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.Config, snapshots Snapshotter, reminders Reminder, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reminders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Reminders.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		snapshots: snapshots,
		reminders: reminders,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Snapshot.CronSchedule, s.runSnapshots); err != nil {
		return fmt.Errorf("failed to schedule ledger snapshots: %w", err)
	}

	if s.cfg.Reminders.Enabled {
		if _, err := s.cron.AddFunc(s.cfg.Reminders.CronSchedule, s.runReminders); err != nil {
			return fmt.Errorf("failed to schedule payment reminders: %w", err)
		}
	} else {
		s.logger.Info("payment reminders disabled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) runSnapshots() {
	s.logger.Info("taking ledger snapshots")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	snaps, err := s.snapshots.SnapshotAll(ctx)
	if err != nil {
		s.logger.Error("failed to take ledger snapshots", zap.Int("stored", len(snaps)), zap.Error(err))
		return
	}
	s.logger.Info("ledger snapshots taken", zap.Int("crops", len(snaps)))
}

func (s *Scheduler) runReminders() {
	s.logger.Info("sending payment reminders")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, err := s.reminders.SendOutstanding(ctx)
	if err != nil {
		s.logger.Error("failed to send payment reminders", zap.Error(err))
		return
	}
	s.logger.Info("payment reminders sent", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
}
