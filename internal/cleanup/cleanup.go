// Package cleanup purges assignments that departed long ago.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"train_schedule/internal/config"
	"train_schedule/internal/database"
	"train_schedule/internal/observability/metrics"
)

// Service runs the retention purge on a cron schedule.
type Service struct {
	cron      *cron.Cron
	store     *database.Store
	cfg       config.CleanupConfig
	now       func() time.Time
	isRunning bool
}

func NewService(store *database.Store, cfg config.CleanupConfig) *Service {
	return &Service{
		cron:  cron.New(),
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Cutoff is the departure time before which assignments are purged.
func (s *Service) Cutoff() time.Time {
	return s.now().AddDate(0, 0, -s.cfg.RetentionDays)
}

// RunOnce purges everything that departed before Cutoff.
func (s *Service) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.Cutoff()
	n, err := s.store.PurgeDepartedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge assignments before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	metrics.AddAssignmentsPurged(n)
	logrus.WithFields(logrus.Fields{
		"cutoff": cutoff.Format(time.RFC3339),
		"purged": n,
	}).Info("Cleanup: purged departed assignments")
	return n, nil
}

// Start registers the purge job. It is a no-op when cleanup is disabled.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		logrus.Info("Cleanup: disabled in configuration")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			logrus.WithError(err).Error("Cleanup: run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("cleanup schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	logrus.WithFields(logrus.Fields{
		"schedule":       s.cfg.Schedule,
		"retention_days": s.cfg.RetentionDays,
	}).Info("Cleanup: scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running purge to finish.
func (s *Service) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		logrus.Info("Cleanup: stopped")
	}
}
