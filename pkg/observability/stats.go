package observability

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/minicrm-io/minicrm/pkg/customers"
	"github.com/minicrm-io/minicrm/pkg/tasks"
	"github.com/minicrm-io/minicrm/pkg/users"
)

// StatsCollector refreshes the business-stat gauges on a fixed schedule.
type StatsCollector struct {
	metrics   *Metrics
	logger    *logrus.Logger
	userStore *users.Store
	custStore *customers.Store
	taskStore *tasks.Store
	cron      *cron.Cron
}

// NewStatsCollector creates the collector; call Start to begin polling.
func NewStatsCollector(metrics *Metrics, logger *logrus.Logger, userStore *users.Store, custStore *customers.Store, taskStore *tasks.Store) *StatsCollector {
	return &StatsCollector{
		metrics:   metrics,
		logger:    logger,
		userStore: userStore,
		custStore: custStore,
		taskStore: taskStore,
		cron:      cron.New(),
	}
}

// Start refreshes the gauges immediately and then on the given cron
// schedule (e.g. "@every 1m").
func (s *StatsCollector) Start(schedule string) error {
	s.Refresh(context.Background())

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *StatsCollector) Stop() {
	<-s.cron.Stop().Done()
}

// Refresh queries current entity counts and updates the gauges. Failures
// are logged and leave the previous values in place.
func (s *StatsCollector) Refresh(ctx context.Context) {
	userCount, err := s.userStore.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh user stats")
		return
	}
	custCount, err := s.custStore.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh customer stats")
		return
	}
	taskCount, err := s.taskStore.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh task stats")
		return
	}
	byStatus, err := s.taskStore.CountByStatus(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh task status stats")
		return
	}

	counts := map[string]int64{
		string(tasks.StatusPending):    0,
		string(tasks.StatusInProgress): 0,
		string(tasks.StatusDone):       0,
	}
	for status, count := range byStatus {
		counts[string(status)] = count
	}

	s.metrics.SetBusinessStats(userCount, custCount, taskCount, counts)
}
