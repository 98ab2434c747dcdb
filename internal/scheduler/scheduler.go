package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = 30 * time.Second

// RateRefresher is implemented by the service
type RateRefresher interface {
	RefreshKeyRate(ctx context.Context) (decimal.Decimal, error)
}

// Scheduler runs periodic background jobs
type Scheduler struct {
	cron      *cron.Cron
	refresher RateRefresher
	log       *logrus.Logger
}

// New registers the key rate refresh job on the given cron spec
func New(spec string, refresher RateRefresher, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		log:       log,
	}
	if _, err := s.cron.AddFunc(spec, s.RefreshNow); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// RefreshNow fetches the key rate once; failures are logged and retried on the next tick
func (s *Scheduler) RefreshNow() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	rate, err := s.refresher.RefreshKeyRate(ctx)
	if err != nil {
		s.log.Warnf("Key rate refresh failed: %v", err)
		return
	}
	s.log.Infof("Key rate refreshed: %s%%", rate)
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
