// Package scheduler periodically nudges the UI to re-fetch the active
// window, so long-running sessions converge with the backend even when
// the realtime channel misses a push.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"gridcal/config"
)

// Refresher receives the refresh nudge. The UI host implements it by
// posting a reload message onto its own loop; the scheduler never
// touches the store directly.
type Refresher interface {
	RequestRefresh()
}

type Scheduler struct {
	cron      *cron.Cron
	cfg       *config.Config
	refresher Refresher
}

func New(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(cfg.Timezone)),
		cfg:  cfg,
	}
}

// SetRefresher installs the refresh target. Ticks before it is set are
// dropped.
func (s *Scheduler) SetRefresher(r Refresher) {
	s.refresher = r
}

// Start registers the refresh job and runs until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.RefreshSpec, s.refresh); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, refresh: %q)", s.cfg.Timezone, s.cfg.RefreshSpec)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) refresh() {
	if s.refresher == nil {
		return
	}
	s.refresher.RequestRefresh()
}
