// Package scheduler runs the periodic maintenance jobs: license status
// refresh and security event retention pruning. Expired user blocks are
// not handled here; the block ledger retires them lazily on read.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/services"
)

type Scheduler struct {
	cron      *cron.Cron
	events    *services.EventService
	inventory *services.InventoryService
	retention int
}

func New(events *services.EventService, inventory *services.InventoryService, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		events:    events,
		inventory: inventory,
		retention: retentionDays,
	}
}

// Start registers the jobs and launches the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	// Hourly: mark licenses past their expiry date.
	if _, err := s.cron.AddFunc("@hourly", s.refreshLicenses); err != nil {
		return err
	}
	// Daily: prune security events past the retention window.
	if _, err := s.cron.AddFunc("@daily", s.pruneEvents); err != nil {
		return err
	}
	s.cron.Start()
	logger.Log().Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Log().Info("Scheduler stopped")
}

func (s *Scheduler) refreshLicenses() {
	if _, err := s.inventory.RefreshLicenseStatuses(); err != nil {
		logger.WithError(err).Error("License status refresh failed")
	}
}

func (s *Scheduler) pruneEvents() {
	if s.retention <= 0 {
		return
	}
	pruned, err := s.events.PruneOlderThan(s.retention)
	if err != nil {
		logger.WithError(err).Error("Security event pruning failed")
		return
	}
	if pruned > 0 {
		logger.WithFields(map[string]interface{}{
			"pruned":         pruned,
			"retention_days": s.retention,
		}).Info("Old security events pruned")
	}
}
