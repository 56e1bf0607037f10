package services

import (
	"context"

	"github.com/renttrust/renttrust/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const defaultReputationCron = "0 3 * * *"

// Scheduler runs the nightly reputation refresh and the system-log cleanup.
type Scheduler struct {
	db         *gorm.DB
	reputation *ReputationService
	configSvc  *SystemConfigService
	cron       *cron.Cron
}

func NewScheduler(db *gorm.DB, reputation *ReputationService) *Scheduler {
	return &Scheduler{
		db:         db,
		reputation: reputation,
		configSvc:  NewSystemConfigService(db),
	}
}

func (s *Scheduler) Start() {
	s.cron = cron.New()

	spec := s.configSvc.GetWithDefault("reputation_refresh_cron", defaultReputationCron)
	if _, err := s.cron.AddFunc(spec, s.runReputationRefresh); err != nil {
		logger.Warnf("[Scheduler] Invalid cron spec %q, using default: %v", spec, err)
		s.cron.AddFunc(defaultReputationCron, s.runReputationRefresh)
	}

	// Log cleanup runs hourly; retention itself is config-driven
	s.cron.AddFunc("0 * * * *", func() {
		runLogCleanup(NewSystemLogService(s.db))
	})

	s.cron.Start()
	logger.Infof("[Scheduler] Started (reputation refresh: %s)", spec)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logger.Infof("[Scheduler] Stopped")
	}
}

func (s *Scheduler) runReputationRefresh() {
	if !s.configSvc.GetBool("aggregate_analysis_enabled", true) {
		logger.Infof("[Scheduler] Aggregate analysis disabled, skipping reputation refresh")
		return
	}

	refreshed, err := s.reputation.RefreshAll(context.Background())
	if err != nil {
		logger.Errorf("[Scheduler] Reputation refresh failed: %v", err)
		return
	}
	logger.Infof("[Scheduler] Reputation refresh complete: %d users", refreshed)
}
