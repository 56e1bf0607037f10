package main

import (
	"os"

	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/handlers"
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/internal/utils"
	"github.com/renttrust/renttrust/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	reviewService     *services.ReviewService
	reputationService *services.ReputationService
	oracleService     *services.OracleService
	scheduler         *services.Scheduler
	taskQueue         services.TaskQueue
	worker            *services.Worker
	authHandler       *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Seed the local operator account
	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin123"
	}
	if err := services.EnsureAdminAccount(models.GetDB(), adminUser, adminPass); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed operator account")
	}

	// Core services
	oracleService := services.NewOracleService(models.GetDB(), &cfg.Oracle)

	// Task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)

	reviewService := services.NewReviewService(models.GetDB(), oracleService, taskQueue)
	reputationService := services.NewReputationService(models.GetDB(), oracleService, reviewService)

	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(reputationService.RefreshSnapshot)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(reputationService.RefreshSnapshot)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start async worker")
			}
		}
	}

	// Nightly reputation refresh + log cleanup
	scheduler := services.NewScheduler(models.GetDB(), reputationService)
	scheduler.Start()

	return &appServices{
		reviewService:     reviewService,
		reputationService: reputationService,
		oracleService:     oracleService,
		scheduler:         scheduler,
		taskQueue:         taskQueue,
		worker:            worker,
		authHandler:       handlers.NewAuthHandler(models.GetDB(), cfg),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
