package main

import (
	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/handlers"
	"github.com/renttrust/renttrust/internal/middleware"
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for review submission
	reviewLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	userHandler := handlers.NewUserHandler(models.GetDB(), svc.oracleService)
	reviewHandler := handlers.NewReviewHandler(svc.reviewService, svc.reputationService)
	propertyHandler := handlers.NewPropertyHandler(models.GetDB())

	// API routes
	api := r.Group("/api")
	{
		// Session routes (public)
		api.GET("/oauth/google/redirect_url", svc.authHandler.RedirectURL)
		api.POST("/sessions", svc.authHandler.CreateSession)
		api.POST("/auth/login", svc.authHandler.Login)

		// Public profile lookups
		api.GET("/users/search", userHandler.Search)
		api.GET("/users/:id", userHandler.GetPublic)
		api.GET("/reviews/analysis/:userId", reviewHandler.Analysis)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Profiles
			protected.POST("/users", userHandler.CreateProfile)
			protected.GET("/users/me", userHandler.Me)
			protected.PUT("/users/me", userHandler.UpdateMe)
			protected.POST("/users/verify-avatar", userHandler.VerifyAvatar)

			// Properties
			protected.GET("/properties", propertyHandler.ListMine)
			protected.GET("/properties/:id", propertyHandler.GetByID)
			protected.POST("/properties", propertyHandler.Create)
			protected.PUT("/properties/:id", propertyHandler.Update)

			// Reviews
			protected.GET("/reviews/received", reviewHandler.ListReceived)
			protected.GET("/reviews/given", reviewHandler.ListGiven)
			protected.POST("/reviews", reviewLimiter.Middleware(), reviewHandler.Submit)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id/active", userHandler.SetActive)

			// Oracle Configs
			oracleConfigHandler := handlers.NewOracleConfigHandler(models.GetDB())
			admin.GET("/oracle-configs", oracleConfigHandler.List)
			admin.GET("/oracle-configs/:id", oracleConfigHandler.GetByID)
			admin.POST("/oracle-configs", oracleConfigHandler.Create)
			admin.PUT("/oracle-configs/:id", oracleConfigHandler.Update)
			admin.DELETE("/oracle-configs/:id", oracleConfigHandler.Delete)

			// System Logs
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
