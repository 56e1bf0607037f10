package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/internal/services"
)

// HealthHandler provides the health check endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Reviews held back by the verifier
	var underVerification int64
	models.GetDB().Model(&models.Review{}).
		Where("is_valid = ?", false).
		Count(&underVerification)

	// Oracle availability: at least one active config means AI judgment
	// runs, otherwise every review falls back to the basic scorer.
	oracleStatus := "fallback only"
	if dbStatus == "ok" {
		configs, err := services.NewOracleConfigService(models.GetDB()).GetActive()
		if err == nil && len(configs) > 0 {
			oracleStatus = "ok"
		}
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "renttrust",
		"components": gin.H{
			"database":           dbStatus,
			"queue_mode":         queueMode,
			"oracle":             oracleStatus,
			"under_verification": underVerification,
		},
	})
}
