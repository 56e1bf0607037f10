package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	systemLogService *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{
		systemLogService: services.NewSystemLogService(db),
	}
}

func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.systemLogService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.systemLogService.GetModules()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"modules": modules})
}

// GetRetention returns the log retention period in days
// GET /api/admin/system-logs/retention
func (h *SystemLogHandler) GetRetention(c *gin.Context) {
	response.Success(c, gin.H{"retention_days": h.systemLogService.GetRetentionDays()})
}

type setRetentionRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1,max=3650"`
}

// SetRetention updates the log retention period
// PUT /api/admin/system-logs/retention
func (h *SystemLogHandler) SetRetention(c *gin.Context) {
	var req setRetentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.systemLogService.SetRetentionDays(req.RetentionDays); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"retention_days": req.RetentionDays})
}

// Cleanup deletes logs older than the given number of days (defaults to the
// configured retention)
// POST /api/admin/system-logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	days := h.systemLogService.GetRetentionDays()
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "invalid days parameter")
			return
		}
		days = parsed
	}

	deleted, err := h.systemLogService.CleanupOldLogs(days)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted, "days": days})
}
