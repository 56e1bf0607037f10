package models

import (
	"time"
)

// Log levels stored in SystemLog.Level.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// SystemLog is one operational or audit log row. Admin mutations are
// recorded here by the audit middleware with a shared request id.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"`
	Module    string    `gorm:"size:100;index:idx_logs_module_created" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	RequestID string    `gorm:"size:64;index" json:"request_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON payload
	CreatedAt time.Time `gorm:"index:idx_logs_module_created" json:"created_at"`
}

func (SystemLog) TableName() string { return "system_logs" }
