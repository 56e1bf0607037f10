package models

import (
	"time"

	"gorm.io/gorm"
)

// OracleConfig is a database-stored judgment oracle endpoint. The verdict
// service tries the default config first, then the remaining active ones in
// id order, then the config-file oracle settings.
type OracleConfig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Provider    string         `gorm:"size:50;default:gemini" json:"provider"` // gemini, openai, azure, anthropic, ollama
	BaseURL     string         `gorm:"size:500" json:"base_url"`
	APIKey      string         `gorm:"size:500" json:"-"`
	APIKeyMask  string         `gorm:"-" json:"api_key_mask"` // For display only
	Model       string         `gorm:"size:100" json:"model"`
	MaxTokens   int            `gorm:"default:1024" json:"max_tokens"`
	Temperature float64        `gorm:"default:0.3" json:"temperature"`
	IsDefault   bool           `gorm:"default:false" json:"is_default"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OracleConfig) TableName() string { return "oracle_configs" }

// MaskAPIKey returns masked API key for display
func (o *OracleConfig) MaskAPIKey() string {
	if len(o.APIKey) <= 8 {
		return "****"
	}
	return o.APIKey[:4] + "****" + o.APIKey[len(o.APIKey)-4:]
}
