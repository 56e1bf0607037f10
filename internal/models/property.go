package models

import (
	"time"

	"gorm.io/gorm"
)

// Property is a rental listing owned by exactly one user. The owner
// relationship is immutable after creation.
type Property struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerID      uint           `gorm:"index;not null" json:"owner_id"`
	Owner        *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name         string         `gorm:"size:200;not null" json:"name"`
	Address      string         `gorm:"size:500;not null" json:"address"`
	Description  string         `gorm:"type:text" json:"description"`
	PropertyType string         `gorm:"size:50" json:"property_type"` // apartment, house, condo, ...
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Property) TableName() string { return "properties" }
