package models

import (
	"time"
)

// Fairness assessments produced by the aggregate review summarizer.
const (
	FairnessPositive = "positive"
	FairnessNegative = "negative"
	FairnessNeutral  = "neutral"
)

// ReputationSnapshot caches the latest aggregate-analysis result for a user.
// It is refreshed by the worker after a valid review lands and nightly by the
// scheduler; serving a stale snapshot is acceptable, it is enrichment only.
type ReputationSnapshot struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Summary            string    `gorm:"type:text" json:"summary"`
	IdentifiedIssues   string    `gorm:"size:1000" json:"identified_issues"` // JSON array
	FairnessAssessment string    `gorm:"size:20;default:neutral" json:"fairness_assessment"`
	ReviewCount        int       `json:"review_count"`
	Source             string    `gorm:"size:20" json:"source"` // oracle, fallback
	GeneratedAt        time.Time `json:"generated_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (ReputationSnapshot) TableName() string { return "reputation_snapshots" }
