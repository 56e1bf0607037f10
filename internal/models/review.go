package models

import (
	"encoding/json"
	"time"
)

// Issue tags attachable to a review. Fixed enumeration; anything else is
// rejected at submission time.
const (
	IssuePropertyDamage        = "property_damage"
	IssueLatePayment           = "late_payment"
	IssueCleanliness           = "cleanliness_issues"
	IssueNoiseComplaints       = "noise_complaints"
	IssueLeaseViolations       = "lease_violations"
	IssueMaintenance           = "maintenance_issues"
	IssueCommunicationProblems = "communication_problems"
	IssueUnfairTreatment       = "unfair_treatment"
	IssueOther                 = "other"
)

// IssueTags lists every allowed issue tag.
var IssueTags = []string{
	IssuePropertyDamage,
	IssueLatePayment,
	IssueCleanliness,
	IssueNoiseComplaints,
	IssueLeaseViolations,
	IssueMaintenance,
	IssueCommunicationProblems,
	IssueUnfairTreatment,
	IssueOther,
}

// ValidIssueTag reports whether tag belongs to the fixed enumeration.
func ValidIssueTag(tag string) bool {
	for _, t := range IssueTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Verdict sources recorded on a review.
const (
	VerdictSourceOracle   = "oracle"
	VerdictSourceFallback = "fallback"
)

// Review is a directed edge from reviewer to reviewee, optionally tied to a
// property. Rows are immutable after insert: the (is_valid,
// validation_reason, trust_score_impact) triple is fixed at creation by the
// aggregator and never recomputed, even if the reviewee's other reviews
// change. Invalid reviews stay persisted for audit but are excluded from all
// aggregates.
type Review struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReviewerID       uint      `gorm:"index;not null" json:"reviewer_id"`
	Reviewer         *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	RevieweeID       uint      `gorm:"index;not null" json:"reviewee_id"`
	Reviewee         *User     `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`
	PropertyID       *uint     `json:"property_id"`
	Property         *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Rating           int       `gorm:"not null" json:"rating"` // 1..5
	ReviewText       string    `gorm:"type:text;not null" json:"review_text"`
	IssueTags        string    `gorm:"size:500" json:"issue_tags"` // JSON array of tag strings
	EvidenceImageURL string    `gorm:"size:500" json:"evidence_image_url"`
	IsValid          bool      `gorm:"index" json:"is_valid"`
	ValidationReason string    `gorm:"type:text" json:"validation_reason"`
	TrustScoreImpact int       `json:"trust_score_impact"` // clamped to [-20, 20]
	VerdictSource    string    `gorm:"size:20" json:"verdict_source"` // oracle, fallback
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

// Tags decodes the stored JSON tag array. A missing or malformed value
// decodes to nil.
func (r *Review) Tags() []string {
	if r.IssueTags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(r.IssueTags), &tags); err != nil {
		return nil
	}
	return tags
}

// EncodeTags serializes tags for storage. Empty input stores an empty string.
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}
