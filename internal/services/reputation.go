package services

import (
	"context"
	"time"

	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/pkg/logger"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReputationService struct {
	db      *gorm.DB
	oracle  *OracleService
	reviews *ReviewService
}

func NewReputationService(db *gorm.DB, oracle *OracleService, reviews *ReviewService) *ReputationService {
	return &ReputationService{db: db, oracle: oracle, reviews: reviews}
}

// ReputationAnalysis is the aggregate summarizer output served over the API.
type ReputationAnalysis struct {
	UserID             uint      `json:"user_id"`
	Summary            string    `json:"summary"`
	IdentifiedIssues   []string  `json:"identifiedIssues"`
	FairnessAssessment string    `json:"fairnessAssessment"`
	ReviewCount        int       `json:"review_count"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// AnalyzeUser runs the aggregate summarizer over a user's valid reviews and
// refreshes the cached snapshot with the result.
func (s *ReputationService) AnalyzeUser(ctx context.Context, userID uint) (*ReputationAnalysis, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}

	inputs, err := s.reviews.ValidReviewInputs(userID)
	if err != nil {
		logger.Errorf("[Reputation] Failed to load reviews for user %d: %v", userID, err)
		return nil, response.NewServerError("failed to load reviews")
	}

	verdict := s.oracle.JudgeAggregate(ctx, inputs)

	analysis := &ReputationAnalysis{
		UserID:             userID,
		Summary:            verdict.Summary,
		IdentifiedIssues:   verdict.IdentifiedIssues,
		FairnessAssessment: verdict.FairnessAssessment,
		ReviewCount:        len(inputs),
		GeneratedAt:        time.Now(),
	}

	if err := s.saveSnapshot(analysis, verdict.Source); err != nil {
		// Cache refresh failure does not invalidate the analysis itself
		logger.Warnf("[Reputation] Failed to cache snapshot for user %d: %v", userID, err)
	}

	return analysis, nil
}

// RefreshSnapshot is the worker entry point for queued refresh tasks.
func (s *ReputationService) RefreshSnapshot(ctx context.Context, task *ReputationTask) error {
	_, err := s.AnalyzeUser(ctx, task.UserID)
	if err != nil {
		return err
	}
	logger.Infof("[Reputation] Snapshot refreshed for user %d (trigger: %s)", task.UserID, task.Trigger)
	return nil
}

// RefreshAll refreshes snapshots for every user with at least one valid
// review. Used by the nightly scheduler.
func (s *ReputationService) RefreshAll(ctx context.Context) (int, error) {
	var userIDs []uint
	err := s.db.Model(&models.Review{}).
		Distinct("reviewee_id").
		Where("is_valid = ?", true).
		Pluck("reviewee_id", &userIDs).Error
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, id := range userIDs {
		if _, err := s.AnalyzeUser(ctx, id); err != nil {
			logger.Warnf("[Reputation] Nightly refresh failed for user %d: %v", id, err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// GetSnapshot returns the cached snapshot, or nil when none exists yet.
func (s *ReputationService) GetSnapshot(userID uint) (*models.ReputationSnapshot, error) {
	var snapshot models.ReputationSnapshot
	err := s.db.Where("user_id = ?", userID).First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *ReputationService) saveSnapshot(analysis *ReputationAnalysis, source string) error {
	snapshot := models.ReputationSnapshot{
		UserID:             analysis.UserID,
		Summary:            analysis.Summary,
		IdentifiedIssues:   models.EncodeTags(analysis.IdentifiedIssues),
		FairnessAssessment: analysis.FairnessAssessment,
		ReviewCount:        analysis.ReviewCount,
		Source:             source,
		GeneratedAt:        analysis.GeneratedAt,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "identified_issues", "fairness_assessment",
			"review_count", "source", "generated_at", "updated_at",
		}),
	}).Create(&snapshot).Error
}
