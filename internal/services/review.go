package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/pkg/logger"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const minReviewTextLen = 15

type ReviewService struct {
	db     *gorm.DB
	oracle *OracleService
	queue  TaskQueue
}

func NewReviewService(db *gorm.DB, oracle *OracleService, queue TaskQueue) *ReviewService {
	return &ReviewService{db: db, oracle: oracle, queue: queue}
}

type SubmitReviewRequest struct {
	RevieweeID       uint     `json:"reviewee_id" binding:"required"`
	PropertyID       *uint    `json:"property_id"`
	Rating           int      `json:"rating" binding:"required"`
	ReviewText       string   `json:"review_text" binding:"required"`
	IssueTags        []string `json:"issue_tags"`
	EvidenceImageURL string   `json:"evidence_image_url"`
}

// SubmitReviewResult mirrors what the reviewer sees after submission.
type SubmitReviewResult struct {
	Success    bool           `json:"success"`
	ReviewID   uint           `json:"review_id"`
	AIAnalysis *ReviewVerdict `json:"aiAnalysis"`
}

// SubmitReview validates the submission, obtains a verdict, and applies it.
// The review row and the reviewee's aggregates are written in one
// transaction; nothing is persisted when validation fails.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewerID uint, req *SubmitReviewRequest) (*SubmitReviewResult, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, response.NewBadRequest("rating must be between 1 and 5")
	}
	if len(strings.TrimSpace(req.ReviewText)) < minReviewTextLen {
		return nil, response.NewBadRequest(fmt.Sprintf("review text must be at least %d characters", minReviewTextLen))
	}
	for _, tag := range req.IssueTags {
		if !models.ValidIssueTag(tag) {
			return nil, response.NewBadRequest("unknown issue tag: " + tag)
		}
	}
	if req.RevieweeID == reviewerID {
		return nil, response.NewBadRequest("you cannot review yourself")
	}

	var reviewer models.User
	if err := s.db.First(&reviewer, reviewerID).Error; err != nil {
		return nil, response.NewBadRequest("complete your profile before submitting reviews")
	}

	var reviewee models.User
	if err := s.db.First(&reviewee, req.RevieweeID).Error; err != nil {
		return nil, response.NewNotFound("reviewee not found")
	}

	if req.PropertyID != nil {
		var property models.Property
		if err := s.db.First(&property, *req.PropertyID).Error; err != nil {
			return nil, response.NewNotFound("property not found")
		}
	}

	// Verdict before persistence; the oracle never blocks submission beyond
	// its timeout and never fails the request.
	verdict := s.oracle.JudgeReview(ctx, req.Rating, req.ReviewText, req.IssueTags, req.EvidenceImageURL)

	review := models.Review{
		ReviewerID:       reviewerID,
		RevieweeID:       req.RevieweeID,
		PropertyID:       req.PropertyID,
		Rating:           req.Rating,
		ReviewText:       req.ReviewText,
		IssueTags:        models.EncodeTags(req.IssueTags),
		EvidenceImageURL: req.EvidenceImageURL,
		IsValid:          verdict.IsValid,
		ValidationReason: verdict.Reason,
		TrustScoreImpact: verdict.TrustScoreImpact,
		VerdictSource:    verdict.Source,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the reviewee row so concurrent submissions serialize their
		// aggregate updates. SQLite serializes writers on its own and has
		// no FOR UPDATE syntax.
		var target models.User
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&target, req.RevieweeID).Error; err != nil {
			return err
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		if !review.IsValid {
			return nil
		}

		var stats struct {
			Count int64
			Avg   float64
		}
		if err := tx.Model(&models.Review{}).
			Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as avg").
			Where("reviewee_id = ? AND is_valid = ?", req.RevieweeID, true).
			Scan(&stats).Error; err != nil {
			return err
		}

		return tx.Model(&target).Updates(map[string]interface{}{
			"trust_score":    target.TrustScore + review.TrustScoreImpact,
			"total_reviews":  stats.Count,
			"average_rating": stats.Avg,
		}).Error
	})
	if err != nil {
		logger.Errorf("[Review] Failed to persist review from user %d to user %d: %v", reviewerID, req.RevieweeID, err)
		return nil, response.NewServerError("failed to save review")
	}

	if review.IsValid && s.queue != nil {
		if err := s.queue.Enqueue(&ReputationTask{UserID: req.RevieweeID, Trigger: "review"}); err != nil {
			logger.Warnf("[Review] Failed to enqueue reputation refresh for user %d: %v", req.RevieweeID, err)
		}
	}

	return &SubmitReviewResult{
		Success:    true,
		ReviewID:   review.ID,
		AIAnalysis: verdict,
	}, nil
}

// ListReceived returns the valid reviews targeting a user, newest first.
// Invalid reviews stay hidden from the reviewee.
func (s *ReviewService) ListReceived(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Preload("Reviewer").
		Preload("Property").
		Where("reviewee_id = ? AND is_valid = ?", userID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, response.NewServerError("failed to load reviews")
	}
	return reviews, nil
}

// ListGiven returns every review a user has written, including ones still
// under verification.
func (s *ReviewService) ListGiven(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Preload("Reviewee").
		Preload("Property").
		Where("reviewer_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, response.NewServerError("failed to load reviews")
	}
	return reviews, nil
}

// ValidReviewInputs loads a user's valid reviews as summarizer inputs,
// oldest first.
func (s *ReviewService) ValidReviewInputs(userID uint) ([]ReviewInput, error) {
	var reviews []models.Review
	err := s.db.
		Where("reviewee_id = ? AND is_valid = ?", userID, true).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	inputs := make([]ReviewInput, 0, len(reviews))
	for _, r := range reviews {
		inputs = append(inputs, ReviewInput{
			Rating:     r.Rating,
			ReviewText: r.ReviewText,
			IssueTags:  r.Tags(),
		})
	}
	return inputs, nil
}
