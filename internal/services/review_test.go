package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/renttrust/renttrust/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "renttrust.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Review{},
		&models.ReputationSnapshot{},
		&models.OracleConfig{},
		&models.SystemConfig{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, subject, name string) *models.User {
	t.Helper()
	user := &models.User{
		SubjectID: subject,
		FullName:  name,
		UserType:  models.RoleTenant,
		AuthType:  "oauth",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// verdictOracle returns a canned verdict instead of calling a provider.
func verdictOracle(t *testing.T, db *gorm.DB, reply string) *OracleService {
	t.Helper()
	s := NewOracleService(db, testOracleConfig())
	s.generate = func(ctx context.Context, oc *models.OracleConfig, prompt string) (string, error) {
		return reply, nil
	}
	return s
}

func TestSubmitReview_ValidUpdatesAggregates(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "sub-reviewer", "Reviewer")
	reviewee := createTestUser(t, db, "sub-reviewee", "Reviewee")

	oracle := verdictOracle(t, db, `{"isValid": true, "reason": "credible", "trustScoreImpact": 12}`)
	svc := NewReviewService(db, oracle, nil)

	result, err := svc.SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
		RevieweeID: reviewee.ID,
		Rating:     5,
		ReviewText: "excellent tenant, always paid on time",
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if !result.AIAnalysis.IsValid {
		t.Error("expected valid analysis")
	}
	if result.AIAnalysis.TrustScoreImpact != 12 {
		t.Errorf("impact = %d, want 12", result.AIAnalysis.TrustScoreImpact)
	}

	var updated models.User
	if err := db.First(&updated, reviewee.ID).Error; err != nil {
		t.Fatalf("reload reviewee: %v", err)
	}
	if updated.TrustScore != 12 {
		t.Errorf("trust score = %d, want 12", updated.TrustScore)
	}
	if updated.TotalReviews != 1 {
		t.Errorf("total reviews = %d, want 1", updated.TotalReviews)
	}
	if updated.AverageRating != 5 {
		t.Errorf("average rating = %v, want 5", updated.AverageRating)
	}
}

func TestSubmitReview_InvalidVerdictPersistsButNoAggregateChange(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "sub-r1", "Reviewer")
	reviewee := createTestUser(t, db, "sub-r2", "Reviewee")

	oracle := verdictOracle(t, db, `{"isValid": false, "reason": "text contradicts rating", "trustScoreImpact": 0}`)
	svc := NewReviewService(db, oracle, nil)

	result, err := svc.SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
		RevieweeID: reviewee.ID,
		Rating:     1,
		ReviewText: "everything was absolutely perfect here",
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if result.AIAnalysis.IsValid {
		t.Error("expected invalid analysis")
	}

	// The review row survives for audit
	var count int64
	db.Model(&models.Review{}).Where("reviewee_id = ?", reviewee.ID).Count(&count)
	if count != 1 {
		t.Errorf("review count = %d, want 1", count)
	}

	// Aggregates untouched
	var updated models.User
	db.First(&updated, reviewee.ID)
	if updated.TrustScore != 0 || updated.TotalReviews != 0 || updated.AverageRating != 0 {
		t.Errorf("aggregates changed for invalid review: score=%d reviews=%d avg=%v",
			updated.TrustScore, updated.TotalReviews, updated.AverageRating)
	}
}

func TestSubmitReview_AggregatesRecomputedNotIncremented(t *testing.T) {
	db := setupTestDB(t)
	reviewee := createTestUser(t, db, "sub-target", "Target")

	oracle := verdictOracle(t, db, `{"isValid": true, "reason": "fine", "trustScoreImpact": 5}`)
	svc := NewReviewService(db, oracle, nil)

	ratings := []int{5, 3, 4}
	for i, rating := range ratings {
		reviewer := createTestUser(t, db, fmt.Sprintf("sub-author-%d", i), "Author")
		_, err := svc.SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
			RevieweeID: reviewee.ID,
			Rating:     rating,
			ReviewText: "detailed enough review text for submission",
		})
		if err != nil {
			t.Fatalf("SubmitReview %d: %v", i, err)
		}
	}

	var updated models.User
	db.First(&updated, reviewee.ID)
	if updated.TotalReviews != 3 {
		t.Errorf("total reviews = %d, want 3", updated.TotalReviews)
	}
	if updated.AverageRating != 4 {
		t.Errorf("average rating = %v, want 4", updated.AverageRating)
	}
	if updated.TrustScore != 15 {
		t.Errorf("trust score = %d, want 15", updated.TrustScore)
	}
}

func TestSubmitReview_InputValidation(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "sub-v1", "Reviewer")
	reviewee := createTestUser(t, db, "sub-v2", "Reviewee")

	oracle := verdictOracle(t, db, `{"isValid": true, "reason": "ok", "trustScoreImpact": 0}`)
	svc := NewReviewService(db, oracle, nil)

	tests := []struct {
		name string
		req  SubmitReviewRequest
	}{
		{
			name: "rating too low",
			req:  SubmitReviewRequest{RevieweeID: reviewee.ID, Rating: 0, ReviewText: "long enough review text here"},
		},
		{
			name: "rating too high",
			req:  SubmitReviewRequest{RevieweeID: reviewee.ID, Rating: 6, ReviewText: "long enough review text here"},
		},
		{
			name: "text too short",
			req:  SubmitReviewRequest{RevieweeID: reviewee.ID, Rating: 3, ReviewText: "too short"},
		},
		{
			name: "unknown issue tag",
			req: SubmitReviewRequest{
				RevieweeID: reviewee.ID,
				Rating:     3,
				ReviewText: "long enough review text here",
				IssueTags:  []string{"made_up_tag"},
			},
		},
		{
			name: "self review",
			req:  SubmitReviewRequest{RevieweeID: reviewer.ID, Rating: 5, ReviewText: "reviewing myself favorably today"},
		},
		{
			name: "unknown reviewee",
			req:  SubmitReviewRequest{RevieweeID: 99999, Rating: 4, ReviewText: "long enough review text here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitReview(context.Background(), reviewer.ID, &tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// None of the rejected submissions may leave a row behind
	var count int64
	db.Model(&models.Review{}).Count(&count)
	if count != 0 {
		t.Errorf("review count = %d, want 0", count)
	}
}

func TestSubmitReview_NegativeImpact(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "sub-n1", "Reviewer")
	reviewee := createTestUser(t, db, "sub-n2", "Reviewee")

	oracle := verdictOracle(t, db, `{"isValid": true, "reason": "serious issues documented", "trustScoreImpact": -18}`)
	svc := NewReviewService(db, oracle, nil)

	_, err := svc.SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
		RevieweeID: reviewee.ID,
		Rating:     1,
		ReviewText: "significant property damage left behind",
		IssueTags:  []string{models.IssuePropertyDamage},
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	var updated models.User
	db.First(&updated, reviewee.ID)
	if updated.TrustScore != -18 {
		t.Errorf("trust score = %d, want -18", updated.TrustScore)
	}
}

func TestListReceived_FiltersInvalid(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "lr-1", "Reviewer")
	reviewee := createTestUser(t, db, "lr-2", "Reviewee")

	valid := verdictOracle(t, db, `{"isValid": true, "reason": "ok", "trustScoreImpact": 5}`)
	invalid := verdictOracle(t, db, `{"isValid": false, "reason": "suspicious", "trustScoreImpact": 0}`)

	if _, err := NewReviewService(db, valid, nil).SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
		RevieweeID: reviewee.ID, Rating: 4, ReviewText: "good experience with this landlord",
	}); err != nil {
		t.Fatalf("valid submit: %v", err)
	}
	if _, err := NewReviewService(db, invalid, nil).SubmitReview(context.Background(), reviewer.ID, &SubmitReviewRequest{
		RevieweeID: reviewee.ID, Rating: 1, ReviewText: "incoherent complaint with high praise",
	}); err != nil {
		t.Fatalf("invalid submit: %v", err)
	}

	received, err := NewReviewService(db, valid, nil).ListReceived(reviewee.ID)
	if err != nil {
		t.Fatalf("ListReceived: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("received = %d reviews, want 1", len(received))
	}

	given, err := NewReviewService(db, valid, nil).ListGiven(reviewer.ID)
	if err != nil {
		t.Fatalf("ListGiven: %v", err)
	}
	if len(given) != 2 {
		t.Errorf("given = %d reviews, want 2 (invalid ones included)", len(given))
	}
}
