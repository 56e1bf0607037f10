package services

import (
	"fmt"

	"github.com/renttrust/renttrust/internal/models"
)

// Trust-score impacts are always clamped to this interval before persistence.
const (
	MinTrustImpact = -20
	MaxTrustImpact = 20
)

// FallbackReason is recorded on verdicts produced by the local scorer.
const FallbackReason = "AI analysis unavailable, using basic validation"

// Issue tags that carry a scoring penalty. Tags outside both sets
// (cleanliness_issues, noise_complaints, other) contribute nothing.
var (
	seriousIssues = map[string]bool{
		models.IssuePropertyDamage:  true,
		models.IssueLeaseViolations: true,
		models.IssueUnfairTreatment: true,
	}
	moderateIssues = map[string]bool{
		models.IssueLatePayment:           true,
		models.IssueMaintenance:           true,
		models.IssueCommunicationProblems: true,
	}
)

// ClampImpact bounds a trust-score impact to [MinTrustImpact, MaxTrustImpact].
func ClampImpact(impact int) int {
	if impact < MinTrustImpact {
		return MinTrustImpact
	}
	if impact > MaxTrustImpact {
		return MaxTrustImpact
	}
	return impact
}

// FallbackImpact is the deterministic trust-score calculation used when the
// judgment oracle is unavailable. Base impact comes from the star rating,
// serious issue tags subtract 5 each, moderate tags subtract 2 each, and the
// total is clamped.
func FallbackImpact(rating int, issueTags []string) int {
	var impact int

	switch rating {
	case 5:
		impact = 15
	case 4:
		impact = 10
	case 3:
		impact = 0
	case 2:
		impact = -10
	case 1:
		impact = -20
	}

	for _, tag := range issueTags {
		if seriousIssues[tag] {
			impact -= 5
		} else if moderateIssues[tag] {
			impact -= 2
		}
	}

	return ClampImpact(impact)
}

// FallbackVerdict wraps FallbackImpact into a full review verdict. The local
// scorer is the platform's own policy decision, not a judgment about
// authenticity, so its verdicts are always valid.
func FallbackVerdict(rating int, issueTags []string) *ReviewVerdict {
	return &ReviewVerdict{
		IsValid:          true,
		Reason:           FallbackReason,
		TrustScoreImpact: FallbackImpact(rating, issueTags),
		Source:           models.VerdictSourceFallback,
	}
}

// ReviewInput is one valid review fed to the aggregate summarizer.
type ReviewInput struct {
	Rating     int
	ReviewText string
	IssueTags  []string
}

// NoReviewsSummary is returned for users without any valid reviews.
const NoReviewsSummary = "No reviews available for analysis"

// FallbackAggregate summarizes reviews without the oracle: issues are the
// deduplicated union of all tags, fairness follows the mean rating, and the
// summary is a templated sentence.
func FallbackAggregate(reviews []ReviewInput) *AggregateVerdict {
	if len(reviews) == 0 {
		return &AggregateVerdict{
			Summary:            NoReviewsSummary,
			IdentifiedIssues:   []string{},
			FairnessAssessment: models.FairnessNeutral,
			Source:             models.VerdictSourceFallback,
		}
	}

	var sum int
	seen := make(map[string]bool)
	issues := []string{}
	for _, r := range reviews {
		sum += r.Rating
		for _, tag := range r.IssueTags {
			if !seen[tag] {
				seen[tag] = true
				issues = append(issues, tag)
			}
		}
	}

	avg := float64(sum) / float64(len(reviews))

	fairness := models.FairnessNeutral
	if avg >= 4 {
		fairness = models.FairnessPositive
	} else if avg <= 2 {
		fairness = models.FairnessNegative
	}

	return &AggregateVerdict{
		Summary:            fmt.Sprintf("Based on %d reviews with average rating of %.1f/5", len(reviews), avg),
		IdentifiedIssues:   issues,
		FairnessAssessment: fairness,
		Source:             models.VerdictSourceFallback,
	}
}
