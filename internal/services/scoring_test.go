package services

import (
	"strings"
	"testing"

	"github.com/renttrust/renttrust/internal/models"
)

func TestFallbackImpact_RatingTable(t *testing.T) {
	tests := []struct {
		rating int
		want   int
	}{
		{5, 15},
		{4, 10},
		{3, 0},
		{2, -10},
		{1, -20},
	}

	for _, tt := range tests {
		got := FallbackImpact(tt.rating, nil)
		if got != tt.want {
			t.Errorf("FallbackImpact(%d, nil) = %d, want %d", tt.rating, got, tt.want)
		}
	}
}

func TestFallbackImpact_TagPenalties(t *testing.T) {
	tests := []struct {
		name   string
		rating int
		tags   []string
		want   int
	}{
		{
			name:   "serious tag subtracts 5",
			rating: 3,
			tags:   []string{models.IssuePropertyDamage},
			want:   -5,
		},
		{
			name:   "moderate tag subtracts 2",
			rating: 4,
			tags:   []string{models.IssueLatePayment},
			want:   8,
		},
		{
			name:   "neutral tags carry no penalty",
			rating: 5,
			tags:   []string{models.IssueCleanliness, models.IssueNoiseComplaints, models.IssueOther},
			want:   15,
		},
		{
			name:   "mixed tags stack",
			rating: 2,
			tags:   []string{models.IssueLeaseViolations, models.IssueCommunicationProblems},
			want:   -17,
		},
		{
			name:   "clamped at lower bound",
			rating: 1,
			tags:   []string{models.IssuePropertyDamage, models.IssueUnfairTreatment},
			want:   -20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackImpact(tt.rating, tt.tags)
			if got != tt.want {
				t.Errorf("FallbackImpact(%d, %v) = %d, want %d", tt.rating, tt.tags, got, tt.want)
			}
		})
	}
}

func TestClampImpact(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-100, -20},
		{-21, -20},
		{-20, -20},
		{0, 0},
		{20, 20},
		{21, 20},
		{100, 20},
	}

	for _, tt := range tests {
		if got := ClampImpact(tt.in); got != tt.want {
			t.Errorf("ClampImpact(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFallbackVerdict_AlwaysValid(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		v := FallbackVerdict(rating, []string{models.IssuePropertyDamage})
		if !v.IsValid {
			t.Errorf("fallback verdict for rating %d should be valid", rating)
		}
		if v.Reason == "" {
			t.Errorf("fallback verdict for rating %d has empty reason", rating)
		}
		if v.Source != models.VerdictSourceFallback {
			t.Errorf("fallback verdict source = %q, want %q", v.Source, models.VerdictSourceFallback)
		}
		if v.TrustScoreImpact < MinTrustImpact || v.TrustScoreImpact > MaxTrustImpact {
			t.Errorf("fallback impact %d out of bounds", v.TrustScoreImpact)
		}
	}
}

func TestFallbackAggregate_ZeroReviews(t *testing.T) {
	v := FallbackAggregate(nil)

	if v.Summary != NoReviewsSummary {
		t.Errorf("summary = %q, want %q", v.Summary, NoReviewsSummary)
	}
	if len(v.IdentifiedIssues) != 0 {
		t.Errorf("expected no issues, got %v", v.IdentifiedIssues)
	}
	if v.FairnessAssessment != models.FairnessNeutral {
		t.Errorf("fairness = %q, want neutral", v.FairnessAssessment)
	}
}

func TestFallbackAggregate_Fairness(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    string
	}{
		{"high mean is positive", []int{4, 5, 4}, models.FairnessPositive},
		{"exactly 4 is positive", []int{4, 4}, models.FairnessPositive},
		{"low mean is negative", []int{1, 2, 2}, models.FairnessNegative},
		{"exactly 2 is negative", []int{2, 2}, models.FairnessNegative},
		{"middle is neutral", []int{3, 3, 4}, models.FairnessNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reviews []ReviewInput
			for _, r := range tt.ratings {
				reviews = append(reviews, ReviewInput{Rating: r, ReviewText: "some review text here"})
			}

			v := FallbackAggregate(reviews)
			if v.FairnessAssessment != tt.want {
				t.Errorf("fairness = %q, want %q", v.FairnessAssessment, tt.want)
			}
		})
	}
}

func TestFallbackAggregate_SummaryAndIssueUnion(t *testing.T) {
	reviews := []ReviewInput{
		{Rating: 4, IssueTags: []string{models.IssueLatePayment, models.IssueOther}},
		{Rating: 5, IssueTags: []string{models.IssueLatePayment}},
		{Rating: 3, IssueTags: []string{models.IssueMaintenance}},
	}

	v := FallbackAggregate(reviews)

	if !strings.Contains(v.Summary, "3 reviews") {
		t.Errorf("summary should mention review count, got %q", v.Summary)
	}
	if !strings.Contains(v.Summary, "4.0/5") {
		t.Errorf("summary should mention mean rating, got %q", v.Summary)
	}

	want := []string{models.IssueLatePayment, models.IssueOther, models.IssueMaintenance}
	if len(v.IdentifiedIssues) != len(want) {
		t.Fatalf("issues = %v, want %v", v.IdentifiedIssues, want)
	}
	for i := range want {
		if v.IdentifiedIssues[i] != want[i] {
			t.Errorf("issues[%d] = %q, want %q", i, v.IdentifiedIssues[i], want[i])
		}
	}
}
