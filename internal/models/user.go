package models

import (
	"time"
)

// User roles on the platform.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
	RoleBoth     = "both"
)

// User represents a platform member. Regular members sign in through the
// OAuth identity provider and are keyed by SubjectID; the seeded operator
// account signs in locally with username/password.
//
// TrustScore, TotalReviews and AverageRating are owned by the review
// aggregator: TotalReviews and AverageRating are always recomputed from the
// set of valid reviews targeting this user, never incremented. Users are
// never deleted.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SubjectID     string     `gorm:"uniqueIndex;size:255" json:"subject_id"`
	Username      string     `gorm:"index;size:100" json:"username,omitempty"` // local operator only
	Password      string     `gorm:"size:255" json:"-"`                        // bcrypt hash, empty for OAuth users
	FullName      string     `gorm:"size:200" json:"full_name"`
	Bio           string     `gorm:"type:text" json:"bio"`
	AvatarURL     string     `gorm:"size:500" json:"avatar_url"`
	UserType      string     `gorm:"size:20;default:tenant" json:"user_type"` // landlord, tenant, both
	TrustScore    int        `gorm:"default:0" json:"trust_score"`
	TotalReviews  int        `gorm:"default:0" json:"total_reviews"`
	AverageRating float64    `gorm:"default:0" json:"average_rating"`
	AuthType      string     `gorm:"size:20;default:oauth" json:"auth_type"` // oauth, local
	IsAdmin       bool       `gorm:"default:false" json:"is_admin"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ValidUserType reports whether t is one of the allowed role values.
func ValidUserType(t string) bool {
	return t == RoleLandlord || t == RoleTenant || t == RoleBoth
}

// PublicProfile is the subset of User returned by search and public lookups.
type PublicProfile struct {
	ID            uint    `json:"id"`
	FullName      string  `json:"full_name"`
	AvatarURL     string  `json:"avatar_url"`
	UserType      string  `json:"user_type"`
	TrustScore    int     `json:"trust_score"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Public returns the user's public profile view.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		UserType:      u.UserType,
		TrustScore:    u.TrustScore,
		AverageRating: u.AverageRating,
		TotalReviews:  u.TotalReviews,
	}
}
