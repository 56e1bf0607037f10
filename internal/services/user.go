package services

import (
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateProfileRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	UserType  string `json:"user_type" binding:"required"`
}

// CreateProfile binds a profile to an authenticated identity-provider
// subject. One profile per subject.
func (s *UserService) CreateProfile(subjectID string, req *CreateProfileRequest) (*models.User, error) {
	if subjectID == "" {
		return nil, response.NewUnauthorized("no identity subject in session")
	}
	if !models.ValidUserType(req.UserType) {
		return nil, response.NewBadRequest("user_type must be landlord, tenant or both")
	}

	var existing models.User
	if err := s.db.Where("subject_id = ?", subjectID).First(&existing).Error; err == nil {
		return nil, response.NewConflict("profile already exists")
	}

	user := models.User{
		SubjectID: subjectID,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		UserType:  req.UserType,
		AuthType:  "oauth",
		IsActive:  true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, response.NewServerError("failed to create profile")
	}

	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}
	return &user, nil
}

func (s *UserService) GetBySubject(subjectID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("subject_id = ?", subjectID).First(&user).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}
	return &user, nil
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	UserType  *string `json:"user_type"`
}

// UpdateProfile edits the caller's own profile fields. Trust aggregates are
// owned by the review pipeline and cannot be touched here.
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, response.NewNotFound("user not found")
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.UserType != nil {
		if !models.ValidUserType(*req.UserType) {
			return nil, response.NewBadRequest("user_type must be landlord, tenant or both")
		}
		updates["user_type"] = *req.UserType
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, response.NewServerError("failed to update profile")
		}
	}

	return &user, nil
}

// Search finds active users by name, top 10 matches.
func (s *UserService) Search(query string) ([]models.PublicProfile, error) {
	if query == "" {
		return []models.PublicProfile{}, nil
	}

	var users []models.User
	err := s.db.
		Where("full_name LIKE ? AND is_active = ?", "%"+query+"%", true).
		Order("trust_score DESC").
		Limit(10).
		Find(&users).Error
	if err != nil {
		return nil, response.NewServerError("search failed")
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

type UserListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Search   string `form:"search"`
	UserType string `form:"user_type"`
	IsActive *bool  `form:"is_active"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

// List returns paginated users for the admin console.
func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if req.Search != "" {
		query = query.Where("full_name LIKE ? OR username LIKE ?", "%"+req.Search+"%", "%"+req.Search+"%")
	}
	if req.UserType != "" {
		query = query.Where("user_type = ?", req.UserType)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, response.NewServerError("failed to list users")
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

// SetActive activates or deactivates an account. Users are never deleted so
// their review edges stay intact.
func (s *UserService) SetActive(userID uint, active bool) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}
	if user.IsAdmin && !active {
		return response.NewForbidden("cannot deactivate an operator account")
	}
	return s.db.Model(&user).Update("is_active", active).Error
}
