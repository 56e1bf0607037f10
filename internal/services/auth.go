package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/internal/utils"
	"github.com/renttrust/renttrust/pkg/logger"
	"github.com/renttrust/renttrust/pkg/response"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	oauth     *oauth2.Config
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, oauthCfg *config.OAuthConfig) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		oauth: &oauth2.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// RedirectURL returns the identity provider consent URL and the state nonce
// embedded in it.
func (s *AuthService) RedirectURL() (string, string) {
	state := uuid.NewString()
	return s.oauth.AuthCodeURL(state), state
}

type CreateSessionRequest struct {
	Code string `json:"code" binding:"required"`
}

// SessionResult is returned after an authorization-code exchange. UserID is 0
// until the member completes profile setup; the token stays usable either way
// because it carries the provider subject.
type SessionResult struct {
	Token      string       `json:"token"`
	ExpireAt   time.Time    `json:"expire_at"`
	HasProfile bool         `json:"has_profile"`
	User       *models.User `json:"user,omitempty"`
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// CreateSession exchanges an authorization code for a session token.
func (s *AuthService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionResult, error) {
	token, err := s.oauth.Exchange(ctx, req.Code)
	if err != nil {
		logger.Warnf("[Auth] Authorization code exchange failed: %v", err)
		return nil, response.NewUnauthorized("authorization code exchange failed")
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		logger.Warnf("[Auth] Identity lookup failed: %v", err)
		return nil, response.NewUnauthorized("failed to fetch identity from provider")
	}
	if info.ID == "" {
		return nil, response.NewUnauthorized("identity provider returned no subject")
	}

	var user models.User
	err = s.db.Where("subject_id = ?", info.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// Member authenticated but has no profile yet; the session token
		// carries the subject so POST /api/users can bind the profile.
		sessionToken, err := utils.GenerateToken(0, info.ID, "member", s.jwtConfig.ExpireHour)
		if err != nil {
			return nil, response.NewServerError("failed to issue session token")
		}
		return &SessionResult{
			Token:      sessionToken,
			ExpireAt:   time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
			HasProfile: false,
		}, nil
	}
	if err != nil {
		return nil, response.NewServerError("failed to look up user")
	}

	if !user.IsActive {
		return nil, response.NewForbidden("account is deactivated")
	}

	role := "member"
	if user.IsAdmin {
		role = "admin"
	}
	sessionToken, err := utils.GenerateToken(user.ID, user.SubjectID, role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, response.NewServerError("failed to issue session token")
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Model(&user).Update("last_login", now)

	return &SessionResult{
		Token:      sessionToken,
		ExpireAt:   time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		HasProfile: true,
		User:       &user,
	}, nil
}

func (s *AuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Login authenticates the local operator account.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("username = ? AND auth_type = ?", req.Username, "local").First(&user).Error
	if err != nil {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	if !user.IsActive {
		return nil, response.NewForbidden("account is deactivated")
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	role := "member"
	if user.IsAdmin {
		role = "admin"
	}
	token, err := utils.GenerateToken(user.ID, user.SubjectID, role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, response.NewServerError("failed to issue session token")
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Model(&user).Update("last_login", now)

	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		User:     &user,
	}, nil
}

// EnsureAdminAccount seeds the local operator account on first startup.
func EnsureAdminAccount(db *gorm.DB, username, password string) error {
	var count int64
	db.Model(&models.User{}).Where("username = ? AND auth_type = ?", username, "local").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		SubjectID: "local:" + username,
		Username:  username,
		Password:  hash,
		FullName:  "Administrator",
		UserType:  models.RoleBoth,
		AuthType:  "local",
		IsAdmin:   true,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Infof("[Auth] Seeded local operator account %q", username)
	return nil
}
