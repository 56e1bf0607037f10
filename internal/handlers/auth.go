package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT, &cfg.OAuth),
	}
}

// RedirectURL returns the identity provider consent URL
// GET /api/oauth/google/redirect_url
func (h *AuthHandler) RedirectURL(c *gin.Context) {
	url, state := h.authService.RedirectURL()
	response.Success(c, gin.H{
		"url":   url,
		"state": state,
	})
}

// CreateSession exchanges an authorization code for a session token
// POST /api/sessions
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Login authenticates the local operator account
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
