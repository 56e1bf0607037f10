package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/middleware"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
	oracle      *services.OracleService
}

func NewUserHandler(db *gorm.DB, oracle *services.OracleService) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
		oracle:      oracle,
	}
}

// CreateProfile sets up the profile for the authenticated subject
// POST /api/users
func (h *UserHandler) CreateProfile(c *gin.Context) {
	var req services.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateProfile(middleware.GetSubject(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Me returns the caller's own profile
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		// Authenticated subject without a profile yet
		user, err := h.userService.GetBySubject(middleware.GetSubject(c))
		if err != nil {
			response.NotFound(c, "profile not set up yet")
			return
		}
		response.Success(c, user)
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateMe edits the caller's own profile
// PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.BadRequest(c, "profile not set up yet")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// GetPublic returns a user's public profile
// GET /api/users/:id
func (h *UserHandler) GetPublic(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user.Public())
}

// Search finds users by name
// GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	profiles, err := h.userService.Search(c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profiles)
}

type verifyAvatarRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// VerifyAvatar runs the oracle image check on a proposed avatar
// POST /api/users/verify-avatar
func (h *UserHandler) VerifyAvatar(c *gin.Context) {
	var req verifyAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	verdict := h.oracle.JudgeImage(c.Request.Context(), req.ImageURL)
	response.Success(c, verdict)
}

// List returns paginated users for the admin console
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive activates or deactivates an account
// PUT /api/admin/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.SetActive(uint(id), *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}
