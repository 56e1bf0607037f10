package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/middleware"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
)

type ReviewHandler struct {
	reviewService     *services.ReviewService
	reputationService *services.ReputationService
}

func NewReviewHandler(reviewService *services.ReviewService, reputationService *services.ReputationService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:     reviewService,
		reputationService: reputationService,
	}
}

// Submit submits a review of another user
// POST /api/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.BadRequest(c, "complete your profile before submitting reviews")
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviewService.SubmitReview(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReceived returns valid reviews targeting the caller
// GET /api/reviews/received
func (h *ReviewHandler) ListReceived(c *gin.Context) {
	reviews, err := h.reviewService.ListReceived(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reviews)
}

// ListGiven returns every review the caller has written
// GET /api/reviews/given
func (h *ReviewHandler) ListGiven(c *gin.Context) {
	reviews, err := h.reviewService.ListGiven(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reviews)
}

// Analysis serves the aggregate summarizer output for a user
// GET /api/reviews/analysis/:userId
func (h *ReviewHandler) Analysis(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	analysis, err := h.reputationService.AnalyzeUser(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, analysis)
}
