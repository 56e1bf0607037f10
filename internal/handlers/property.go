package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/middleware"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(db *gorm.DB) *PropertyHandler {
	return &PropertyHandler{
		propertyService: services.NewPropertyService(db),
	}
}

// Create lists a new property for the caller
// POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.BadRequest(c, "profile not set up yet")
		return
	}

	var req services.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	property, err := h.propertyService.Create(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, property)
}

// ListMine returns the caller's property listings
// GET /api/properties
func (h *PropertyHandler) ListMine(c *gin.Context) {
	properties, err := h.propertyService.ListByOwner(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, properties)
}

// GetByID returns one property
// GET /api/properties/:id
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	property, err := h.propertyService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, property)
}

// Update edits a property owned by the caller
// PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	var req services.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	property, err := h.propertyService.Update(middleware.GetUserID(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, property)
}
