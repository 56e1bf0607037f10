package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/renttrust/renttrust/internal/services"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type OracleConfigHandler struct {
	oracleConfigService *services.OracleConfigService
}

func NewOracleConfigHandler(db *gorm.DB) *OracleConfigHandler {
	return &OracleConfigHandler{
		oracleConfigService: services.NewOracleConfigService(db),
	}
}

func (h *OracleConfigHandler) List(c *gin.Context) {
	var req services.OracleConfigListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.oracleConfigService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *OracleConfigHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	config, err := h.oracleConfigService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "config not found")
		return
	}

	response.Success(c, config)
}

func (h *OracleConfigHandler) Create(c *gin.Context) {
	var req services.CreateOracleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.oracleConfigService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, config)
}

func (h *OracleConfigHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	var req services.UpdateOracleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.oracleConfigService.Update(uint(id), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, config)
}

func (h *OracleConfigHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	if err := h.oracleConfigService.Delete(uint(id)); err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
