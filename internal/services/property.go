package services

import (
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/pkg/response"
	"gorm.io/gorm"
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

type CreatePropertyRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	Description  string `json:"description"`
	PropertyType string `json:"property_type"`
}

func (s *PropertyService) Create(ownerID uint, req *CreatePropertyRequest) (*models.Property, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, response.NewBadRequest("complete your profile before listing properties")
	}
	if owner.UserType == models.RoleTenant {
		return nil, response.NewForbidden("only landlords can list properties")
	}

	property := models.Property{
		OwnerID:      ownerID,
		Name:         req.Name,
		Address:      req.Address,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		IsActive:     true,
	}
	if err := s.db.Create(&property).Error; err != nil {
		return nil, response.NewServerError("failed to create property")
	}
	return &property, nil
}

func (s *PropertyService) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.Preload("Owner").First(&property, id).Error; err != nil {
		return nil, response.NewNotFound("property not found")
	}
	return &property, nil
}

// ListByOwner returns a user's own property listings.
func (s *PropertyService) ListByOwner(ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, response.NewServerError("failed to list properties")
	}
	return properties, nil
}

type UpdatePropertyRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	Description  *string `json:"description"`
	PropertyType *string `json:"property_type"`
	IsActive     *bool   `json:"is_active"`
}

// Update edits a property. Only the owner may edit, and ownership itself is
// immutable.
func (s *PropertyService) Update(ownerID, propertyID uint, req *UpdatePropertyRequest) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return nil, response.NewNotFound("property not found")
	}
	if property.OwnerID != ownerID {
		return nil, response.NewForbidden("only the owner can edit this property")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PropertyType != nil {
		updates["property_type"] = *req.PropertyType
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&property).Updates(updates).Error; err != nil {
			return nil, response.NewServerError("failed to update property")
		}
	}

	return &property, nil
}
