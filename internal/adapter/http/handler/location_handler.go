package handler

import (
	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// LocationHandler handles saved-location endpoints.
type LocationHandler struct {
	locationSvc ports.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationSvc ports.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

func locationInput(req dto.LocationRequest) ports.LocationInput {
	return ports.LocationInput{
		LocationName:    req.LocationName,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Street:          req.Street,
		BuildingFloor:   req.BuildingFloor,
		AdditionalNotes: req.AdditionalNotes,
		IsDefault:       req.IsDefault,
	}
}

// Create handles POST /api/v1/locations.
func (h *LocationHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	location, err := h.locationSvc.Create(c.Request.Context(), p, locationInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, location)
}

// Update handles PUT /api/v1/locations/:id.
func (h *LocationHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	location, err := h.locationSvc.Update(c.Request.Context(), p, id, locationInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, location)
}

// Delete handles DELETE /api/v1/locations/:id.
func (h *LocationHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.locationSvc.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": id.String()})
}

// ListMine handles GET /api/v1/locations.
func (h *LocationHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	locations, err := h.locationSvc.ListMine(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, locations)
}
