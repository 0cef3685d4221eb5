package handler

import (
	"strconv"

	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProviderHandler handles provider profile endpoints.
type ProviderHandler struct {
	providerSvc ports.ProviderService
	ratingSvc   ports.RatingService
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(providerSvc ports.ProviderService, ratingSvc ports.RatingService) *ProviderHandler {
	return &ProviderHandler{providerSvc: providerSvc, ratingSvc: ratingSvc}
}

// Register handles POST /api/v1/providers/register.
func (h *ProviderHandler) Register(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.ProviderRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	categoryID, _ := uuid.Parse(req.ServiceCategoryID)
	provider, err := h.providerSvc.Register(c.Request.Context(), p, ports.ProviderRegisterInput{
		ServiceCategoryID: categoryID,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		AddressLine:       req.AddressLine,
		ServiceRadiusKm:   req.ServiceRadiusKm,
		ExperienceYears:   req.ExperienceYears,
		Bio:               req.Bio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, provider)
}

// Me handles GET /api/v1/providers/me.
func (h *ProviderHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	provider, err := h.providerSvc.Me(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, provider)
}

// UpdateMe handles PATCH /api/v1/providers/me.
func (h *ProviderHandler) UpdateMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.ProviderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.ProviderUpdateInput{
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		AddressLine:     req.AddressLine,
		ServiceRadiusKm: req.ServiceRadiusKm,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
	}
	if req.ServiceCategoryID != nil {
		categoryID, _ := uuid.Parse(*req.ServiceCategoryID)
		in.ServiceCategoryID = &categoryID
	}

	provider, err := h.providerSvc.UpdateMe(c.Request.Context(), p, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, provider)
}

// List handles GET /api/v1/providers. Public directory listing.
func (h *ProviderHandler) List(c *gin.Context) {
	params := ports.ProviderListParams{}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("invalid category_id"))
			return
		}
		params.ServiceCategoryID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			response.Error(c, apperror.Validation("invalid limit"))
			return
		}
		params.Limit = limit
	}

	providers, err := h.providerSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, providers)
}

// ListRatings handles GET /api/v1/providers/:id/ratings.
func (h *ProviderHandler) ListRatings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ratings, err := h.ratingSvc.ListForProvider(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ratings)
}
