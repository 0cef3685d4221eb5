package handler

import (
	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RatingHandler handles rating endpoints.
type RatingHandler struct {
	ratingSvc ports.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingSvc ports.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

// Rate handles POST /api/v1/ratings.
func (h *RatingHandler) Rate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	requestID, _ := uuid.Parse(req.ServiceRequestID)
	rating, err := h.ratingSvc.Rate(c.Request.Context(), p, ports.RateInput{
		ServiceRequestID: requestID,
		Score:            req.Score,
		Comment:          req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rating)
}
