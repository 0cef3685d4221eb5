package handler

import (
	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// CategoryHandler handles service-category endpoints.
type CategoryHandler struct {
	categorySvc ports.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categorySvc ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// ListActive handles GET /api/v1/categories. Public catalog.
func (h *CategoryHandler) ListActive(c *gin.Context) {
	categories, err := h.categorySvc.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// ListAll handles GET /api/v1/admin/categories.
func (h *CategoryHandler) ListAll(c *gin.Context) {
	categories, err := h.categorySvc.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// Create handles POST /api/v1/admin/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	category, err := h.categorySvc.Create(c.Request.Context(), ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Icon:        req.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update handles PUT /api/v1/admin/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	category, err := h.categorySvc.Update(c.Request.Context(), id, ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Icon:        req.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, category)
}

// SetActive handles PATCH /api/v1/admin/categories/:id/active.
func (h *CategoryHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.categorySvc.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id.String(), "is_active": *req.IsActive})
}
