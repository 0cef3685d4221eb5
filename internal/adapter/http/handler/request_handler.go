package handler

import (
	"time"

	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler handles service-request lifecycle endpoints.
type RequestHandler struct {
	requestSvc ports.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestSvc ports.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create handles POST /api/v1/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	categoryID, _ := uuid.Parse(req.ServiceCategoryID)
	locationID, _ := uuid.Parse(req.UserLocationID)

	in := ports.CreateRequestInput{
		ServiceCategoryID: categoryID,
		UserLocationID:    locationID,
		Description:       req.Description,
		PhotoURL:          req.PhotoURL,
		PaymentMethod:     domain.PaymentMethod(req.PaymentMethod),
	}
	if req.RequestedAt != nil {
		in.RequestedAt = time.Unix(*req.RequestedAt, 0).UTC()
	}

	sr, err := h.requestSvc.Create(c.Request.Context(), p, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sr)
}

// Get handles GET /api/v1/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sr, err := h.requestSvc.GetByID(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// Accept handles POST /api/v1/requests/:id/accept.
func (h *RequestHandler) Accept(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sr, err := h.requestSvc.Accept(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// Reject handles POST /api/v1/requests/:id/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sr, err := h.requestSvc.Reject(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// Cancel handles POST /api/v1/requests/:id/cancel.
func (h *RequestHandler) Cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sr, err := h.requestSvc.Cancel(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// Advance handles PATCH /api/v1/requests/:id/status.
func (h *RequestHandler) Advance(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AdvanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	sr, err := h.requestSvc.Advance(c.Request.Context(), p, id, domain.RequestStatus(req.Status), req.FinalAmount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// AcceptPayment handles POST /api/v1/requests/:id/accept-payment.
func (h *RequestHandler) AcceptPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.requestSvc.AcceptPayment(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ConfirmCash handles POST /api/v1/requests/:id/confirm-cash.
func (h *RequestHandler) ConfirmCash(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	sr, err := h.requestSvc.ConfirmCashPayment(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sr)
}

// ListMine handles GET /api/v1/requests/mine.
func (h *RequestHandler) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListMine(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ListPendingApprovals handles GET /api/v1/requests/pending-approvals.
func (h *RequestHandler) ListPendingApprovals(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListPendingApprovals(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ListOpen handles GET /api/v1/requests/open.
func (h *RequestHandler) ListOpen(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListOpen(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ListNearby handles GET /api/v1/requests/nearby.
func (h *RequestHandler) ListNearby(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListNearby(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ListActive handles GET /api/v1/requests/active.
func (h *RequestHandler) ListActive(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListActive(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}

// ListCompleted handles GET /api/v1/requests/completed.
func (h *RequestHandler) ListCompleted(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestSvc.ListCompleted(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, requests)
}
