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

// AdminHandler handles the admin reporting and ledger-administration endpoints.
type AdminHandler struct {
	walletSvc    ports.WalletService
	reportingSvc ports.ReportingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(walletSvc ports.WalletService, reportingSvc ports.ReportingService) *AdminHandler {
	return &AdminHandler{walletSvc: walletSvc, reportingSvc: reportingSvc}
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportingSvc.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperror.Validation("invalid limit"))
			return
		}
		limit = n
	}

	users, err := h.reportingSvc.ListUsers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	response.OK(c, out)
}

// TopUp handles POST /api/v1/admin/wallet/topup.
func (h *AdminHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	tx, err := h.walletSvc.TopUpUser(c.Request.Context(), userID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// Adjust handles POST /api/v1/admin/wallet/adjust.
func (h *AdminHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	providerID, _ := uuid.Parse(req.ProviderID)
	tx, err := h.walletSvc.AdjustProvider(c.Request.Context(), providerID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// ProviderEarning handles POST /api/v1/admin/wallet/earning.
func (h *AdminHandler) ProviderEarning(c *gin.Context) {
	var req dto.ProviderEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	providerID, _ := uuid.Parse(req.ProviderID)
	requestID, _ := uuid.Parse(req.RequestID)
	tx, err := h.walletSvc.ProviderEarning(c.Request.Context(), providerID, requestID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// ListPendingTransactions handles GET /api/v1/admin/transactions/pending.
func (h *AdminHandler) ListPendingTransactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperror.Validation("invalid limit"))
			return
		}
		limit = n
	}

	transactions, err := h.walletSvc.ListPendingTransactions(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, transactions)
}

// ApproveTransaction handles POST /api/v1/admin/transactions/:id/approve.
func (h *AdminHandler) ApproveTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tx, err := h.walletSvc.ApproveTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tx)
}

// RejectTransaction handles POST /api/v1/admin/transactions/:id/reject.
func (h *AdminHandler) RejectTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tx, err := h.walletSvc.RejectTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tx)
}

// AuditBalance handles POST /api/v1/admin/wallet/audit.
func (h *AdminHandler) AuditBalance(c *gin.Context) {
	var req dto.AuditBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if (req.UserID == nil) == (req.ProviderID == nil) {
		response.Error(c, apperror.Validation("exactly one of user_id or provider_id is required"))
		return
	}

	owner := ports.BalanceOwner{}
	if req.UserID != nil {
		id, _ := uuid.Parse(*req.UserID)
		owner.UserID = &id
	}
	if req.ProviderID != nil {
		id, _ := uuid.Parse(*req.ProviderID)
		owner.ProviderID = &id
	}

	audit, err := h.walletSvc.AuditBalance(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, audit)
}
