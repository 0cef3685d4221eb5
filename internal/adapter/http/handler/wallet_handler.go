package handler

import (
	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the authenticated wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Get handles GET /api/v1/wallet.
func (h *WalletHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.walletSvc.GetWallet(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// ListTransactions handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	transactions, err := h.walletSvc.ListTransactions(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, transactions)
}

// RequestCashIn handles POST /api/v1/requests/:id/cash-in. The assigned
// provider reports cash collected on the request; an admin approval later
// credits the requester's wallet.
func (h *WalletHandler) RequestCashIn(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.walletSvc.RequestCashIn(c.Request.Context(), p, id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}

// RequestWithdrawal handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	tx, err := h.walletSvc.RequestWithdrawal(c.Request.Context(), p, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tx)
}
