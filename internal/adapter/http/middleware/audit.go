package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations on sensitive routes.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var actorID *uuid.UUID
		if uid, exists := c.Get(CtxUserID); exists {
			if id, ok := uid.(uuid.UUID); ok {
				actorID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Record(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/admin/wallet/topup" && method == "POST":
		return domain.AuditActionTopUp, "wallet"
	case path == "/api/v1/admin/wallet/adjust" && method == "POST":
		return domain.AuditActionAdjustment, "wallet"
	case strings.HasPrefix(path, "/api/v1/admin/transactions/") && strings.HasSuffix(path, "/approve") && method == "POST":
		return domain.AuditActionApproveCashIn, "transaction"
	case strings.HasPrefix(path, "/api/v1/admin/transactions/") && strings.HasSuffix(path, "/reject") && method == "POST":
		return domain.AuditActionRejectTx, "transaction"
	case strings.HasSuffix(path, "/accept-payment") && method == "POST":
		return domain.AuditActionPayment, "service_request"
	}
	return "", ""
}
