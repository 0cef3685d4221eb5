package middleware

import (
	"net/http"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Context keys
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxPrincipal = "principal"
)

// JWTAuth creates a middleware that validates JWT bearer tokens and stores the
// authenticated principal on the context.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		principal := domain.Principal{UserID: claims.UserID, Role: claims.Role}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxPrincipal, principal)
		c.Next()
	}
}

// RequireRoles restricts a route group to the given roles. Must run after
// JWTAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, apperror.ErrForbidden())
		c.Abort()
	}
}

// GetPrincipal returns the authenticated principal set by JWTAuth.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(CtxPrincipal)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := v.(domain.Principal)
	return principal, ok
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
