package handler

import (
	"home-services-backend/internal/adapter/http/middleware"
	"home-services-backend/internal/core/domain"
	"home-services-backend/pkg/apperror"
	"home-services-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// principal pulls the authenticated principal from the context, writing a 401
// when it is absent.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
	}
	return p, ok
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
