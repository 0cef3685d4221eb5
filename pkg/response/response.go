package response

import (
	"errors"
	"net/http"
	"time"

	"home-services-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the envelope every 2xx endpoint returns. Clients rely on
// request_id for support tickets, so it is always populated.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the envelope for every non-2xx outcome. ErrorCode carries
// the stable apperror code (REQ_001, WAL_001, ...) that clients branch on.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 with the data wrapped in the success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: stamp(),
	})
}

// Created sends a 201 with the data wrapped in the success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: stamp(),
	})
}

// Error maps an *apperror.AppError onto its status and code. Anything else is
// masked as SYS_000 so internals never leak to clients.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			RequestID: getRequestID(c),
			Timestamp: stamp(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		RequestID: getRequestID(c),
		Timestamp: stamp(),
	})
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// getRequestID reads the ID set by the request logger middleware, minting one
// when the handler runs outside that chain.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
