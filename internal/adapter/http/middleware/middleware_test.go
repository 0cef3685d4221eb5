package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	tokenSvc.EXPECT().Validate("bad_token").Return(nil, assert.AnError)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	userID := uuid.New()
	tokenSvc.EXPECT().Validate("good_token").Return(&ports.TokenClaims{
		UserID: userID,
		Role:   domain.RoleProvider,
	}, nil)

	var captured domain.Principal
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		captured, _ = GetPrincipal(c)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, domain.RoleProvider, captured.Role)
}

func TestRequireRoles_Allowed(t *testing.T) {
	router := gin.New()
	router.GET("/admin",
		func(c *gin.Context) {
			c.Set(CtxPrincipal, domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin})
		},
		RequireRoles(domain.RoleAdmin, domain.RoleManager),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_Forbidden(t *testing.T) {
	router := gin.New()
	router.GET("/admin",
		func(c *gin.Context) {
			c.Set(CtxPrincipal, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
		},
		RequireRoles(domain.RoleAdmin, domain.RoleManager),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoles_NoPrincipal(t *testing.T) {
	router := gin.New()
	router.GET("/admin",
		RequireRoles(domain.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}
