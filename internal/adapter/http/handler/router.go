package handler

import (
	"home-services-backend/internal/adapter/http/middleware"
	redisStore "home-services-backend/internal/adapter/storage/redis"
	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	RequestSvc     ports.RequestService
	WalletSvc      ports.WalletService
	ProviderSvc    ports.ProviderService
	CategorySvc    ports.CategoryService
	LocationSvc    ports.LocationService
	RatingSvc      ports.RatingService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	categoryHandler := NewCategoryHandler(deps.CategorySvc)
	providerHandler := NewProviderHandler(deps.ProviderSvc, deps.RatingSvc)

	v1.GET("/categories", rl("read"), categoryHandler.ListActive)
	v1.GET("/providers", rl("read"), providerHandler.List)
	v1.GET("/providers/:id/ratings", rl("read"), providerHandler.ListRatings)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	requestHandler := NewRequestHandler(deps.RequestSvc)
	requests := v1.Group("/requests", jwtAuth)
	{
		requests.POST("", rl("requests"), requestHandler.Create)
		requests.GET("/mine", rl("read"), requestHandler.ListMine)
		requests.GET("/pending-approvals", rl("read"), requestHandler.ListPendingApprovals)
		requests.GET("/open", rl("read"), requestHandler.ListOpen)
		requests.GET("/nearby", rl("read"), requestHandler.ListNearby)
		requests.GET("/active", rl("read"), requestHandler.ListActive)
		requests.GET("/completed", rl("read"), requestHandler.ListCompleted)
		requests.GET("/:id", rl("read"), requestHandler.Get)
		requests.POST("/:id/accept", rl("requests"), requestHandler.Accept)
		requests.POST("/:id/reject", rl("requests"), requestHandler.Reject)
		requests.POST("/:id/cancel", rl("requests"), requestHandler.Cancel)
		requests.PATCH("/:id/status", rl("requests"), requestHandler.Advance)
		requests.POST("/:id/accept-payment", rl("wallet"), requestHandler.AcceptPayment)
		requests.POST("/:id/confirm-cash", rl("requests"), requestHandler.ConfirmCash)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	requests.POST("/:id/cash-in", rl("wallet"), walletHandler.RequestCashIn)

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("", rl("read"), walletHandler.Get)
		wallet.GET("/transactions", rl("read"), walletHandler.ListTransactions)
		wallet.POST("/withdraw", rl("wallet"), walletHandler.RequestWithdrawal)
	}

	locationHandler := NewLocationHandler(deps.LocationSvc)
	locations := v1.Group("/locations", jwtAuth)
	{
		locations.GET("", rl("read"), locationHandler.ListMine)
		locations.POST("", rl("requests"), locationHandler.Create)
		locations.PUT("/:id", rl("requests"), locationHandler.Update)
		locations.DELETE("/:id", rl("requests"), locationHandler.Delete)
	}

	providers := v1.Group("/providers", jwtAuth)
	{
		providers.POST("/register", rl("requests"), providerHandler.Register)
		providers.GET("/me", rl("read"), providerHandler.Me)
		providers.PATCH("/me", rl("requests"), providerHandler.UpdateMe)
	}

	ratingHandler := NewRatingHandler(deps.RatingSvc)
	v1.POST("/ratings", jwtAuth, rl("requests"), ratingHandler.Rate)

	// --- Admin routes ---
	adminHandler := NewAdminHandler(deps.WalletSvc, deps.ReportingSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
	{
		admin.GET("/dashboard", rl("admin"), adminHandler.Dashboard)
		admin.GET("/users", rl("admin"), adminHandler.ListUsers)
		admin.GET("/categories", rl("admin"), categoryHandler.ListAll)
		admin.POST("/categories", rl("admin"), categoryHandler.Create)
		admin.PUT("/categories/:id", rl("admin"), categoryHandler.Update)
		admin.PATCH("/categories/:id/active", rl("admin"), categoryHandler.SetActive)
		admin.GET("/transactions/pending", rl("admin"), adminHandler.ListPendingTransactions)
		admin.POST("/transactions/:id/approve", rl("admin"), adminHandler.ApproveTransaction)
		admin.POST("/transactions/:id/reject", rl("admin"), adminHandler.RejectTransaction)
		admin.POST("/wallet/topup", rl("admin"), adminHandler.TopUp)
		admin.POST("/wallet/adjust", rl("admin"), adminHandler.Adjust)
		admin.POST("/wallet/earning", rl("admin"), adminHandler.ProviderEarning)
		admin.POST("/wallet/audit", rl("admin"), adminHandler.AuditBalance)
	}

	return r
}
