package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"home-services-backend/config"
	httpHandler "home-services-backend/internal/adapter/http/handler"
	pgStorage "home-services-backend/internal/adapter/storage/postgres"
	redisStorage "home-services-backend/internal/adapter/storage/redis"
	"home-services-backend/internal/core/ports"
	"home-services-backend/internal/service"
	"home-services-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Home Services Backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	providerRepo := pgStorage.NewProviderRepo(pool)
	categoryRepo := pgStorage.NewCategoryRepo(pool)
	locationRepo := pgStorage.NewLocationRepo(pool)
	requestRepo := pgStorage.NewRequestRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	ratingRepo := pgStorage.NewRatingRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	categoryCache := redisStorage.NewCategoryCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, auditSvc, log)
	walletSvc := service.NewWalletService(userRepo, providerRepo, txRepo, requestRepo, transactor, log)
	requestSvc := service.NewRequestService(
		requestRepo,
		userRepo,
		providerRepo,
		categoryRepo,
		locationRepo,
		txRepo,
		ratingRepo,
		walletSvc,
		transactor,
		log,
	)
	providerSvc := service.NewProviderService(providerRepo, userRepo, categoryRepo, log)
	categorySvc := service.NewCategoryService(categoryRepo, categoryCache, log)
	locationSvc := service.NewLocationService(locationRepo, log)
	ratingSvc := service.NewRatingService(ratingRepo, requestRepo, providerRepo, log)
	reportingSvc := service.NewReportingService(requestRepo, txRepo, userRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		RequestSvc:     requestSvc,
		WalletSvc:      walletSvc,
		ProviderSvc:    providerSvc,
		CategorySvc:    categorySvc,
		LocationSvc:    locationSvc,
		RatingSvc:      ratingSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
