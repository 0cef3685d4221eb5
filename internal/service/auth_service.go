package service

import (
	"context"
	"fmt"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	auditSvc ports.AuditService
	log      zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		auditSvc: auditSvc,
		log:      log,
	}
}

// Register creates a new USER account with a zero wallet balance.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check identifiers: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailOrPhoneExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.auditSvc.Record(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &user.ID,
		Action:       domain.AuditActionRegister,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		CreatedAt:    now,
	})

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login validates credentials against email or phone and issues a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByEmailOrPhone(ctx, identifier, identifier)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.auditSvc.Record(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &user.ID,
		Action:       domain.AuditActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		CreatedAt:    time.Now().UTC(),
	})

	return &ports.LoginResult{Token: token, ExpiresAt: expiry, User: user}, nil
}
