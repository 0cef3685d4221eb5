package service

import (
	"context"
	"fmt"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	requestRepo ports.RequestRepository
	txRepo      ports.WalletTransactionRepository
	userRepo    ports.UserRepository
	log         zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	requestRepo ports.RequestRepository,
	txRepo ports.WalletTransactionRepository,
	userRepo ports.UserRepository,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		requestRepo: requestRepo,
		txRepo:      txRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// GetDashboardStats aggregates marketplace activity for the admin dashboard.
func (s *ReportingServiceImpl) GetDashboardStats(ctx context.Context) (*ports.DashboardStats, error) {
	byStatus, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count requests: %w", err))
	}
	ledger, err := s.txRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("ledger stats: %w", err))
	}
	return &ports.DashboardStats{RequestsByStatus: byStatus, Ledger: ledger}, nil
}

// ListUsers returns the most recently registered users.
func (s *ReportingServiceImpl) ListUsers(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}
