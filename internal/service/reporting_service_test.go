package service

import (
	"context"
	"testing"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReportingService(t *testing.T) (*ReportingServiceImpl, *mocks.MockRequestRepository, *mocks.MockWalletTransactionRepository, *mocks.MockUserRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	requestRepo := mocks.NewMockRequestRepository(ctrl)
	txRepo := mocks.NewMockWalletTransactionRepository(ctrl)
	userRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewReportingService(requestRepo, txRepo, userRepo, zerolog.Nop())
	return svc, requestRepo, txRepo, userRepo, ctrl
}

func TestReportingService_GetDashboardStats(t *testing.T) {
	svc, requestRepo, txRepo, _, ctrl := setupReportingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	byStatus := map[domain.RequestStatus]int64{
		domain.RequestStatusPending:   3,
		domain.RequestStatusCompleted: 7,
	}
	ledger := &ports.LedgerStats{TotalEntries: 42, TotalPayments: 900}

	requestRepo.EXPECT().CountByStatus(ctx).Return(byStatus, nil)
	txRepo.EXPECT().GetStats(ctx).Return(ledger, nil)

	stats, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, byStatus, stats.RequestsByStatus)
	assert.Equal(t, ledger, stats.Ledger)
}

func TestReportingService_ListUsers_DefaultLimit(t *testing.T) {
	svc, _, _, userRepo, ctrl := setupReportingService(t)
	defer ctrl.Finish()

	ctx := context.Background()

	userRepo.EXPECT().List(ctx, 100).Return([]domain.User{{ID: uuid.New()}}, nil)

	users, err := svc.ListUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestReportingService_ListUsers_ExplicitLimit(t *testing.T) {
	svc, _, _, userRepo, ctrl := setupReportingService(t)
	defer ctrl.Finish()

	ctx := context.Background()

	userRepo.EXPECT().List(ctx, 5).Return([]domain.User{}, nil)

	_, err := svc.ListUsers(ctx, 5)
	require.NoError(t, err)
}
