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

type ratingTestDeps struct {
	svc          *RatingServiceImpl
	ratingRepo   *mocks.MockRatingRepository
	requestRepo  *mocks.MockRequestRepository
	providerRepo *mocks.MockProviderRepository
	ctrl         *gomock.Controller
}

func setupRatingService(t *testing.T) *ratingTestDeps {
	ctrl := gomock.NewController(t)
	d := &ratingTestDeps{
		ratingRepo:   mocks.NewMockRatingRepository(ctrl),
		requestRepo:  mocks.NewMockRequestRepository(ctrl),
		providerRepo: mocks.NewMockProviderRepository(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewRatingService(d.ratingRepo, d.requestRepo, d.providerRepo, zerolog.Nop())
	return d
}

func TestRatingService_Rate_Success(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	providerID := uuid.New()
	requestID := uuid.New()

	d.requestRepo.EXPECT().GetByIDAndRequester(ctx, requestID, userID).Return(&domain.ServiceRequest{
		ID:         requestID,
		UserID:     userID,
		ProviderID: &providerID,
		Status:     domain.RequestStatusCompleted,
	}, nil)
	d.ratingRepo.EXPECT().ExistsForRequest(ctx, requestID, userID).Return(false, nil)
	d.ratingRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.Rating) error {
			assert.Equal(t, providerID, r.ProviderID)
			assert.Equal(t, 4, r.Score)
			return nil
		})
	d.ratingRepo.EXPECT().AggregateForProvider(ctx, providerID).Return(4.5, int64(2), nil)
	d.providerRepo.EXPECT().UpdateAverageRating(ctx, providerID, 4.5).Return(nil)

	rating, err := d.svc.Rate(ctx, userPrincipal(userID), ports.RateInput{
		ServiceRequestID: requestID,
		Score:            4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Score)
}

func TestRatingService_Rate_ScoreOutOfRange(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	rating, err := d.svc.Rate(context.Background(), userPrincipal(uuid.New()), ports.RateInput{
		ServiceRequestID: uuid.New(),
		Score:            6,
	})
	assert.Nil(t, rating)
	assertAppError(t, err, "VAL_001")
}

func TestRatingService_Rate_NotCompleted(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	providerID := uuid.New()
	requestID := uuid.New()

	d.requestRepo.EXPECT().GetByIDAndRequester(ctx, requestID, userID).Return(&domain.ServiceRequest{
		ID:         requestID,
		UserID:     userID,
		ProviderID: &providerID,
		Status:     domain.RequestStatusInProgress,
	}, nil)

	rating, err := d.svc.Rate(ctx, userPrincipal(userID), ports.RateInput{
		ServiceRequestID: requestID,
		Score:            5,
	})
	assert.Nil(t, rating)
	assertAppError(t, err, "REQ_006")
}

func TestRatingService_Rate_AlreadyRated(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	providerID := uuid.New()
	requestID := uuid.New()

	d.requestRepo.EXPECT().GetByIDAndRequester(ctx, requestID, userID).Return(&domain.ServiceRequest{
		ID:         requestID,
		UserID:     userID,
		ProviderID: &providerID,
		Status:     domain.RequestStatusCompleted,
	}, nil)
	d.ratingRepo.EXPECT().ExistsForRequest(ctx, requestID, userID).Return(true, nil)

	rating, err := d.svc.Rate(ctx, userPrincipal(userID), ports.RateInput{
		ServiceRequestID: requestID,
		Score:            5,
	})
	assert.Nil(t, rating)
	assertAppError(t, err, "CON_001")
}

func TestRatingService_Rate_AggregateFailureStillReturnsRating(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	providerID := uuid.New()
	requestID := uuid.New()

	d.requestRepo.EXPECT().GetByIDAndRequester(ctx, requestID, userID).Return(&domain.ServiceRequest{
		ID:         requestID,
		UserID:     userID,
		ProviderID: &providerID,
		Status:     domain.RequestStatusCompleted,
	}, nil)
	d.ratingRepo.EXPECT().ExistsForRequest(ctx, requestID, userID).Return(false, nil)
	d.ratingRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.ratingRepo.EXPECT().AggregateForProvider(ctx, providerID).Return(0.0, int64(0), assert.AnError)

	rating, err := d.svc.Rate(ctx, userPrincipal(userID), ports.RateInput{
		ServiceRequestID: requestID,
		Score:            3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rating.Score)
}

func TestRatingService_Rate_RequestNotFound(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	requestID := uuid.New()

	d.requestRepo.EXPECT().GetByIDAndRequester(ctx, requestID, userID).Return(nil, nil)

	rating, err := d.svc.Rate(ctx, userPrincipal(userID), ports.RateInput{
		ServiceRequestID: requestID,
		Score:            5,
	})
	assert.Nil(t, rating)
	assertAppError(t, err, "REQ_001")
}

func TestRatingService_ListForProvider_UnknownProvider(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.providerRepo.EXPECT().GetByID(ctx, providerID).Return(nil, nil)

	ratings, err := d.svc.ListForProvider(ctx, providerID)
	assert.Nil(t, ratings)
	assertAppError(t, err, "REQ_001")
}

func TestRatingService_ListForProvider_Success(t *testing.T) {
	d := setupRatingService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.providerRepo.EXPECT().GetByID(ctx, providerID).Return(&domain.ServiceProvider{ID: providerID}, nil)
	d.ratingRepo.EXPECT().ListByProvider(ctx, providerID).Return([]domain.Rating{
		{ID: uuid.New(), Score: 5},
	}, nil)

	ratings, err := d.svc.ListForProvider(ctx, providerID)
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
}
