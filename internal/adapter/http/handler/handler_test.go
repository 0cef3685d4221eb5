package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"home-services-backend/internal/adapter/http/dto"
	"home-services-backend/internal/adapter/http/middleware"
	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/internal/core/ports/mocks"
	"home-services-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a gin context carrying a JSON body.
func newTestContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func setPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(middleware.CtxPrincipal, p)
	c.Set(middleware.CtxUserID, p.UserID)
	c.Set(middleware.CtxRole, p.Role)
}

func setPathID(c *gin.Context, id uuid.UUID) {
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// ==================== AuthHandler Tests ====================

func TestAuthHandler_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(authSvc)

	userID := uuid.New()
	authSvc.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Name:     "Ana Tran",
		Email:    "ana@example.com",
		Phone:    "+84901234567",
		Password: "correct horse",
	}).Return(&domain.User{
		ID:    userID,
		Name:  "Ana Tran",
		Email: "ana@example.com",
		Phone: "+84901234567",
		Role:  domain.RoleUser,
	}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Ana Tran",
		Email:    "ana@example.com",
		Phone:    "+84901234567",
		Password: "correct horse",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "Ana Tran", data["name"])
	assert.Equal(t, "USER", data["role"])
	assert.Equal(t, float64(0), data["wallet_balance"])
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(authSvc)

	// Missing password.
	c, w := newTestContext(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":  "Ana Tran",
		"email": "ana@example.com",
		"phone": "+84901234567",
	})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestAuthHandler_Register_DuplicateIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(authSvc)

	authSvc.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrEmailOrPhoneExists())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Ana Tran",
		Email:    "ana@example.com",
		Phone:    "+84901234567",
		Password: "correct horse",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_002", decodeError(t, w))
}

func TestAuthHandler_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(authSvc)

	expiry := time.Now().Add(24 * time.Hour)
	authSvc.EXPECT().Login(gomock.Any(), "ana@example.com", "correct horse").
		Return(&ports.LoginResult{
			Token:     "signed.jwt.token",
			ExpiresAt: expiry,
			User:      &domain.User{ID: uuid.New(), Name: "Ana Tran", Role: domain.RoleUser},
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Identifier: "ana@example.com",
		Password:   "correct horse",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "signed.jwt.token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(authSvc)

	authSvc.EXPECT().Login(gomock.Any(), "ana@example.com", "wrong").
		Return(nil, apperror.ErrInvalidCredentials())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Identifier: "ana@example.com",
		Password:   "wrong",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", decodeError(t, w))
}

// ==================== RequestHandler Tests ====================

func TestRequestHandler_Create_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	userID := uuid.New()
	categoryID := uuid.New()
	locationID := uuid.New()
	requestID := uuid.New()

	requestSvc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, p domain.Principal, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, categoryID, in.ServiceCategoryID)
			assert.Equal(t, locationID, in.UserLocationID)
			assert.Equal(t, domain.PaymentMethodWallet, in.PaymentMethod)
			return &domain.ServiceRequest{
				ID:            requestID,
				UserID:        userID,
				Status:        domain.RequestStatusPending,
				PaymentMethod: domain.PaymentMethodWallet,
				PaymentStatus: domain.PaymentStatusHold,
			}, nil
		})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests", dto.CreateRequestRequest{
		ServiceCategoryID: categoryID.String(),
		UserLocationID:    locationID.String(),
		Description:       "leaking kitchen sink",
		PaymentMethod:     "WALLET",
	})
	setPrincipal(c, domain.Principal{UserID: userID, Role: domain.RoleUser})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, requestID.String(), data["id"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "HOLD", data["payment_status"])
}

func TestRequestHandler_Create_NoPrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests", dto.CreateRequestRequest{
		ServiceCategoryID: uuid.New().String(),
		UserLocationID:    uuid.New().String(),
		Description:       "leaking kitchen sink",
		PaymentMethod:     "WALLET",
	})
	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_003", decodeError(t, w))
}

func TestRequestHandler_Create_BadCategoryUUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests", map[string]interface{}{
		"service_category_id": "not-a-uuid",
		"user_location_id":    uuid.New().String(),
		"description":         "leaking kitchen sink",
		"payment_method":      "WALLET",
	})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestRequestHandler_Accept_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	providerID := uuid.New()
	requestID := uuid.New()
	p := domain.Principal{UserID: providerID, Role: domain.RoleProvider}

	requestSvc.EXPECT().Accept(gomock.Any(), p, requestID).
		Return(&domain.ServiceRequest{
			ID:         requestID,
			ProviderID: &providerID,
			Status:     domain.RequestStatusAccepted,
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/accept", nil)
	setPrincipal(c, p)
	setPathID(c, requestID)
	h.Accept(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "ACCEPTED", data["status"])
	assert.Equal(t, providerID.String(), data["provider_id"])
}

func TestRequestHandler_Accept_AlreadyClaimed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	requestID := uuid.New()
	requestSvc.EXPECT().Accept(gomock.Any(), gomock.Any(), requestID).
		Return(nil, apperror.ErrAlreadyClaimed())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/accept", nil)
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	setPathID(c, requestID)
	h.Accept(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REQ_002", decodeError(t, w))
}

func TestRequestHandler_Accept_BadPathID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/abc/accept", nil)
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Accept(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestRequestHandler_Advance_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	providerID := uuid.New()
	requestID := uuid.New()
	p := domain.Principal{UserID: providerID, Role: domain.RoleProvider}
	finalAmount := int64(90)

	requestSvc.EXPECT().Advance(gomock.Any(), p, requestID, domain.RequestStatusCompleted, &finalAmount).
		Return(&domain.ServiceRequest{
			ID:            requestID,
			Status:        domain.RequestStatusCompleted,
			FinalAmount:   &finalAmount,
			PaymentStatus: domain.PaymentStatusPendingUserConfirmation,
		}, nil)

	c, w := newTestContext(t, http.MethodPatch, "/api/v1/requests/"+requestID.String()+"/status", dto.AdvanceRequestRequest{
		Status:      "COMPLETED",
		FinalAmount: &finalAmount,
	})
	setPrincipal(c, p)
	setPathID(c, requestID)
	h.Advance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "COMPLETED", data["status"])
	assert.Equal(t, float64(90), data["final_amount"])
}

func TestRequestHandler_Advance_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	requestID := uuid.New()
	c, w := newTestContext(t, http.MethodPatch, "/api/v1/requests/"+requestID.String()+"/status", map[string]string{
		"status": "CANCELED",
	})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	setPathID(c, requestID)
	h.Advance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestRequestHandler_AcceptPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	userID := uuid.New()
	requestID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleUser}

	requestSvc.EXPECT().AcceptPayment(gomock.Any(), p, requestID).
		Return(&ports.PaymentResult{
			Request: &domain.ServiceRequest{
				ID:            requestID,
				PaymentStatus: domain.PaymentStatusPaid,
			},
			PaidAmount: 90,
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/accept-payment", nil)
	setPrincipal(c, p)
	setPathID(c, requestID)
	h.AcceptPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(90), data["paid_amount"])
}

func TestRequestHandler_AcceptPayment_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	requestID := uuid.New()
	requestSvc.EXPECT().AcceptPayment(gomock.Any(), gomock.Any(), requestID).
		Return(nil, apperror.ErrInsufficientFunds())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/accept-payment", nil)
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
	setPathID(c, requestID)
	h.AcceptPayment(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "WAL_001", decodeError(t, w))
}

func TestRequestHandler_ConfirmCash_AlreadyPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	requestID := uuid.New()
	requestSvc.EXPECT().ConfirmCashPayment(gomock.Any(), gomock.Any(), requestID).
		Return(nil, apperror.ErrAlreadyPaid())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/confirm-cash", nil)
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
	setPathID(c, requestID)
	h.ConfirmCash(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REQ_005", decodeError(t, w))
}

func TestRequestHandler_ListMine_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requestSvc := mocks.NewMockRequestService(ctrl)
	h := NewRequestHandler(requestSvc)

	userID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleUser}
	requestSvc.EXPECT().ListMine(gomock.Any(), p).
		Return([]ports.RequestWithRating{
			{ServiceRequest: domain.ServiceRequest{ID: uuid.New(), UserID: userID}, Rated: true},
			{ServiceRequest: domain.ServiceRequest{ID: uuid.New(), UserID: userID}},
		}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/requests/mine", nil)
	setPrincipal(c, p)
	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, true, first["rated"])
}

// ==================== WalletHandler Tests ====================

func TestWalletHandler_Get_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(walletSvc)

	userID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleProvider}
	providerBalance := int64(320)

	walletSvc.EXPECT().GetWallet(gomock.Any(), p).
		Return(&ports.WalletSummary{Balance: 150, ProviderBalance: &providerBalance}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/wallet", nil)
	setPrincipal(c, p)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(150), data["balance"])
	assert.Equal(t, float64(320), data["provider_balance"])
}

func TestWalletHandler_RequestCashIn_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(walletSvc)

	userID := uuid.New()
	requestID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleProvider}
	txID := uuid.New()

	walletSvc.EXPECT().RequestCashIn(gomock.Any(), p, requestID, int64(500)).
		Return(&domain.WalletTransaction{
			ID:     txID,
			Type:   domain.TransactionTypeCashInRequest,
			Status: domain.TransactionStatusPending,
			Amount: 500,
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/cash-in", dto.AmountRequest{Amount: 500})
	setPrincipal(c, p)
	setPathID(c, requestID)
	h.RequestCashIn(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, txID.String(), data["id"])
	assert.Equal(t, "PENDING", data["status"])
}

func TestWalletHandler_RequestCashIn_NonPositiveAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(walletSvc)

	requestID := uuid.New()
	c, w := newTestContext(t, http.MethodPost, "/api/v1/requests/"+requestID.String()+"/cash-in", map[string]int64{"amount": -5})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	setPathID(c, requestID)
	h.RequestCashIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestWalletHandler_RequestWithdrawal_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(walletSvc)

	walletSvc.EXPECT().RequestWithdrawal(gomock.Any(), gomock.Any(), int64(10000)).
		Return(nil, apperror.ErrInsufficientFunds())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/wallet/withdraw", dto.AmountRequest{Amount: 10000})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	h.RequestWithdrawal(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "WAL_001", decodeError(t, w))
}

// ==================== AdminHandler Tests ====================

func TestAdminHandler_TopUp_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	userID := uuid.New()
	walletSvc.EXPECT().TopUpUser(gomock.Any(), userID, int64(1000)).
		Return(&domain.WalletTransaction{
			ID:     uuid.New(),
			Type:   domain.TransactionTypeAdminTopUp,
			Status: domain.TransactionStatusApproved,
			Amount: 1000,
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/wallet/topup", dto.TopUpRequest{
		UserID: userID.String(),
		Amount: 1000,
	})
	h.TopUp(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "ADMIN_TOP_UP", data["type"])
	assert.Equal(t, "APPROVED", data["status"])
}

func TestAdminHandler_ProviderEarning_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	providerID := uuid.New()
	requestID := uuid.New()
	walletSvc.EXPECT().ProviderEarning(gomock.Any(), providerID, requestID, int64(400)).
		Return(&domain.WalletTransaction{
			ID:               uuid.New(),
			ProviderID:       &providerID,
			Type:             domain.TransactionTypeProviderEarning,
			Status:           domain.TransactionStatusApproved,
			Amount:           400,
			RelatedRequestID: &requestID,
		}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/wallet/earning", dto.ProviderEarningRequest{
		ProviderID: providerID.String(),
		RequestID:  requestID.String(),
		Amount:     400,
	})
	h.ProviderEarning(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "PROVIDER_EARNING", data["type"])
	assert.Equal(t, "APPROVED", data["status"])
}

func TestAdminHandler_ApproveTransaction_NotPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	txID := uuid.New()
	walletSvc.EXPECT().ApproveTransaction(gomock.Any(), txID).
		Return(nil, apperror.ErrInvalidTransaction())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/transactions/"+txID.String()+"/approve", nil)
	setPathID(c, txID)
	h.ApproveTransaction(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WAL_002", decodeError(t, w))
}

func TestAdminHandler_AuditBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	userID := uuid.New()
	walletSvc.EXPECT().AuditBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, owner ports.BalanceOwner) (*ports.BalanceAudit, error) {
			require.NotNil(t, owner.UserID)
			assert.Equal(t, userID, *owner.UserID)
			assert.Nil(t, owner.ProviderID)
			return &ports.BalanceAudit{
				Owner:         owner,
				CachedBalance: 150,
				LedgerBalance: 150,
				Consistent:    true,
			}, nil
		})

	uid := userID.String()
	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/wallet/audit", dto.AuditBalanceRequest{UserID: &uid})
	h.AuditBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["consistent"])
}

func TestAdminHandler_AuditBalance_RequiresExactlyOneOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	uid := uuid.New().String()
	pid := uuid.New().String()

	// Both set.
	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/wallet/audit", dto.AuditBalanceRequest{
		UserID:     &uid,
		ProviderID: &pid,
	})
	h.AuditBalance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))

	// Neither set.
	c, w = newTestContext(t, http.MethodPost, "/api/v1/admin/wallet/audit", dto.AuditBalanceRequest{})
	h.AuditBalance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestAdminHandler_ListUsers_InvalidLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/admin/users?limit=zero", nil)
	h.ListUsers(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

func TestAdminHandler_Dashboard_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	walletSvc := mocks.NewMockWalletService(ctrl)
	reportingSvc := mocks.NewMockReportingService(ctrl)
	h := NewAdminHandler(walletSvc, reportingSvc)

	reportingSvc.EXPECT().GetDashboardStats(gomock.Any()).
		Return(&ports.DashboardStats{
			RequestsByStatus: map[domain.RequestStatus]int64{
				domain.RequestStatusPending:   3,
				domain.RequestStatusCompleted: 7,
			},
		}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/admin/dashboard", nil)
	h.Dashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ==================== CategoryHandler Tests ====================

func TestCategoryHandler_Create_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	categorySvc := mocks.NewMockCategoryService(ctrl)
	h := NewCategoryHandler(categorySvc)

	categorySvc.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, in ports.CategoryInput) (*domain.ServiceCategory, error) {
			assert.Equal(t, "Plumbing", in.Name)
			assert.Equal(t, int64(150), in.BasePrice)
			return &domain.ServiceCategory{
				ID:        uuid.New(),
				Name:      in.Name,
				BasePrice: in.BasePrice,
				IsActive:  true,
			}, nil
		})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/categories", dto.CategoryRequest{
		Name:      "Plumbing",
		BasePrice: 150,
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Plumbing", data["name"])
	assert.Equal(t, true, data["is_active"])
}

func TestCategoryHandler_SetActive_MissingFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	categorySvc := mocks.NewMockCategoryService(ctrl)
	h := NewCategoryHandler(categorySvc)

	id := uuid.New()
	c, w := newTestContext(t, http.MethodPatch, "/api/v1/admin/categories/"+id.String()+"/active", map[string]string{})
	setPathID(c, id)
	h.SetActive(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

// ==================== RatingHandler Tests ====================

func TestRatingHandler_Rate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ratingSvc := mocks.NewMockRatingService(ctrl)
	h := NewRatingHandler(ratingSvc)

	userID := uuid.New()
	requestID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleUser}

	ratingSvc.EXPECT().Rate(gomock.Any(), p, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ domain.Principal, in ports.RateInput) (*domain.Rating, error) {
			assert.Equal(t, requestID, in.ServiceRequestID)
			assert.Equal(t, 5, in.Score)
			return &domain.Rating{ID: uuid.New(), ServiceRequestID: requestID, Score: 5}, nil
		})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/ratings", dto.RateRequest{
		ServiceRequestID: requestID.String(),
		Score:            5,
	})
	setPrincipal(c, p)
	h.Rate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(5), data["score"])
}

func TestRatingHandler_Rate_AlreadyRated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ratingSvc := mocks.NewMockRatingService(ctrl)
	h := NewRatingHandler(ratingSvc)

	ratingSvc.EXPECT().Rate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrAlreadyRated())

	c, w := newTestContext(t, http.MethodPost, "/api/v1/ratings", dto.RateRequest{
		ServiceRequestID: uuid.New().String(),
		Score:            4,
	})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
	h.Rate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CON_001", decodeError(t, w))
}

// ==================== LocationHandler Tests ====================

func TestLocationHandler_Create_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locationSvc := mocks.NewMockLocationService(ctrl)
	h := NewLocationHandler(locationSvc)

	userID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleUser}

	locationSvc.EXPECT().Create(gomock.Any(), p, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ domain.Principal, in ports.LocationInput) (*domain.UserLocation, error) {
			assert.InDelta(t, 10.77, in.Latitude, 0.001)
			assert.True(t, in.IsDefault)
			return &domain.UserLocation{
				ID:        uuid.New(),
				UserID:    userID,
				Latitude:  in.Latitude,
				Longitude: in.Longitude,
				IsDefault: true,
			}, nil
		})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/locations", dto.LocationRequest{
		Latitude:  10.77,
		Longitude: 106.70,
		IsDefault: true,
	})
	setPrincipal(c, p)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["is_default"])
}

func TestLocationHandler_Create_LatitudeOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	locationSvc := mocks.NewMockLocationService(ctrl)
	h := NewLocationHandler(locationSvc)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/locations", dto.LocationRequest{
		Latitude:  123.4,
		Longitude: 106.70,
	})
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleUser})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decodeError(t, w))
}

// ==================== ProviderHandler Tests ====================

func TestProviderHandler_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	providerSvc := mocks.NewMockProviderService(ctrl)
	ratingSvc := mocks.NewMockRatingService(ctrl)
	h := NewProviderHandler(providerSvc, ratingSvc)

	userID := uuid.New()
	categoryID := uuid.New()
	p := domain.Principal{UserID: userID, Role: domain.RoleUser}

	providerSvc.EXPECT().Register(gomock.Any(), p, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ domain.Principal, in ports.ProviderRegisterInput) (*domain.ServiceProvider, error) {
			assert.Equal(t, categoryID, in.ServiceCategoryID)
			return &domain.ServiceProvider{
				ID:                uuid.New(),
				UserID:            userID,
				ServiceCategoryID: categoryID,
			}, nil
		})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/providers/register", dto.ProviderRegisterRequest{
		ServiceCategoryID: categoryID.String(),
	})
	setPrincipal(c, p)
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, userID.String(), data["user_id"])
}

func TestProviderHandler_Me_MissingProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	providerSvc := mocks.NewMockProviderService(ctrl)
	ratingSvc := mocks.NewMockRatingService(ctrl)
	h := NewProviderHandler(providerSvc, ratingSvc)

	providerSvc.EXPECT().Me(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrProviderProfileMissing())

	c, w := newTestContext(t, http.MethodGet, "/api/v1/providers/me", nil)
	setPrincipal(c, domain.Principal{UserID: uuid.New(), Role: domain.RoleProvider})
	h.Me(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AUTH_005", decodeError(t, w))
}
