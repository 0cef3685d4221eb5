package postgres

import (
	"context"
	"testing"
	"time"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(userID uuid.UUID) *domain.WalletTransaction {
	return &domain.WalletTransaction{
		ID:        uuid.New(),
		UserID:    &userID,
		Type:      domain.TransactionTypeCashInRequest,
		Amount:    500,
		Status:    domain.TransactionStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionTestColumns() []string {
	return []string{"id", "user_id", "provider_id", "type", "amount", "status", "related_request_id", "created_at"}
}

func transactionRow(e *domain.WalletTransaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionTestColumns()).AddRow(
		e.ID, e.UserID, e.ProviderID, e.Type, e.Amount,
		e.Status, e.RelatedRequestID, e.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	e := newTestEntry(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(e.ID, e.UserID, e.ProviderID, e.Type, e.Amount,
			e.Status, e.RelatedRequestID, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	e := newTestEntry(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE id").
		WithArgs(e.ID).
		WillReturnRows(transactionRow(e))

	result, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, e.ID, result.ID)
	assert.Equal(t, e.Amount, result.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallet_transactions SET type .+ status = 'PENDING'").
		WithArgs(domain.TransactionTypeCashInApproved, domain.TransactionStatusApproved, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Resolve(context.Background(), tx, id, domain.TransactionTypeCashInApproved, domain.TransactionStatusApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Resolve_NotPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallet_transactions SET type .+ status = 'PENDING'").
		WithArgs(domain.TransactionTypeCashInApproved, domain.TransactionStatusApproved, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Resolve(context.Background(), tx, id, domain.TransactionTypeCashInApproved, domain.TransactionStatusApproved)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction not pending")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_MarkRejected(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	e := newTestEntry(uuid.New())
	e.Status = domain.TransactionStatusRejected

	mock.ExpectQuery("UPDATE wallet_transactions SET status = 'REJECTED' .+ RETURNING").
		WithArgs(e.ID).
		WillReturnRows(transactionRow(e))

	result, err := repo.MarkRejected(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.TransactionStatusRejected, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_MarkRejected_AlreadyTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("UPDATE wallet_transactions SET status = 'REJECTED' .+ RETURNING").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.MarkRejected(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_NetApprovedForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	userID := uuid.New()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(CASE").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"net"}).AddRow(int64(250)))

	net, err := repo.NetApprovedForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), net)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	e := newTestEntry(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM wallet_transactions .+ status = 'PENDING'").
		WithArgs(50).
		WillReturnRows(transactionRow(e))

	entries, err := repo.ListPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.TransactionStatusPending, entries[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	rows := pgxmock.NewRows([]string{
		"total", "pending", "approved", "rejected",
		"holds", "payments", "earnings", "withdrawn",
	}).AddRow(int64(10), int64(2), int64(7), int64(1), int64(300), int64(450), int64(450), int64(100))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalEntries)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(450), stats.TotalEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
