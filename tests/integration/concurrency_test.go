package integration

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrency_SingleWinnerAccept races many providers at one open request.
// The claim is atomic, so exactly one accept may succeed; everyone else gets a
// not-found because the request is no longer open.
func TestConcurrency_SingleWinnerAccept(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	categoryID := app.seedCategory(t, "Plumbing", 150)
	userToken, _ := app.registerUser(t, "Ana Tran", "ana@example.com", "+84901234567")
	locationID := app.createLocation(t, userToken)

	status, resp := app.doJSON(t, http.MethodPost, "/api/v1/requests", userToken, map[string]interface{}{
		"service_category_id": categoryID.String(),
		"user_location_id":    locationID.String(),
		"description":         "leaking sink",
		"payment_method":      "CASH",
	})
	require.Equal(t, http.StatusCreated, status)
	requestID := data(t, resp)["id"].(string)

	const providers = 10
	tokens := make([]string, providers)
	for i := 0; i < providers; i++ {
		token, _ := app.registerUser(t, fmt.Sprintf("Provider %d", i),
			fmt.Sprintf("provider%d@example.com", i), fmt.Sprintf("+8490765%04d", i))
		app.registerProvider(t, token, categoryID)
		tokens[i] = token
	}

	var successCount, notFoundCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < providers; i++ {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			status, _ := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+requestID+"/accept", token, nil)
			switch status {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusNotFound:
				notFoundCount.Add(1)
			}
		}(tokens[i])
	}
	wg.Wait()

	t.Logf("accepts: %d succeeded, %d lost the race", successCount.Load(), notFoundCount.Load())
	assert.Equal(t, int64(1), successCount.Load())
	assert.Equal(t, int64(providers-1), notFoundCount.Load())

	// The request ended up assigned, exactly once.
	status, resp = app.doJSON(t, http.MethodGet, "/api/v1/requests/"+requestID, userToken, nil)
	require.Equal(t, http.StatusOK, status)
	d := data(t, resp)
	assert.Equal(t, "ACCEPTED", d["status"])
	assert.NotEmpty(t, d["provider_id"])
}

// TestConcurrency_ApproveCashInOnce races several admin approvals of the same
// pending cash-in. The pending-to-approved flip is atomic, so the entry is
// credited exactly once.
func TestConcurrency_ApproveCashInOnce(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	adminToken := app.seedAdmin(t)
	categoryID := app.seedCategory(t, "Plumbing", 150)
	userToken, _ := app.registerUser(t, "Ana Tran", "ana@example.com", "+84901234567")
	providerToken, _ := app.registerUser(t, "Binh Nguyen", "binh@example.com", "+84907654321")
	app.registerProvider(t, providerToken, categoryID)

	locationID := app.createLocation(t, userToken)
	status, resp := app.doJSON(t, http.MethodPost, "/api/v1/requests", userToken, map[string]interface{}{
		"service_category_id": categoryID.String(),
		"user_location_id":    locationID.String(),
		"description":         "leaking sink",
		"payment_method":      "CASH",
	})
	require.Equal(t, http.StatusCreated, status)
	requestID := data(t, resp)["id"].(string)
	status, _ = app.doJSON(t, http.MethodPost, "/api/v1/requests/"+requestID+"/accept", providerToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp = app.doJSON(t, http.MethodPost, "/api/v1/requests/"+requestID+"/cash-in", providerToken, map[string]interface{}{
		"amount": 300,
	})
	require.Equal(t, http.StatusCreated, status)
	txID := data(t, resp)["id"].(string)

	const attempts = 8
	var successCount, failCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := app.doJSON(t, http.MethodPost, "/api/v1/admin/transactions/"+txID+"/approve", adminToken, nil)
			if status == http.StatusOK {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}
	wg.Wait()

	t.Logf("approvals: %d succeeded, %d rejected", successCount.Load(), failCount.Load())
	assert.Equal(t, int64(1), successCount.Load())
	assert.Equal(t, int64(attempts-1), failCount.Load())
	assert.Equal(t, int64(300), app.walletBalance(t, userToken))
}

// TestConcurrency_RepeatedSettlement hammers accept-payment on one completed
// wallet request. The in-memory repos do not take row locks the way Postgres
// does, so this only asserts the safety net: every call completes and no
// balance goes negative.
func TestConcurrency_RepeatedSettlement(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	adminToken := app.seedAdmin(t)
	categoryID := app.seedCategory(t, "Plumbing", 150)

	userToken, userID := app.registerUser(t, "Ana Tran", "ana@example.com", "+84901234567")
	providerToken, _ := app.registerUser(t, "Binh Nguyen", "binh@example.com", "+84907654321")
	app.registerProvider(t, providerToken, categoryID)

	status, _ := app.doJSON(t, http.MethodPost, "/api/v1/admin/wallet/topup", adminToken, map[string]interface{}{
		"user_id": userID.String(),
		"amount":  500,
	})
	require.Equal(t, http.StatusCreated, status)

	locationID := app.createLocation(t, userToken)
	status, resp := app.doJSON(t, http.MethodPost, "/api/v1/requests", userToken, map[string]interface{}{
		"service_category_id": categoryID.String(),
		"user_location_id":    locationID.String(),
		"description":         "leaking sink",
		"payment_method":      "WALLET",
	})
	require.Equal(t, http.StatusCreated, status)
	requestID := data(t, resp)["id"].(string)

	status, _ = app.doJSON(t, http.MethodPost, "/api/v1/requests/"+requestID+"/accept", providerToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = app.doJSON(t, http.MethodPatch, "/api/v1/requests/"+requestID+"/status", providerToken, map[string]interface{}{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = app.doJSON(t, http.MethodPatch, "/api/v1/requests/"+requestID+"/status", providerToken, map[string]interface{}{
		"status":       "COMPLETED",
		"final_amount": 120,
	})
	require.Equal(t, http.StatusOK, status)

	const attempts = 6
	var successCount, conflictCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+requestID+"/accept-payment", userToken, nil)
			if status == http.StatusOK {
				successCount.Add(1)
			} else {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	t.Logf("settlements: %d succeeded, %d conflicted", successCount.Load(), conflictCount.Load())
	assert.Equal(t, int64(attempts), successCount.Load()+conflictCount.Load())
	assert.GreaterOrEqual(t, successCount.Load(), int64(1))
	assert.GreaterOrEqual(t, app.walletBalance(t, userToken), int64(0))
	assert.GreaterOrEqual(t, app.providerBalance(t, providerToken), int64(120))

	// The request always ends PAID with nothing held.
	status, resp = app.doJSON(t, http.MethodGet, "/api/v1/requests/"+requestID, userToken, nil)
	require.Equal(t, http.StatusOK, status)
	d := data(t, resp)
	assert.Equal(t, "PAID", d["payment_status"])
	assert.Equal(t, float64(0), d["wallet_hold_amount"])
}

// TestConcurrency_WithdrawalNeverOverdraws files more withdrawal requests than
// the balance covers and approves them one by one. Approval re-checks the
// balance, so later approvals fail instead of overdrawing.
func TestConcurrency_WithdrawalNeverOverdraws(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	adminToken := app.seedAdmin(t)
	categoryID := app.seedCategory(t, "Plumbing", 150)
	providerToken, _ := app.registerUser(t, "Binh Nguyen", "binh@example.com", "+84907654321")
	providerID := app.registerProvider(t, providerToken, categoryID)

	status, _ := app.doJSON(t, http.MethodPost, "/api/v1/admin/wallet/adjust", adminToken, map[string]interface{}{
		"provider_id": providerID.String(),
		"amount":      400,
	})
	require.Equal(t, http.StatusCreated, status)

	// Four requests of 150 pass the filing check individually, but only two
	// can ever be paid out of 400.
	txIDs := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		status, resp := app.doJSON(t, http.MethodPost, "/api/v1/wallet/withdraw", providerToken, map[string]interface{}{
			"amount": 150,
		})
		require.Equal(t, http.StatusCreated, status)
		txIDs = append(txIDs, data(t, resp)["id"].(string))
	}

	approved, refused := 0, 0
	for _, txID := range txIDs {
		status, resp := app.doJSON(t, http.MethodPost, "/api/v1/admin/transactions/"+txID+"/approve", adminToken, nil)
		switch status {
		case http.StatusOK:
			approved++
		case http.StatusPaymentRequired:
			refused++
			assert.Equal(t, "WAL_001", resp["error_code"])
		default:
			t.Fatalf("unexpected status %d approving withdrawal", status)
		}
	}

	assert.Equal(t, 2, approved)
	assert.Equal(t, 2, refused)
	assert.Equal(t, int64(100), app.providerBalance(t, providerToken))
}
