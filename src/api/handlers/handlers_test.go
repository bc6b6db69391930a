package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger/src/api"
	"ledger/src/api/handlers"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/services"
	"ledger/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *api.Server {
	store := repositories.NewMemoryStore()
	txm := store.TxManager()
	users := store.Users()
	investments := store.Investments()
	batches := store.DivestmentBatches()
	divestments := store.Divestments()

	handler := handlers.NewHandler(
		utils.NewLogger("error"),
		services.NewUserService(txm, users),
		services.NewInvestmentService(txm, users, investments, batches, divestments, nil),
		services.NewDivestmentService(txm, users, investments, batches, divestments, nil),
		services.NewAnalyticsService(txm, users, investments, divestments, nil),
	)
	return api.NewServer(handler)
}

func doJSON(t *testing.T, server *api.Server, method, path string, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func createTestUser(t *testing.T, server *api.Server) string {
	t.Helper()
	rec := doJSON(t, server, http.MethodPost, "/api/users", "", schemas.UserRequest{
		Username: "maria",
		Email:    "maria@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created schemas.CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return fmt.Sprintf("%d", created.ID)
}

func TestHealthcheck(t *testing.T) {
	server := newTestServer()
	rec := doJSON(t, server, http.MethodGet, "/alive", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvestmentEndpoints(t *testing.T) {
	server := newTestServer()
	userID := createTestUser(t, server)

	t.Run("RequiresUserHeader", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/investments", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CreateAndList", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/investments", userID, map[string]any{
			"company":       "ACME",
			"unit_price":    5.0,
			"quantity":      10,
			"date_invested": "2024-01-10",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, server, http.MethodGet, "/api/investments", userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var investments []schemas.InvestmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &investments))
		require.Len(t, investments, 1)
		assert.Equal(t, "ACME", investments[0].Company)
		assert.Equal(t, int64(10), investments[0].QuantityRemaining)
	})

	t.Run("InvalidBodyIsUnprocessable", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/investments", userID, map[string]any{
			"company":       "ACME",
			"unit_price":    5.0,
			"quantity":      0,
			"date_invested": "2024-01-10",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("UnknownIDIs404", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/investments/999", userID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDivestmentEndpoints(t *testing.T) {
	server := newTestServer()
	userID := createTestUser(t, server)

	seedLot := func(t *testing.T, company string, price float64, qty int64, invested string) {
		t.Helper()
		rec := doJSON(t, server, http.MethodPost, "/api/investments", userID, map[string]any{
			"company":       company,
			"unit_price":    price,
			"quantity":      qty,
			"date_invested": invested,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	seedLot(t, "ACME", 5.0, 10, "2024-01-10")
	seedLot(t, "ACME", 6.0, 10, "2024-02-10")

	t.Run("CreateAndInspectAllocations", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/divestments", userID, map[string]any{
			"company":       "ACME",
			"unit_price":    8.0,
			"quantity":      15,
			"date_divested": "2024-03-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created schemas.CreatedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/divestments/%d/allocations", created.ID), userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var allocations []schemas.DivestmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &allocations))
		require.Len(t, allocations, 2)
		assert.Equal(t, int64(10), allocations[0].Quantity)
		assert.Equal(t, int64(5), allocations[1].Quantity)
	})

	t.Run("OversellIsBadRequest", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/divestments", userID, map[string]any{
			"company":       "ACME",
			"unit_price":    8.0,
			"quantity":      100,
			"date_divested": "2024-03-01",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EditConsumedLotIsConflict", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPut, "/api/investments/2", userID, map[string]any{
			"company":       "ACME",
			"unit_price":    7.0,
			"quantity":      12,
			"date_invested": "2024-02-10",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	server := newTestServer()
	userID := createTestUser(t, server)

	rec := doJSON(t, server, http.MethodPost, "/api/investments", userID, map[string]any{
		"company":       "ACME",
		"unit_price":    5.0,
		"quantity":      10,
		"date_invested": "2024-01-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("ReturnsSummary", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/analytics", userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp schemas.AnalyticsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.NumInvestments)
		assert.Equal(t, 50.0, resp.TotalInvested)
	})

	t.Run("SinceFilters", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/analytics?since=2024-06-01", userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp schemas.AnalyticsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(0), resp.NumInvestments)
	})

	t.Run("BadSinceIsUnprocessable", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/analytics?since=junk", userID, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
