package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/handlers"
	"fintrack-server/src/models"
)

func TestGetAccounts(t *testing.T) {
	accounts := &stubAccounts{accounts: []models.LinkedAccount{
		{ID: uuid.New(), UserID: 7, Name: "Checking", AccessToken: "access-secret"},
	}}
	cache := newMapCache()
	handler := handlers.GetAccounts(accounts, cache)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodGet, "/api/accounts", "", 7))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["count"])
	assert.NotContains(t, rec.Body.String(), "access-secret")

	rec = httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodGet, "/api/accounts", "", 7))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, accounts.calls, "second read is served from cache")
}

func TestGetAccounts_InvalidatedDuringRead(t *testing.T) {
	cache := newMapCache()
	accounts := &stubAccounts{accounts: []models.LinkedAccount{{ID: uuid.New(), UserID: 7, Name: "Checking"}}}
	accounts.during = func() {
		cache.InvalidateUser(7)
		accounts.during = nil
	}
	handler := handlers.GetAccounts(accounts, cache)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler(rec, authedRequest(http.MethodGet, "/api/accounts", "", 7))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// the first result was read before the invalidation and is not cached
	assert.Equal(t, 2, accounts.calls)
}

func TestGetAccounts_Empty(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.GetAccounts(&stubAccounts{}, newMapCache())(rec, authedRequest(http.MethodGet, "/", "", 7))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{}, body["accounts"])
	assert.EqualValues(t, 0, body["count"])
}

func TestGetAccounts_StoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.GetAccounts(&stubAccounts{err: errors.New("db down")}, newMapCache())(rec, authedRequest(http.MethodGet, "/", "", 7))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch accounts", decodeBody(t, rec)["error"])
}

func TestGetTransactions(t *testing.T) {
	accountID := uuid.MustParse("6f1c3c1e-1b51-4a2e-9a34-2d0f7f3a9b10")

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int
		wantAcct   *uuid.UUID
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantLimit: 50},
		{name: "explicit paging", query: "?limit=10&offset=20", wantStatus: http.StatusOK, wantLimit: 10, wantOffset: 20},
		{name: "limit clamped", query: "?limit=10000", wantStatus: http.StatusOK, wantLimit: 500},
		{name: "account filter", query: "?account_id=" + accountID.String(), wantStatus: http.StatusOK, wantLimit: 50, wantAcct: &accountID},
		{name: "bad account id", query: "?account_id=nope", wantStatus: http.StatusBadRequest},
		{name: "bad limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := &stubTransactions{total: 120}
			rec := httptest.NewRecorder()
			handlers.GetTransactions(txns, newMapCache())(rec, authedRequest(http.MethodGet, "/api/transactions"+tt.query, "", 7))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, 0, txns.calls)
				return
			}
			body := decodeBody(t, rec)
			assert.EqualValues(t, 120, body["count"])
			assert.EqualValues(t, tt.wantLimit, body["limit"])
			assert.EqualValues(t, tt.wantOffset, body["offset"])
			assert.Equal(t, []any{}, body["transactions"])
			assert.Equal(t, tt.wantAcct, txns.lastFilter.AccountID)
		})
	}
}

func TestGetTransactions_CachedPerPage(t *testing.T) {
	txns := &stubTransactions{total: 3}
	cache := newMapCache()
	handler := handlers.GetTransactions(txns, cache)

	for _, target := range []string{"/?limit=10", "/?limit=10", "/?limit=20"} {
		rec := httptest.NewRecorder()
		handler(rec, authedRequest(http.MethodGet, target, "", 7))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2, txns.calls)
}
