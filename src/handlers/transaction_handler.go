package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	dbcache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
)

type transactionsResponse struct {
	Transactions []models.TransactionWithAccount `json:"transactions"`
	Count        int                             `json:"count"`
	Limit        int                             `json:"limit"`
	Offset       int                             `json:"offset"`
}

func GetTransactions(transactions TransactionLister, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		filter, err := parseTransactionFilter(r)
		if err != nil {
			log.Printf("ERROR: Invalid transaction query for user %d: %v", userID, err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid query parameters")
			return
		}
		filter = db.NormalizeFilter(filter)

		key := dbcache.TransactionsKey(userID, filter.Limit, filter.Offset, filter.AccountID)
		if cached, ok := cache.Get(key); ok {
			if resp, ok := cached.(transactionsResponse); ok {
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}

		gen := cache.Generation(userID)
		list, total, err := transactions.ListTransactions(r.Context(), userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to fetch transactions for user %d: %v", userID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Failed to fetch transactions")
			return
		}
		if list == nil {
			list = []models.TransactionWithAccount{}
		}

		resp := transactionsResponse{
			Transactions: list,
			Count:        total,
			Limit:        filter.Limit,
			Offset:       filter.Offset,
		}
		cache.SetForUser(userID, gen, key, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseTransactionFilter(r *http.Request) (db.TransactionFilter, error) {
	var filter db.TransactionFilter
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}
	if v := q.Get("account_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, err
		}
		filter.AccountID = &id
	}
	return filter, nil
}
