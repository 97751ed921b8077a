package handlers

import (
	"log"
	"net/http"

	dbcache "fintrack-server/src/db"
	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
)

type accountsResponse struct {
	Accounts []models.LinkedAccount `json:"accounts"`
	Count    int                    `json:"count"`
}

func GetAccounts(accounts AccountLister, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		key := dbcache.AccountsKey(userID)
		if cached, ok := cache.Get(key); ok {
			if resp, ok := cached.(accountsResponse); ok {
				writeJSON(w, http.StatusOK, resp)
				return
			}
		}

		gen := cache.Generation(userID)
		list, err := accounts.ListLinkedAccounts(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to fetch accounts for user %d: %v", userID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Failed to fetch accounts")
			return
		}
		if list == nil {
			list = []models.LinkedAccount{}
		}

		resp := accountsResponse{Accounts: list, Count: len(list)}
		cache.SetForUser(userID, gen, key, resp)
		writeJSON(w, http.StatusOK, resp)
	}
}
