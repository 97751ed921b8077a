package handlers

import (
	"errors"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
)

// GetUser returns the authenticated user.
func GetUser(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		user, err := users.GetUserByID(r.Context(), userID)
		if errors.Is(err, db.ErrUserNotFound) {
			writeErrorMessage(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get user - user_id: %d: %v", userID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
