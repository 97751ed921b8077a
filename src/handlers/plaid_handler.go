package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
	"fintrack-server/src/worker"
)

const maxWebhookBody = 1 << 20

type linkTokenResponse struct {
	LinkToken  string    `json:"linkToken"`
	Expiration time.Time `json:"expiration"`
}

type exchangeResponse struct {
	Message      string `json:"message"`
	LinkedCount  int    `json:"linkedCount"`
	UpdatedCount int    `json:"updatedCount"`
	Accounts     int    `json:"accounts"`
}

type syncResponse struct {
	Message        string   `json:"message"`
	InsertedCount  int      `json:"insertedCount"`
	AccountsSynced int      `json:"accountsSynced"`
	Errors         []string `json:"errors,omitempty"`
}

func CreateLinkToken(sessions LinkSessionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		var req linking.LinkSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create link token request body for user %d: %v", userID, err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		session, err := sessions.CreateLinkSession(r.Context(), userID, req)
		if err != nil {
			log.Printf("ERROR: Link token creation failed for user %d: %v", userID, err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, linkTokenResponse{
			LinkToken:  session.Token,
			Expiration: session.Expiration,
		})
	}
}

func ExchangePublicToken(linker AccountLinker, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		var req struct {
			UserID      int64  `json:"userId"`
			PublicToken string `json:"publicToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange token request body for user %d: %v", callerID, err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		result, err := linker.LinkAccounts(r.Context(), callerID, req.UserID, req.PublicToken)
		if err != nil {
			log.Printf("ERROR: Account linking failed for user %d: %v", callerID, err)
			writeError(w, err)
			return
		}

		if result.LinkedCount > 0 || result.UpdatedCount > 0 {
			cache.InvalidateUser(callerID)
		}

		log.Printf("INFO: User %d linked %d accounts (%d updated, %d reported)",
			callerID, result.LinkedCount, result.UpdatedCount, result.TotalAccounts)

		writeJSON(w, http.StatusOK, exchangeResponse{
			Message:      "Bank account connected successfully",
			LinkedCount:  result.LinkedCount,
			UpdatedCount: result.UpdatedCount,
			Accounts:     result.TotalAccounts,
		})
	}
}

func SyncTransactions(syncer TransactionSyncer, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, linking.ErrUnauthorized)
			return
		}

		var req struct {
			UserID *int64 `json:"userId"`
		}
		// The body is optional.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			log.Printf("ERROR: Failed to decode sync request body for user %d: %v", callerID, err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.UserID != nil && *req.UserID != callerID {
			log.Printf("ERROR: Sync requested for user %d by user %d", *req.UserID, callerID)
			writeError(w, linking.ErrUnauthorized)
			return
		}

		runSync(w, r, syncer, cache, callerID)
	}
}

// SyncTransactionsForUser lets a super admin sync any user's accounts.
func SyncTransactionsForUser(syncer TransactionSyncer, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "user_id")
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			log.Printf("ERROR: Failed to parse user_id from URL - user_id: %s", raw)
			writeErrorMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}

		runSync(w, r, syncer, cache, userID)
	}
}

func runSync(w http.ResponseWriter, r *http.Request, syncer TransactionSyncer, cache ReadCache, userID int64) {
	result, err := syncer.SyncTransactions(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: Transaction sync failed for user %d: %v", userID, err)
		writeError(w, err)
		return
	}

	if result.InsertedCount > 0 {
		cache.InvalidateUser(userID)
	}

	log.Printf("INFO: Synced %d transactions across %d accounts for user %d (%d errors)",
		result.InsertedCount, result.AccountsSynced, userID, len(result.Errors))

	writeJSON(w, http.StatusOK, syncResponse{
		Message:        "Transactions synced successfully",
		InsertedCount:  result.InsertedCount,
		AccountsSynced: result.AccountsSynced,
		Errors:         result.Errors,
	})
}

type webhookPayload struct {
	WebhookType string `json:"webhook_type"`
	WebhookCode string `json:"webhook_code"`
	ItemID      string `json:"item_id"`
}

var syncWebhookCodes = map[string]bool{
	"SYNC_UPDATES_AVAILABLE": true,
	"INITIAL_UPDATE":         true,
	"HISTORICAL_UPDATE":      true,
	"DEFAULT_UPDATE":         true,
}

// PlaidWebhook acknowledges every well-formed webhook. Transaction updates queue a
// background sync for the item's owner. verifier may be nil when verification is off.
func PlaidWebhook(verifier WebhookVerifier, owners ItemOwnerFinder, jobs JobSubmitter, syncer TransactionSyncer, cache ReadCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			log.Printf("ERROR: Failed to read webhook body: %v", err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		if verifier != nil {
			if err := verifier.Verify(r.Context(), body, r.Header); err != nil {
				log.Printf("ERROR: Webhook verification failed: %v", err)
				writeErrorMessage(w, http.StatusUnauthorized, "invalid webhook signature")
				return
			}
		}

		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("ERROR: Failed to decode webhook body: %v", err)
			writeErrorMessage(w, http.StatusBadRequest, "invalid request")
			return
		}

		if payload.WebhookType != "TRANSACTIONS" || !syncWebhookCodes[payload.WebhookCode] {
			log.Printf("INFO: Ignoring webhook %s/%s for item %s", payload.WebhookType, payload.WebhookCode, payload.ItemID)
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		userID, found, err := owners.FindUserIDByItemID(r.Context(), payload.ItemID)
		if err != nil {
			log.Printf("ERROR: Failed to look up owner of item %s: %v", payload.ItemID, err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !found {
			log.Printf("WARN: Webhook for unknown item %s", payload.ItemID)
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		job := worker.NewTransactionSyncJob(userID, syncer, cache.InvalidateUser)
		if err := jobs.Submit(job); err != nil {
			log.Printf("WARN: Could not queue sync for user %d from webhook %s: %v", userID, payload.WebhookCode, err)
		} else {
			log.Printf("INFO: Queued sync for user %d from webhook %s", userID, payload.WebhookCode)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}
