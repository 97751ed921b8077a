package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fintrack-server/src/linking"
)

var kindStatus = map[linking.Kind]int{
	linking.KindUnauthorized:        http.StatusUnauthorized,
	linking.KindInvalidRequest:      http.StatusBadRequest,
	linking.KindNoLinkedAccounts:    http.StatusNotFound,
	linking.KindUpstreamRejected:    http.StatusBadGateway,
	linking.KindUpstreamUnavailable: http.StatusServiceUnavailable,
	linking.KindInternal:            http.StatusInternalServerError,
}

type errorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind,omitempty"`
	Details []string `json:"details,omitempty"`
}

// writeError maps a linking error to its status. Only the caller-safe message is sent.
func writeError(w http.ResponseWriter, err error) {
	kind := linking.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Error: linking.MessageOf(err), Kind: string(kind)})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode response: %v", err)
	}
}
