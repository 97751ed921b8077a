package linking

import (
	"context"
	"log"
	"strings"

	"fintrack-server/src/models"
)

// SessionDefaults fill in whatever a link session request leaves empty.
type SessionDefaults struct {
	Products     []string
	CountryCodes []string
	WebhookURL   string
}

type LinkSessionRequest struct {
	UserID       int64    `json:"userId"`
	Products     []string `json:"products,omitempty"`
	CountryCodes []string `json:"countryCodes,omitempty"`
	WebhookURL   string   `json:"-"`
}

// SessionManager issues link tokens for the client-side linking widget.
// It persists nothing.
type SessionManager struct {
	aggregator Aggregator
	defaults   SessionDefaults
}

func NewSessionManager(aggregator Aggregator, defaults SessionDefaults) *SessionManager {
	return &SessionManager{aggregator: aggregator, defaults: defaults}
}

func (m *SessionManager) CreateLinkSession(ctx context.Context, callerID int64, req LinkSessionRequest) (models.LinkSession, error) {
	if callerID != req.UserID {
		log.Printf("WARN: user %d requested a link session for user %d", callerID, req.UserID)
		return models.LinkSession{}, ErrUnauthorized
	}

	products := normalizeCodes(req.Products, strings.ToLower)
	if len(products) == 0 {
		products = normalizeCodes(m.defaults.Products, strings.ToLower)
	}
	if len(products) == 0 {
		return models.LinkSession{}, InvalidRequest("At least one product is required")
	}

	countryCodes := normalizeCodes(req.CountryCodes, strings.ToUpper)
	if len(countryCodes) == 0 {
		countryCodes = normalizeCodes(m.defaults.CountryCodes, strings.ToUpper)
	}
	if len(countryCodes) == 0 {
		return models.LinkSession{}, InvalidRequest("At least one country code is required")
	}

	webhook := req.WebhookURL
	if webhook == "" {
		webhook = m.defaults.WebhookURL
	}

	session, err := m.aggregator.CreateLinkToken(ctx, LinkTokenRequest{
		UserID:       req.UserID,
		Products:     products,
		CountryCodes: countryCodes,
		WebhookURL:   webhook,
	})
	if err != nil {
		log.Printf("ERROR: failed to create link token for user %d: %v", req.UserID, err)
		return models.LinkSession{}, upstream("Failed to create link token", err)
	}

	log.Printf("INFO: created link token for user %d", req.UserID)
	return session, nil
}

// normalizeCodes trims, cases and dedupes a list of aggregator codes, keeping order.
func normalizeCodes(values []string, caser func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = caser(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
