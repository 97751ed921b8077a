package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkedAccount is one bank or brokerage account a user connected through the aggregator.
// (UserID, ExternalAccountID) is unique.
type LinkedAccount struct {
	ID                uuid.UUID       `json:"id"`
	UserID            int64           `json:"user_id"`
	ItemID            string          `json:"item_id"`
	ExternalAccountID string          `json:"external_account_id"`
	AccessToken       string          `json:"-"`
	SealedToken       string          `json:"-"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Subtype           string          `json:"subtype"`
	Mask              string          `json:"mask"`
	InstitutionName   string          `json:"institution_name"`
	Balance           decimal.Decimal `json:"balance"`
	CurrencyCode      string          `json:"currency_code"`
	LastSyncedAt      *time.Time      `json:"last_synced_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ExternalAccount is an account as reported by the aggregator, already validated.
type ExternalAccount struct {
	ID           string
	Name         string
	Type         string
	Subtype      string
	Mask         string
	Balance      decimal.Decimal
	CurrencyCode string
}
