package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a ledger entry pulled from the aggregator.
// Amount is signed: negative is an outflow, positive an inflow.
type Transaction struct {
	ID                    uuid.UUID       `json:"id"`
	UserID                int64           `json:"user_id"`
	AccountID             uuid.UUID       `json:"account_id"`
	ExternalTransactionID string          `json:"external_transaction_id"`
	Amount                decimal.Decimal `json:"amount"`
	CurrencyCode          string          `json:"currency_code"`
	Description           string          `json:"description"`
	Category              []string        `json:"category"`
	Date                  time.Time       `json:"date"`
	Pending               bool            `json:"pending"`
	CreatedAt             time.Time       `json:"created_at"`

	// Set on settled transactions that replace an earlier pending one. Not persisted.
	PendingExternalID string `json:"-"`
}

// TransactionWithAccount is the read model served to the dashboard.
type TransactionWithAccount struct {
	Transaction
	AccountName    string `json:"account_name"`
	AccountType    string `json:"account_type"`
	AccountSubtype string `json:"account_subtype"`
	AccountMask    string `json:"account_mask"`
}
