package linking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=linking

// AccountStore persists linked accounts and their access credentials.
// Find and List return accounts with the credential still sealed.
// Find methods return nil, nil when nothing matches.
type AccountStore interface {
	FindLinkedAccount(ctx context.Context, userID int64, externalAccountID string) (*models.LinkedAccount, error)
	// InsertLinkedAccount inserts unless (UserID, ExternalAccountID) already exists.
	InsertLinkedAccount(ctx context.Context, account *models.LinkedAccount) (bool, error)
	UpdateLinkedAccountCredential(ctx context.Context, id uuid.UUID, accessToken string, balance decimal.Decimal) error
	ListLinkedAccounts(ctx context.Context, userID int64) ([]models.LinkedAccount, error)
	MarkAccountSynced(ctx context.Context, id uuid.UUID, at time.Time) error
	// OpenCredential returns the plaintext access credential of a listed account.
	OpenCredential(account *models.LinkedAccount) (string, error)
}

// TransactionStore persists synchronized transactions.
type TransactionStore interface {
	FindTransactionByExternalID(ctx context.Context, externalTransactionID string) (*models.Transaction, error)
	// InsertTransaction inserts unless ExternalTransactionID already exists.
	InsertTransaction(ctx context.Context, txn *models.Transaction) (bool, error)
	// DeletePendingTransaction removes the row with that external id only if it is still pending.
	DeletePendingTransaction(ctx context.Context, externalTransactionID string) (bool, error)
}
