package handlers

import (
	"context"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/linking"
	"fintrack-server/src/models"
	"fintrack-server/src/worker"
)

type LinkSessionCreator interface {
	CreateLinkSession(ctx context.Context, callerID int64, req linking.LinkSessionRequest) (models.LinkSession, error)
}

type AccountLinker interface {
	LinkAccounts(ctx context.Context, callerID, userID int64, publicToken string) (*linking.LinkResult, error)
}

type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, userID int64) (*linking.SyncResult, error)
}

type AccountLister interface {
	ListLinkedAccounts(ctx context.Context, userID int64) ([]models.LinkedAccount, error)
}

type TransactionLister interface {
	ListTransactions(ctx context.Context, userID int64, filter db.TransactionFilter) ([]models.TransactionWithAccount, int, error)
}

type ItemOwnerFinder interface {
	FindUserIDByItemID(ctx context.Context, itemID string) (int64, bool, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, req models.RegisterRequest, hashedPassword []byte) (*models.RegisterResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

type JobSubmitter interface {
	Submit(job worker.Job) error
}

type WebhookVerifier interface {
	Verify(ctx context.Context, body []byte, headers http.Header) error
}

// ReadCache is the per-user response cache. Generation is read before the
// database so SetForUser can refuse a result an invalidation has overtaken.
type ReadCache interface {
	Get(key string) (any, bool)
	Generation(userID int64) uint64
	SetForUser(userID int64, gen uint64, key string, value any) bool
	InvalidateUser(userID int64)
}
