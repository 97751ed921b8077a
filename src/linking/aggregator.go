package linking

import (
	"context"
	"time"

	"fintrack-server/src/models"
)

//go:generate mockgen -source=aggregator.go -destination=aggregator_mock.go -package=linking

// Aggregator is the external bank-data provider.
type Aggregator interface {
	CreateLinkToken(ctx context.Context, req LinkTokenRequest) (models.LinkSession, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*models.Exchange, error)
	FetchTransactions(ctx context.Context, req FetchRequest) ([]models.Transaction, error)
}

type LinkTokenRequest struct {
	UserID       int64
	Products     []string
	CountryCodes []string
	WebhookURL   string
}

// FetchRequest selects the transactions of one account in [Start, End].
type FetchRequest struct {
	AccessToken       string
	ExternalAccountID string
	Start             time.Time
	End               time.Time
}
