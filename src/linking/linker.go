package linking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack-server/src/models"
)

// RelinkPolicy decides what happens when a user links an account they already have.
type RelinkPolicy string

const (
	// RelinkSkip leaves the stored account and its credential untouched.
	RelinkSkip RelinkPolicy = "skip"
	// RelinkUpdate replaces the stored credential and balance with the fresh ones.
	RelinkUpdate RelinkPolicy = "update"
)

func ParseRelinkPolicy(s string) (RelinkPolicy, error) {
	switch RelinkPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RelinkSkip:
		return RelinkSkip, nil
	case RelinkUpdate:
		return RelinkUpdate, nil
	default:
		return "", fmt.Errorf("unknown relink policy %q", s)
	}
}

type LinkResult struct {
	LinkedCount   int `json:"linkedCount"`
	UpdatedCount  int `json:"updatedCount"`
	TotalAccounts int `json:"totalAccounts"`
}

// Linker turns a public token from the linking widget into stored accounts.
type Linker struct {
	aggregator Aggregator
	accounts   AccountStore
	policy     RelinkPolicy
	now        func() time.Time
}

func NewLinker(aggregator Aggregator, accounts AccountStore, policy RelinkPolicy) *Linker {
	if policy == "" {
		policy = RelinkSkip
	}
	return &Linker{
		aggregator: aggregator,
		accounts:   accounts,
		policy:     policy,
		now:        time.Now,
	}
}

func (l *Linker) LinkAccounts(ctx context.Context, callerID, userID int64, publicToken string) (*LinkResult, error) {
	if callerID != userID {
		log.Printf("WARN: user %d tried to link accounts for user %d", callerID, userID)
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(publicToken) == "" {
		return nil, InvalidRequest("Public token is required")
	}

	exchange, err := l.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		log.Printf("ERROR: token exchange failed for user %d: %v", userID, err)
		return nil, upstream("Failed to exchange public token", err)
	}

	result := &LinkResult{TotalAccounts: len(exchange.Accounts)}
	for _, external := range exchange.Accounts {
		inserted, updated, err := l.linkAccount(ctx, userID, exchange, external)
		if err != nil {
			log.Printf("ERROR: failed to link account %s for user %d: %v", external.ID, userID, err)
			continue
		}
		if inserted {
			result.LinkedCount++
		}
		if updated {
			result.UpdatedCount++
		}
	}

	log.Printf("INFO: linked %d of %d accounts for user %d (%d updated)",
		result.LinkedCount, result.TotalAccounts, userID, result.UpdatedCount)
	return result, nil
}

func (l *Linker) linkAccount(ctx context.Context, userID int64, exchange *models.Exchange, external models.ExternalAccount) (inserted, updated bool, err error) {
	existing, err := l.accounts.FindLinkedAccount(ctx, userID, external.ID)
	if err != nil {
		return false, false, fmt.Errorf("lookup: %w", err)
	}

	if existing != nil {
		if l.policy != RelinkUpdate {
			log.Printf("INFO: account %s already linked for user %d, skipping", external.ID, userID)
			return false, false, nil
		}
		if err := l.accounts.UpdateLinkedAccountCredential(ctx, existing.ID, exchange.AccessToken, external.Balance); err != nil {
			return false, false, fmt.Errorf("update credential: %w", err)
		}
		return false, true, nil
	}

	now := l.now().UTC()
	account := &models.LinkedAccount{
		ID:                uuid.New(),
		UserID:            userID,
		ItemID:            exchange.ItemID,
		ExternalAccountID: external.ID,
		AccessToken:       exchange.AccessToken,
		Name:              external.Name,
		Type:              external.Type,
		Subtype:           external.Subtype,
		Mask:              external.Mask,
		InstitutionName:   exchange.InstitutionName,
		Balance:           external.Balance,
		CurrencyCode:      external.CurrencyCode,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	ok, err := l.accounts.InsertLinkedAccount(ctx, account)
	if err != nil {
		return false, false, fmt.Errorf("insert: %w", err)
	}
	if !ok {
		// lost a race with a concurrent link of the same account
		log.Printf("INFO: account %s was linked concurrently for user %d", external.ID, userID)
	}
	return ok, false, nil
}
