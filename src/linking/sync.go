package linking

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"fintrack-server/src/models"
)

var (
	syncMeter              = otel.Meter("fintrack/linking")
	syncInsertedTotal, _   = syncMeter.Int64Counter("sync.transactions.inserted", metric.WithDescription("Transactions inserted by sync"))
	syncAccountTotal, _    = syncMeter.Int64Counter("sync.account.total", metric.WithDescription("Account syncs by status"))
	syncAccountDuration, _ = syncMeter.Float64Histogram("sync.account.duration", metric.WithDescription("Per-account sync duration in seconds"), metric.WithUnit("s"))
)

const (
	DefaultSyncWindow      = 30 * 24 * time.Hour
	DefaultSyncConcurrency = 4
	DefaultFetchTimeout    = 30 * time.Second

	// The aggregator serves at most two years of history.
	maxLookback = 730 * 24 * time.Hour
)

type SyncOptions struct {
	Window           time.Duration
	Concurrency      int
	FetchTimeout     time.Duration
	ReconcilePending bool
}

type SyncResult struct {
	InsertedCount  int      `json:"insertedCount"`
	AccountsSynced int      `json:"accountsSynced"`
	Errors         []string `json:"errors"`
}

// Synchronizer pulls recent transactions for every linked account of a user.
// Running it twice over the same window stores nothing new the second time.
type Synchronizer struct {
	aggregator   Aggregator
	accounts     AccountStore
	transactions TransactionStore
	opts         SyncOptions
	now          func() time.Time
}

func NewSynchronizer(aggregator Aggregator, accounts AccountStore, transactions TransactionStore, opts SyncOptions) *Synchronizer {
	if opts.Window <= 0 {
		opts.Window = DefaultSyncWindow
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultSyncConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Synchronizer{
		aggregator:   aggregator,
		accounts:     accounts,
		transactions: transactions,
		opts:         opts,
		now:          time.Now,
	}
}

func (s *Synchronizer) SyncTransactions(ctx context.Context, userID int64) (*SyncResult, error) {
	accounts, err := s.accounts.ListLinkedAccounts(ctx, userID)
	if err != nil {
		log.Printf("ERROR: failed to load linked accounts for user %d: %v", userID, err)
		return nil, internal("Failed to load linked accounts", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoLinkedAccounts
	}

	now := s.now().UTC()
	result := &SyncResult{Errors: []string{}}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i := range accounts {
		account := accounts[i]
		g.Go(func() error {
			start := time.Now()
			inserted, err := s.syncAccount(ctx, &account, now)

			status := "success"
			if err != nil {
				status = "error"
			}
			syncAccountTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
			syncAccountDuration.Record(ctx, time.Since(start).Seconds())
			syncInsertedTotal.Add(ctx, int64(inserted))

			mu.Lock()
			defer mu.Unlock()
			result.InsertedCount += inserted
			if err != nil {
				log.Printf("ERROR: failed to sync account %s for user %d: %v", account.ID, userID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("Failed to sync account %s", account.Name))
				return nil
			}
			result.AccountsSynced++
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Errors)
	log.Printf("INFO: synced %d/%d accounts for user %d, %d new transactions",
		result.AccountsSynced, len(accounts), userID, result.InsertedCount)
	return result, nil
}

// syncAccount stores every fetched transaction it can. It returns how many
// rows were inserted along with the first failure, if any.
func (s *Synchronizer) syncAccount(ctx context.Context, account *models.LinkedAccount, now time.Time) (int, error) {
	accessToken, err := s.accounts.OpenCredential(account)
	if err != nil {
		return 0, fmt.Errorf("open credential: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	txns, err := s.aggregator.FetchTransactions(fetchCtx, FetchRequest{
		AccessToken:       accessToken,
		ExternalAccountID: account.ExternalAccountID,
		Start:             s.windowStart(account, now),
		End:               now,
	})
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	// pending ids replaced by a settled transaction in this same batch
	superseded := make(map[string]struct{})
	if s.opts.ReconcilePending {
		for _, t := range txns {
			if !t.Pending && t.PendingExternalID != "" {
				superseded[t.PendingExternalID] = struct{}{}
			}
		}
	}

	inserted := 0
	var firstErr error
	for i := range txns {
		txn := txns[i]
		if txn.Pending {
			if _, ok := superseded[txn.ExternalTransactionID]; ok {
				continue
			}
		}
		txn.ID = uuid.New()
		txn.UserID = account.UserID
		txn.AccountID = account.ID
		txn.CreatedAt = now

		ok, err := s.transactions.InsertTransaction(ctx, &txn)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("store transaction %s: %w", txn.ExternalTransactionID, err)
			}
			continue
		}
		if ok {
			inserted++
		}

		// Runs again on every sync that still sees the settled row, so a
		// failed delete is retried.
		if s.opts.ReconcilePending && !txn.Pending && txn.PendingExternalID != "" {
			if _, err := s.transactions.DeletePendingTransaction(ctx, txn.PendingExternalID); err != nil {
				log.Printf("WARN: failed to remove pending transaction %s: %v", txn.PendingExternalID, err)
			}
		}
	}
	if firstErr != nil {
		return inserted, firstErr
	}

	if err := s.accounts.MarkAccountSynced(ctx, account.ID, now); err != nil {
		log.Printf("WARN: failed to record sync time for account %s: %v", account.ID, err)
	}
	return inserted, nil
}

func (s *Synchronizer) windowStart(account *models.LinkedAccount, now time.Time) time.Time {
	start := now.Add(-s.opts.Window)
	if account.LastSyncedAt != nil && account.LastSyncedAt.Before(start) {
		start = *account.LastSyncedAt
	}
	if earliest := now.Add(-maxLookback); start.Before(earliest) {
		start = earliest
	}
	return start
}
