package worker

import (
	"context"
	"fmt"
	"log"

	"fintrack-server/src/linking"
)

type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, userID int64) (*linking.SyncResult, error)
}

// TransactionSyncJob syncs every linked account of one user.
type TransactionSyncJob struct {
	userID int64
	syncer TransactionSyncer
	// called after a sync that stored anything
	onSynced func(userID int64)
}

func NewTransactionSyncJob(userID int64, syncer TransactionSyncer, onSynced func(userID int64)) *TransactionSyncJob {
	return &TransactionSyncJob{userID: userID, syncer: syncer, onSynced: onSynced}
}

func (j *TransactionSyncJob) Execute(ctx context.Context) error {
	result, err := j.syncer.SyncTransactions(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if result.InsertedCount > 0 && j.onSynced != nil {
		j.onSynced(j.userID)
	}
	if len(result.Errors) > 0 {
		log.Printf("WARN: background sync for user %d stored %d transactions with %d account errors",
			j.userID, result.InsertedCount, len(result.Errors))
		return fmt.Errorf("sync completed with %d errors", len(result.Errors))
	}
	return nil
}

func (j *TransactionSyncJob) Description() string {
	return fmt.Sprintf("transaction sync for user %d", j.userID)
}
