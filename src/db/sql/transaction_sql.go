package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fintrack-server/src/models"
)

const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

type TransactionFilter struct {
	Limit     int
	Offset    int
	AccountID *uuid.UUID
}

func (s *Store) FindTransactionByExternalID(ctx context.Context, externalTransactionID string) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, account_id, external_transaction_id, amount, currency_code, description, category, date, pending, created_at
		FROM transactions
		WHERE external_transaction_id = $1
	`
	var t models.Transaction
	err := s.pool.QueryRow(ctx, query, externalTransactionID).Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.ExternalTransactionID,
		&t.Amount,
		&t.CurrencyCode,
		&t.Description,
		&t.Category,
		&t.Date,
		&t.Pending,
		&t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &t, nil
}

func (s *Store) InsertTransaction(ctx context.Context, txn *models.Transaction) (bool, error) {
	category := txn.Category
	if category == nil {
		category = []string{}
	}

	query := `
		INSERT INTO transactions (id, user_id, account_id, external_transaction_id, amount, currency_code,
			description, category, date, pending, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_transaction_id) DO NOTHING
		RETURNING id
	`
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, query,
		txn.ID,
		txn.UserID,
		txn.AccountID,
		txn.ExternalTransactionID,
		txn.Amount,
		txn.CurrencyCode,
		txn.Description,
		category,
		txn.Date,
		txn.Pending,
		txn.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return true, nil
}

func (s *Store) DeletePendingTransaction(ctx context.Context, externalTransactionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE external_transaction_id = $1 AND pending`, externalTransactionID)
	if err != nil {
		return false, fmt.Errorf("delete pending transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListTransactions returns one page of a user's transactions, newest first, and the total count.
func (s *Store) ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]models.TransactionWithAccount, int, error) {
	filter = NormalizeFilter(filter)

	args := []any{userID}
	where := `t.user_id = $1`
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		where += fmt.Sprintf(` AND t.account_id = $%d`, len(args))
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.account_id, t.external_transaction_id, t.amount, t.currency_code, t.description,
			t.category, t.date, t.pending, t.created_at, a.name, a.type, a.subtype, a.mask
		FROM transactions t
		JOIN linked_accounts a ON a.id = t.account_id
		WHERE %s
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.TransactionWithAccount{}
	for rows.Next() {
		var t models.TransactionWithAccount
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.AccountID,
			&t.ExternalTransactionID,
			&t.Amount,
			&t.CurrencyCode,
			&t.Description,
			&t.Category,
			&t.Date,
			&t.Pending,
			&t.CreatedAt,
			&t.AccountName,
			&t.AccountType,
			&t.AccountSubtype,
			&t.AccountMask,
		)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}

	return transactions, total, rows.Err()
}

// NormalizeFilter clamps paging to sane bounds.
func NormalizeFilter(filter TransactionFilter) TransactionFilter {
	if filter.Limit <= 0 {
		filter.Limit = DefaultTransactionLimit
	}
	if filter.Limit > MaxTransactionLimit {
		filter.Limit = MaxTransactionLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
