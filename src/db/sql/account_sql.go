package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

const linkedAccountColumns = `id, user_id, item_id, external_account_id, access_token_sealed, name, type, subtype,
	mask, institution_name, balance, currency_code, last_synced_at, created_at, updated_at`

// scanLinkedAccount leaves the credential sealed; OpenCredential opens it when a caller needs it.
func scanLinkedAccount(row scanner) (*models.LinkedAccount, error) {
	var account models.LinkedAccount
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.ItemID,
		&account.ExternalAccountID,
		&account.SealedToken,
		&account.Name,
		&account.Type,
		&account.Subtype,
		&account.Mask,
		&account.InstitutionName,
		&account.Balance,
		&account.CurrencyCode,
		&account.LastSyncedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) OpenCredential(account *models.LinkedAccount) (string, error) {
	token, err := s.sealer.Open(account.SealedToken)
	if err != nil {
		return "", fmt.Errorf("open credential for account %s: %w", account.ID, err)
	}
	return token, nil
}

func (s *Store) FindLinkedAccount(ctx context.Context, userID int64, externalAccountID string) (*models.LinkedAccount, error) {
	query := `SELECT ` + linkedAccountColumns + ` FROM linked_accounts WHERE user_id = $1 AND external_account_id = $2`

	account, err := scanLinkedAccount(s.pool.QueryRow(ctx, query, userID, externalAccountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find linked account: %w", err)
	}
	return account, nil
}

func (s *Store) InsertLinkedAccount(ctx context.Context, account *models.LinkedAccount) (bool, error) {
	sealed, err := s.sealer.Seal(account.AccessToken)
	if err != nil {
		return false, fmt.Errorf("seal credential: %w", err)
	}

	query := `
		INSERT INTO linked_accounts (id, user_id, item_id, external_account_id, access_token_sealed, name, type,
			subtype, mask, institution_name, balance, currency_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, external_account_id) DO NOTHING
		RETURNING id
	`
	var id uuid.UUID
	err = s.pool.QueryRow(ctx, query,
		account.ID,
		account.UserID,
		account.ItemID,
		account.ExternalAccountID,
		sealed,
		account.Name,
		account.Type,
		account.Subtype,
		account.Mask,
		account.InstitutionName,
		account.Balance,
		account.CurrencyCode,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert linked account: %w", err)
	}
	return true, nil
}

func (s *Store) UpdateLinkedAccountCredential(ctx context.Context, id uuid.UUID, accessToken string, balance decimal.Decimal) error {
	sealed, err := s.sealer.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}

	query := `UPDATE linked_accounts SET access_token_sealed = $2, balance = $3, updated_at = NOW() WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, id, sealed, balance); err != nil {
		return fmt.Errorf("update linked account %s: %w", id, err)
	}
	return nil
}

func (s *Store) ListLinkedAccounts(ctx context.Context, userID int64) ([]models.LinkedAccount, error) {
	query := `SELECT ` + linkedAccountColumns + ` FROM linked_accounts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list linked accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.LinkedAccount{}
	for rows.Next() {
		account, err := scanLinkedAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

func (s *Store) MarkAccountSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE linked_accounts SET last_synced_at = $2, updated_at = NOW() WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("mark account %s synced: %w", id, err)
	}
	return nil
}

// FindUserIDByItemID resolves the owner of an aggregator item, for webhooks.
func (s *Store) FindUserIDByItemID(ctx context.Context, itemID string) (int64, bool, error) {
	var userID int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM linked_accounts WHERE item_id = $1 LIMIT 1`, itemID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find item owner: %w", err)
	}
	return userID, true, nil
}
