package linking_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

// memStore is an in-memory AccountStore and TransactionStore with the same
// insert-if-absent and sealed-credential semantics as the Postgres store.
type memStore struct {
	mu           sync.Mutex
	accounts     []models.LinkedAccount
	transactions map[string]models.Transaction

	// number of upcoming DeletePendingTransaction calls that fail
	deleteErrs int
}

func seal(token string) string {
	return "sealed:" + token
}

func newMemStore() *memStore {
	return &memStore{transactions: make(map[string]models.Transaction)}
}

func (s *memStore) FindLinkedAccount(_ context.Context, userID int64, externalAccountID string) (*models.LinkedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].UserID == userID && s.accounts[i].ExternalAccountID == externalAccountID {
			a := s.accounts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertLinkedAccount(_ context.Context, account *models.LinkedAccount) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.UserID == account.UserID && a.ExternalAccountID == account.ExternalAccountID {
			return false, nil
		}
	}
	stored := *account
	stored.SealedToken = seal(account.AccessToken)
	stored.AccessToken = ""
	s.accounts = append(s.accounts, stored)
	return true, nil
}

func (s *memStore) UpdateLinkedAccountCredential(_ context.Context, id uuid.UUID, accessToken string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].SealedToken = seal(accessToken)
			s.accounts[i].Balance = balance
		}
	}
	return nil
}

func (s *memStore) ListLinkedAccounts(_ context.Context, userID int64) ([]models.LinkedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LinkedAccount
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) MarkAccountSynced(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			t := at
			s.accounts[i].LastSyncedAt = &t
		}
	}
	return nil
}

func (s *memStore) OpenCredential(account *models.LinkedAccount) (string, error) {
	if !strings.HasPrefix(account.SealedToken, "sealed:") {
		return "", errors.New("message authentication failed")
	}
	return strings.TrimPrefix(account.SealedToken, "sealed:"), nil
}

func (s *memStore) FindTransactionByExternalID(_ context.Context, externalTransactionID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[externalTransactionID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *memStore) InsertTransaction(_ context.Context, txn *models.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[txn.ExternalTransactionID]; ok {
		return false, nil
	}
	s.transactions[txn.ExternalTransactionID] = *txn
	return true, nil
}

func (s *memStore) DeletePendingTransaction(_ context.Context, externalTransactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErrs > 0 {
		s.deleteErrs--
		return false, errors.New("connection reset")
	}
	t, ok := s.transactions[externalTransactionID]
	if !ok || !t.Pending {
		return false, nil
	}
	delete(s.transactions, externalTransactionID)
	return true, nil
}

func (s *memStore) accountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *memStore) addAccount(userID int64, externalID, name, token string) models.LinkedAccount {
	a := models.LinkedAccount{
		ID:                uuid.New(),
		UserID:            userID,
		ItemID:            "item-" + externalID,
		ExternalAccountID: externalID,
		SealedToken:       seal(token),
		Name:              name,
		CurrencyCode:      "USD",
	}
	s.mu.Lock()
	s.accounts = append(s.accounts, a)
	s.mu.Unlock()
	return a
}

func (s *memStore) corruptCredential(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].SealedToken = "garbage"
		}
	}
}

func (s *memStore) failNextDeletes(n int) {
	s.mu.Lock()
	s.deleteErrs = n
	s.mu.Unlock()
}
