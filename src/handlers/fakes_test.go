package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/worker"
)

func authedRequest(method, target, body string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUser(req.Context(), userID, false))
}

type mapCache struct {
	mu          sync.Mutex
	items       map[string]any
	gens        map[int64]uint64
	invalidated []int64
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]any), gens: make(map[int64]uint64)}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Generation(userID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

func (c *mapCache) SetForUser(userID int64, gen uint64, key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return false
	}
	c.items[key] = value
	return true
}

func (c *mapCache) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]any)
	c.gens[userID]++
	c.invalidated = append(c.invalidated, userID)
}

type stubSessions struct {
	session models.LinkSession
	err     error
	got     linking.LinkSessionRequest
}

func (s *stubSessions) CreateLinkSession(_ context.Context, callerID int64, req linking.LinkSessionRequest) (models.LinkSession, error) {
	s.got = req
	if s.err != nil {
		return models.LinkSession{}, s.err
	}
	if callerID != req.UserID {
		return models.LinkSession{}, linking.ErrUnauthorized
	}
	return s.session, nil
}

type stubLinker struct {
	result *linking.LinkResult
	err    error
}

func (s *stubLinker) LinkAccounts(_ context.Context, callerID, userID int64, _ string) (*linking.LinkResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if callerID != userID {
		return nil, linking.ErrUnauthorized
	}
	return s.result, nil
}

type stubSyncer struct {
	mu     sync.Mutex
	result *linking.SyncResult
	err    error
	calls  []int64
}

func (s *stubSyncer) SyncTransactions(_ context.Context, userID int64) (*linking.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, userID)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubAccounts struct {
	accounts []models.LinkedAccount
	err      error
	calls    int
	// runs while the list is in flight
	during func()
}

func (s *stubAccounts) ListLinkedAccounts(_ context.Context, _ int64) ([]models.LinkedAccount, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	return s.accounts, s.err
}

type stubTransactions struct {
	transactions []models.TransactionWithAccount
	total        int
	err          error
	calls        int
	lastFilter   db.TransactionFilter
}

func (s *stubTransactions) ListTransactions(_ context.Context, _ int64, filter db.TransactionFilter) ([]models.TransactionWithAccount, int, error) {
	s.calls++
	s.lastFilter = filter
	return s.transactions, s.total, s.err
}

type stubOwners struct {
	owners map[string]int64
	err    error
}

func (s *stubOwners) FindUserIDByItemID(_ context.Context, itemID string) (int64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	id, ok := s.owners[itemID]
	return id, ok, nil
}

type stubJobs struct {
	jobs []worker.Job
	err  error
}

func (s *stubJobs) Submit(job worker.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type stubVerifier struct {
	err error
}

func (s stubVerifier) Verify(context.Context, []byte, http.Header) error {
	return s.err
}

var errBadSignature = errors.New("signature mismatch")

type memUsers struct {
	byEmail map[string]*models.User
	nextID  int64
	logins  []int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*models.User), nextID: 1}
}

func (m *memUsers) CreateUser(_ context.Context, req models.RegisterRequest, hashedPassword []byte) (*models.RegisterResponse, error) {
	if _, ok := m.byEmail[req.Email]; ok {
		return nil, db.ErrEmailTaken
	}
	user := &models.User{ID: m.nextID, Name: req.Name, Email: req.Email, PasswordHash: hashedPassword}
	m.nextID++
	m.byEmail[req.Email] = user
	return &models.RegisterResponse{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (m *memUsers) UpdateLastLogin(_ context.Context, userID int64) error {
	m.logins = append(m.logins, userID)
	return nil
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
