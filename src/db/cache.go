package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// Cache holds per-user read results. Keys are tracked per user so a link or
// sync can drop everything cached for that user at once.
//
// Each user has a generation that InvalidateUser bumps. A reader takes the
// generation before it queries the database and hands it to SetForUser, which
// drops the value if an invalidation happened in between.
type Cache struct {
	store *ristretto.Cache[string, any]
	ttl   time.Duration

	mu       sync.Mutex
	userKeys map[int64]map[string]struct{}
	gens     map[int64]uint64
}

func NewCache(ttl time.Duration) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{
		store:    store,
		ttl:      ttl,
		userKeys: make(map[int64]map[string]struct{}),
		gens:     make(map[int64]uint64),
	}, nil
}

func AccountsKey(userID int64) string {
	return fmt.Sprintf("accounts:%d", userID)
}

func TransactionsKey(userID int64, limit, offset int, accountID *uuid.UUID) string {
	account := "all"
	if accountID != nil {
		account = accountID.String()
	}
	return fmt.Sprintf("transactions:%d:%s:%d:%d", userID, account, limit, offset)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Generation(userID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

// SetForUser stores value unless the user was invalidated after gen was read.
// It reports whether the value was stored.
func (c *Cache) SetForUser(userID int64, gen uint64, key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return false
	}

	keys, ok := c.userKeys[userID]
	if !ok {
		keys = make(map[string]struct{})
		c.userKeys[userID] = keys
	}
	keys[key] = struct{}{}

	if c.ttl > 0 {
		c.store.SetWithTTL(key, value, 1, c.ttl)
	} else {
		c.store.Set(key, value, 1)
	}
	c.store.Wait()
	return true
}

func (c *Cache) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	for key := range c.userKeys[userID] {
		c.store.Del(key)
	}
	delete(c.userKeys, userID)
}

func (c *Cache) Close() {
	c.store.Close()
}
