package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_InvalidateUser(t *testing.T) {
	c, err := NewCache(time.Minute)
	require.NoError(t, err)
	defer c.Close()

	c.SetForUser(1, c.Generation(1), AccountsKey(1), []string{"checking"})
	c.SetForUser(1, c.Generation(1), TransactionsKey(1, 50, 0, nil), 2)
	c.SetForUser(2, c.Generation(2), AccountsKey(2), []string{"savings"})

	v, ok := c.Get(AccountsKey(1))
	require.True(t, ok)
	assert.Equal(t, []string{"checking"}, v)

	c.InvalidateUser(1)

	_, ok = c.Get(AccountsKey(1))
	assert.False(t, ok)
	_, ok = c.Get(TransactionsKey(1, 50, 0, nil))
	assert.False(t, ok)

	_, ok = c.Get(AccountsKey(2))
	assert.True(t, ok)
}

func TestCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c, err := NewCache(time.Minute)
	require.NoError(t, err)
	defer c.Close()

	gen := c.Generation(1)
	// a link lands while the read is still in flight
	c.InvalidateUser(1)

	assert.False(t, c.SetForUser(1, gen, AccountsKey(1), []string{"old"}))
	_, ok := c.Get(AccountsKey(1))
	assert.False(t, ok)

	assert.True(t, c.SetForUser(1, c.Generation(1), AccountsKey(1), []string{"new"}))
	v, ok := c.Get(AccountsKey(1))
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, v)

	// other users keep their generation
	assert.True(t, c.SetForUser(2, gen, AccountsKey(2), []string{"savings"}))
}

func TestTransactionsKey(t *testing.T) {
	id := uuid.MustParse("6f1c3c1e-1b51-4a2e-9a34-2d0f7f3a9b10")

	assert.Equal(t, "transactions:7:all:50:0", TransactionsKey(7, 50, 0, nil))
	assert.Equal(t, "transactions:7:6f1c3c1e-1b51-4a2e-9a34-2d0f7f3a9b10:10:20", TransactionsKey(7, 10, 20, &id))
}
