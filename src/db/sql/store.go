package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sealer encrypts access credentials before they reach the database.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Store is the Postgres-backed account and transaction store.
type Store struct {
	pool   *pgxpool.Pool
	sealer Sealer
}

func NewStore(pool *pgxpool.Pool, sealer Sealer) *Store {
	return &Store{pool: pool, sealer: sealer}
}

type scanner interface {
	Scan(dest ...any) error
}
