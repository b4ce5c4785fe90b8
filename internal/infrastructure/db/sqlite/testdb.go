package sqlite

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory database with the schema applied.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// NewTestStore wraps NewTestDB in a Store.
func NewTestStore(t testing.TB) *Store {
	t.Helper()
	return NewStore(NewTestDB(t))
}
