package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/ecotrack/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	u, err := NewUserStore(db).Create(username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func strPtr(s string) *string { return &s }
