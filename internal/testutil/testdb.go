package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"winsbygroup.com/reviewserver/internal/sqlite"
)

func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

func NewTestDBAt(t *testing.T, dbPath string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", sqlite.DSN(dbPath))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	// DELETE mode for tests
	if _, err := db.Exec(`PRAGMA journal_mode=DELETE;`); err != nil {
		t.Fatalf("set journal mode: %v", err)
	}

	if err := sqlite.VerifyForeignKeys(db); err != nil {
		t.Fatal(err)
	}

	if err := sqlite.RunMigrations(db, zap.NewNop()); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// Exec runs raw SQL fixtures against db.
func Exec(t *testing.T, db *sqlx.DB, sql string) {
	t.Helper()
	if _, err := db.Exec(sql); err != nil {
		t.Fatalf("insert test data: %v", err)
	}
}

// Count returns the single integer produced by query.
func Count(t *testing.T, db *sqlx.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.Get(&n, query, args...); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
