package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DSN returns the driver connection string for the database file at path.
// Foreign keys are enabled through the DSN so every pooled connection gets them.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Open connects to the database file at path and enables the pragmas the
// schema depends on.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", DSN(path))
	if err != nil {
		return nil, err
	}

	// WAL mode is only required once after creating the database, but
	// doesn't hurt to set it each time
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}

	if err := VerifyForeignKeys(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// VerifyForeignKeys checks that the SQLite build honours foreign keys. Reviews
// rely on them for referential integrity and cascade deletes.
func VerifyForeignKeys(db *sqlx.DB) error {
	var fkEnabled int
	if err := db.QueryRow(`PRAGMA foreign_keys;`).Scan(&fkEnabled); err != nil {
		return fmt.Errorf("SQLite foreign key support check failed: %w", err)
	}
	if fkEnabled != 1 {
		return errors.New("SQLite foreign keys not supported (requires SQLite 3.6.19+ compiled without SQLITE_OMIT_FOREIGN_KEY)")
	}
	return nil
}
