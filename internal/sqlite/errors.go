package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

func extendedCode(err error) (sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode, true
	}
	return 0, false
}

// IsUniqueConstraintError checks if the error is a SQLite UNIQUE or PRIMARY KEY constraint violation.
func IsUniqueConstraintError(err error) bool {
	code, ok := extendedCode(err)
	return ok && (code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey)
}

// IsForeignKeyConstraintError checks if the error is a SQLite FOREIGN KEY constraint violation,
// i.e. a row referencing a parent that does not exist.
func IsForeignKeyConstraintError(err error) bool {
	code, ok := extendedCode(err)
	return ok && code == sqlite3.ErrConstraintForeignKey
}

// IsNotNullConstraintError checks if the error is a SQLite NOT NULL constraint violation.
func IsNotNullConstraintError(err error) bool {
	code, ok := extendedCode(err)
	return ok && code == sqlite3.ErrConstraintNotNull
}

// IsCheckConstraintError checks if the error is a SQLite CHECK constraint violation.
func IsCheckConstraintError(err error) bool {
	code, ok := extendedCode(err)
	return ok && code == sqlite3.ErrConstraintCheck
}
