// Package demodata provides sample data for demo deployments.
package demodata

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed sample.sql
var sampleSQL embed.FS

// SQL returns the embedded sample script.
func SQL() (string, error) {
	data, err := sampleSQL.ReadFile("sample.sql")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Load inserts demo data into the database in one transaction.
// This should only be called on a freshly created database after migrations.
func Load(ctx context.Context, db *sqlx.DB) error {
	script, err := SQL()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("load sample data: %w", err)
	}
	return tx.Commit()
}
