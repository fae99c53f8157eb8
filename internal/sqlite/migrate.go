package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GuiaBolso/darwin"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ApplicationID is the SQLite application_id for reviewserver databases.
// "REVS" in ASCII: R=0x52, E=0x45, V=0x56, S=0x53
const ApplicationID = 0x52455653

// ErrInvalidDatabase is returned when the database is not a valid reviewserver database.
var ErrInvalidDatabase = errors.New("not a valid 'reviewserver' database")

// defineMigrations returns a slice of database migrations
// Each migration is defined in a separate row (versioned by major db release)
// comments must only appear after sql on a line and cannot span lines (comments are stripped before checksum calc)
// *NEVER* change/remove a step once released! (because a checksum of the script is saved with the migration)
func defineMigrations() []darwin.Migration {
	m := []darwin.Migration{

		// Each database change release is given a major version number (1.xx, 2.xx) with minor numbers (x.01, x.02)
		// representing the actual migration steps within that release. Version numbers must be ascending.

		// 0x52455653 = "REVS" in ASCII
		{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x52455653;`},

		{Version: 1.01, Description: "Create Table 'customers'", Script: `
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL
		);`},

		{Version: 1.02, Description: "Create Table 'items'", Script: `
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL,
			price REAL NOT NULL DEFAULT 0 CHECK (price >= 0)
		);`},

		// foreign keys follow fk_<table>_<column>_<referred table>
		{Version: 1.03, Description: "Create Table 'reviews'", Script: `
		CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			comment TEXT NOT NULL DEFAULT '',
			customer_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			CONSTRAINT fk_reviews_customer_id_customers FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE,
			CONSTRAINT fk_reviews_item_id_items FOREIGN KEY (item_id) REFERENCES items (id) ON DELETE CASCADE
		);`},

		{Version: 1.04, Description: "Create Index 'idx_reviews_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_reviews_customer_id ON reviews (customer_id ASC);`},

		{Version: 1.05, Description: "Create Index 'idx_reviews_item_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_reviews_item_id ON reviews (item_id ASC);`},
	}
	return m
}

// versionFields describes a migration run from v1 to v2 as log fields.
func versionFields(v1, v2 float64) []zap.Field {
	fields := []zap.Field{zap.String("db_version", fmt.Sprintf("%.2f", v2))}
	if v1 != v2 {
		fields = append(fields, zap.String("migrated_from", fmt.Sprintf("%.2f", v1)))
	}
	return fields
}

type appliedVersion struct {
	Steps   int             `db:"steps"`
	Version sql.NullFloat64 `db:"version"`
}

// currentVersion reports how many migration steps are recorded and the
// highest version among them. A database darwin has never touched reports 0, 0.
func currentVersion(ctx context.Context, db *sqlx.DB) (int, float64, error) {
	var tables int
	if err := db.GetContext(ctx, &tables,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'darwin_migrations'`); err != nil {
		return 0, 0, fmt.Errorf("look up migration table: %w", err)
	}
	if tables == 0 {
		return 0, 0, nil
	}

	var v appliedVersion
	if err := db.GetContext(ctx, &v,
		`SELECT COUNT(*) AS steps, MAX(version) AS version FROM darwin_migrations`); err != nil {
		return 0, 0, fmt.Errorf("read migration version: %w", err)
	}
	return v.Steps, v.Version.Float64, nil
}

// minifiedMigrations returns the migrations with normalized scripts so that
// formatting or comment edits keep the stored checksum.
func minifiedMigrations() []darwin.Migration {
	migrations := defineMigrations()
	for i := range migrations {
		migrations[i].Script = minify(migrations[i].Script)
	}
	return migrations
}

// minify lowercases script, strips -- and /* comments to end of line and
// collapses all whitespace runs to one space.
func minify(script string) string {
	lines := strings.Split(strings.ToLower(script), "\n")
	for i, line := range lines {
		if j := strings.Index(line, "--"); j != -1 {
			line = line[:j]
		}
		if j := strings.Index(line, "/*"); j != -1 {
			line = line[:j]
		}
		lines[i] = line
	}
	return strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
}

// logSteps logs every migration step darwin reported on ch.
func logSteps(log *zap.Logger, ch <-chan darwin.MigrationInfo) {
	for info := range ch {
		fields := []zap.Field{
			zap.String("version", fmt.Sprintf("%.2f", info.Migration.Version)),
			zap.String("description", info.Migration.Description),
			zap.String("status", info.Status.String()),
		}
		if info.Error != nil {
			log.Error("Migration step failed", append(fields, zap.Error(info.Error))...)
			continue
		}
		log.Debug("Migration step", fields...)
	}
}

// Schema returns the sqlite definitions as a string for display
func Schema() string {
	var b strings.Builder

	for _, m := range defineMigrations() {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// VerifyApplicationID rejects databases owned by another application.
// An empty database (application_id 0 and no tables) is accepted.
func VerifyApplicationID(db *sqlx.DB) error {
	var appID int
	if err := db.Get(&appID, "PRAGMA application_id"); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	switch {
	case appID == ApplicationID:
		return nil
	case appID != 0:
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tables int
	err := db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tables > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations brings db up to the latest schema version.
func RunMigrations(db *sqlx.DB, log *zap.Logger) error {
	if err := VerifyApplicationID(db); err != nil {
		return err
	}

	ctx := context.Background()
	steps, v1, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	migrations := minifiedMigrations()
	if steps == len(migrations) && v1 == migrations[steps-1].Version {
		log.Info("Database is current, no migrations needed", versionFields(v1, v1)...)
		return nil
	}

	driver := darwin.NewGenericDriver(db.DB, darwin.SqliteDialect{})
	infoChan := make(chan darwin.MigrationInfo, len(migrations))
	migrateErr := darwin.New(driver, migrations, infoChan).Migrate()
	close(infoChan)
	logSteps(log, infoChan)

	_, v2, err := currentVersion(ctx, db)
	if migrateErr != nil {
		log.Error("Migration failed", append(versionFields(v1, v2), zap.Error(migrateErr))...)
		return fmt.Errorf("migration error: %w", migrateErr)
	}
	if err != nil {
		return err
	}

	log.Info("Database migrated", versionFields(v1, v2)...)
	return nil
}
