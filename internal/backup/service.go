package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type Service struct {
	db     *sqlx.DB
	dbPath string
}

func NewService(db *sqlx.DB, dbPath string) *Service {
	return &Service{
		db:     db,
		dbPath: dbPath,
	}
}

// BackupResult contains information about a completed backup
type BackupResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// CreateBackup writes a gzip-compressed SQL dump of the database to a
// "backups" directory next to the database file.
func (s *Service) CreateBackup(ctx context.Context) (*BackupResult, error) {
	backupDir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	// VACUUM INTO takes a consistent snapshot without blocking writers for
	// the duration of the dump. It refuses to write over an existing file, so
	// the reserved name is freed again first.
	tmp, err := os.CreateTemp(backupDir, "snapshot-*.db")
	if err != nil {
		return nil, fmt.Errorf("reserve snapshot file: %w", err)
	}
	tempPath := tmp.Name()
	tmp.Close()
	os.Remove(tempPath)
	defer os.Remove(tempPath)

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, tempPath); err != nil {
		return nil, fmt.Errorf("vacuum into temp: %w", err)
	}

	snapshot, err := sqlx.Open("sqlite3", "file:"+tempPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snapshot.Close()

	file, err := createDumpFile(backupDir, time.Now())
	if err != nil {
		return nil, err
	}
	defer file.Close()
	backupPath := file.Name()
	filename := filepath.Base(backupPath)

	gz := gzip.NewWriter(file)
	if err := Dump(ctx, snapshot, gz); err != nil {
		gz.Close()
		os.Remove(backupPath)
		return nil, fmt.Errorf("generate dump: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	return &BackupResult{
		Filename: filename,
		Path:     backupPath,
		Size:     info.Size(),
	}, nil
}

// createDumpFile creates a new dump file named after now. Backups started in
// the same second get a numeric suffix instead of overwriting each other.
func createDumpFile(dir string, now time.Time) (*os.File, error) {
	stamp := now.Format("2006-01-02_15.04.05")
	for n := 1; ; n++ {
		name := stamp + "_reviewdump.sql.gz"
		if n > 1 {
			name = fmt.Sprintf("%s_%d_reviewdump.sql.gz", stamp, n)
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create backup file: %w", err)
		}
		return f, nil
	}
}

// Dump writes the schema and every row of db as SQL statements. Tables are
// emitted parents first so the script also loads with foreign keys on.
func Dump(ctx context.Context, db *sqlx.DB, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "-- Reviewserver Database Backup")
	fmt.Fprintf(bw, "-- Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintln(bw, "BEGIN TRANSACTION;")
	fmt.Fprintln(bw)

	schemas, err := getSchemas(ctx, db)
	if err != nil {
		return err
	}
	for _, schema := range schemas {
		fmt.Fprintf(bw, "%s;\n", schema.SQL)
	}
	fmt.Fprintln(bw)

	tables, err := getUserTables(ctx, db)
	if err != nil {
		return err
	}
	tables, err = parentsFirst(ctx, db, tables)
	if err != nil {
		return err
	}

	for _, table := range tables {
		if err := writeInserts(ctx, db, bw, table); err != nil {
			return fmt.Errorf("generate inserts for %s: %w", table, err)
		}
	}

	fmt.Fprintln(bw, "COMMIT;")
	return bw.Flush()
}

type schemaObject struct {
	Type string `db:"type"`
	Name string `db:"name"`
	SQL  string `db:"sql"`
}

func getSchemas(ctx context.Context, db *sqlx.DB) ([]schemaObject, error) {
	var schemas []schemaObject
	query := `
		SELECT type, name, sql
		FROM sqlite_master
		WHERE sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY
			CASE type
				WHEN 'table' THEN 1
				WHEN 'index' THEN 2
				WHEN 'trigger' THEN 3
				WHEN 'view' THEN 4
			END,
			name
	`
	if err := db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	return schemas, nil
}

func getUserTables(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var tables []string
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	if err := db.SelectContext(ctx, &tables, query); err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	return tables, nil
}

// parentsFirst orders tables so that every table follows the tables its
// foreign keys reference. Ties keep name order.
func parentsFirst(ctx context.Context, db *sqlx.DB, tables []string) ([]string, error) {
	parents := make(map[string][]string, len(tables))
	for _, table := range tables {
		var refs []string
		if err := db.SelectContext(ctx, &refs,
			`SELECT DISTINCT "table" FROM pragma_foreign_key_list(?)`, table); err != nil {
			return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
		}
		sort.Strings(refs)
		parents[table] = refs
	}

	var out []string
	done := make(map[string]bool, len(tables))
	var visit func(string)
	visit = func(table string) {
		if done[table] {
			return
		}
		done[table] = true
		for _, p := range parents[table] {
			if p != table {
				visit(p)
			}
		}
		out = append(out, table)
	}
	for _, table := range tables {
		visit(table)
	}
	return out, nil
}

func writeInserts(ctx context.Context, db *sqlx.DB, w io.Writer, table string) error {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}
	cols := strings.Join(quoteColumns(columns), ", ")

	wrote := false
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return fmt.Errorf("scan row: %w", err)
		}

		values := make([]string, len(row))
		for i, v := range row {
			values[i] = formatValue(v)
		}

		fmt.Fprintf(w, "INSERT INTO %q (%s) VALUES (%s);\n", table, cols, strings.Join(values, ", "))
		wrote = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	if wrote {
		fmt.Fprintln(w)
	}
	return nil
}

func quoteColumns(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return quoted
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		return fmt.Sprintf("'%s'", escapeString(string(val)))
	case string:
		return fmt.Sprintf("'%s'", escapeString(val))
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return fmt.Sprintf("'%s'", val.Format(time.RFC3339))
	default:
		return fmt.Sprintf("'%s'", escapeString(fmt.Sprintf("%v", val)))
	}
}

func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
