// Package store is the relational collaborator: tables created by the
// ingestion path carry the inferred name with every column typed TEXT, and
// the query layer executes read-only statements against them. Postgres is the
// primary backend (pgx through database/sql); SQLite (modernc) serves local
// and test runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Config selects a backend and its DSN.
type Config struct {
	Driver string // "pgx" (postgres) or "sqlite"
	DSN    string
}

// DB wraps a database/sql handle with the dialect knowledge the pipeline needs.
type DB struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
}

// Open connects and pings the configured backend.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	logger.Info("store.open", "driver", driver)
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &DB{db: db, driver: driver, log: logger}, nil
}

func driverName(d string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "pgx", "postgres", "postgresql":
		return "pgx", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported store driver: %q", d)
	}
}

// NewWithDB wraps an existing handle; tests use it with a mocked connection.
func NewWithDB(db *sql.DB, driver string, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{db: db, driver: driver, log: logger}
}

// Close closes the underlying handle.
func (s *DB) Close() error { return s.db.Close() }

// Execute runs a single statement and materializes the full result set with
// every value stringified. Statements without a result set return empty
// columns and rows. Driver errors are returned verbatim.
func (s *DB) Execute(ctx context.Context, query string) ([]string, [][]string, error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = asString(*(v.(*any)))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}

// asString converts a driver value to its canonical string form. Backends
// must not assume a particular underlying type for values.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprint(v)
	}
}

// TableExists reports whether a table with this exact name exists.
func (s *DB) TableExists(ctx context.Context, name string) (bool, error) {
	var q string
	switch s.driver {
	case "sqlite":
		q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	default:
		q = `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&n); err != nil {
		return false, fmt.Errorf("table exists %s: %w", name, err)
	}
	return n > 0, nil
}

// CreateTable creates a table with every column typed TEXT. No type inference
// or coercion happens at creation time.
func (s *DB) CreateTable(ctx context.Context, name string, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("create table %s: no columns", name)
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	s.log.Info("store.create_table", "table", name, "columns", len(columns))
	return nil
}

// InsertRows appends rows to an existing table inside one transaction.
func (s *DB) InsertRows(ctx context.Context, name string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert into %s: begin: %w", name, err)
	}

	width := len(rows[0])
	stmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), s.placeholders(width))
	for _, row := range rows {
		args := make([]any, width)
		for i := range args {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert into %s: commit: %w", name, err)
	}
	s.log.Info("store.insert_rows", "table", name, "rows", len(rows))
	return nil
}

func (s *DB) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		if s.driver == "sqlite" {
			ps[i] = "?"
		} else {
			ps[i] = fmt.Sprintf("$%d", i+1)
		}
	}
	return strings.Join(ps, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// InferTableName derives the persisted table name from a file path: base name
// without extension, lowercased, spaces and hyphens replaced with underscores.
func InferTableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.ReplaceAll(base, "-", "_")
	return base
}
