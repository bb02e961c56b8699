package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/sniplink/internal/domain"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // remote libSQL / Turso
	_ "modernc.org/sqlite"                               // local SQLite
)

const (
	driverSQLite = "sqlite"
	driverLibSQL = "libsql"
)

var _ domain.LinkRepository = (*Store)(nil)

// Store persists links, clicks and tags in SQLite or a remote libSQL database.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to dbURL, picking the driver from its scheme, and applies the schema.
//
//	file:/data/sniplink.db                      local file
//	file:test?mode=memory&cache=shared          in-memory
//	libsql://db-org.turso.io?authToken=...      remote
func Open(ctx context.Context, dbURL string) (*Store, error) {
	driver := driverFor(dbURL)
	dsn := dbURL
	if driver == driverSQLite {
		dsn = withPragmas(dbURL)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == driverSQLite {
		// SQLite serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

func driverFor(dbURL string) string {
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") ||
		strings.HasPrefix(dbURL, "https://") || strings.HasPrefix(dbURL, "http://") {
		return driverLibSQL
	}
	return driverSQLite
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string { return s.driver }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		code       TEXT UNIQUE NOT NULL,
		long_url   TEXT NOT NULL,
		title      TEXT,
		created_at TEXT NOT NULL,
		expires_at TEXT,
		clicks     INTEGER NOT NULL DEFAULT 0,
		is_active  INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS clicks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		link_id    INTEGER NOT NULL REFERENCES links(id),
		clicked_at TEXT NOT NULL,
		referrer   TEXT,
		user_agent TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS link_tags (
		link_id INTEGER NOT NULL REFERENCES links(id),
		tag_id  INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (link_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_code ON links(code)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_link ON clicks(link_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_at ON clicks(clicked_at)`,
}

// migrate runs one statement per Exec; the libSQL driver rejects multi-statement strings.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
