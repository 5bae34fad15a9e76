package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Options configures Open.
type Options struct {
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string
	// DSN is a file path (or ":memory:") for SQLite, a connection URL for
	// PostgreSQL.
	DSN string
	// Logger receives structured store logs. Nil discards them.
	Logger *logrus.Logger
}

// SQLStore implements Store on top of sqlx. All multi-statement mutations
// run inside a single transaction opened by withTransaction.
type SQLStore struct {
	db  *sqlx.DB
	log *logrus.Entry
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// WAL mode and foreign keys, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	return Open(Options{Driver: DriverSQLite, DSN: dbPath})
}

// Open connects to the configured database and runs pending migrations.
func Open(opts Options) (*SQLStore, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	db, err := sqlx.Open(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}

	if driver == DriverSQLite {
		// PRAGMAs are per connection and every ":memory:" connection is a
		// separate database, so SQLite is pinned to a single connection.
		db.SetMaxOpenConns(1)

		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	s := newStore(db, opts.Logger)
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.log.WithFields(logrus.Fields{"driver": driver}).Debug("store opened")
	return s, nil
}

// newStore wraps an already-open handle without touching the schema.
func newStore(db *sqlx.DB, logger *logrus.Logger) *SQLStore {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &SQLStore{
		db:  db,
		log: logger.WithField("component", "store"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tooling such as health checks.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// SchemaVersion returns the highest applied migration.
func (s *SQLStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLStore) runMigrations() error {
	if _, err := s.db.Exec(
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var currentVersion int
	if err := s.db.Get(
		&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version",
	); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		s.log.WithField("version", m.version).Info("applied migration")
	}

	return nil
}

// withTransaction runs fn inside one transaction. Any error returned by fn
// rolls back every write fn issued; a nil return commits.
func (s *SQLStore) withTransaction(
	ctx context.Context,
	op string,
	fn func(tx *sqlx.Tx) error,
) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back %s: %w", op, rbErr))
		}
		s.log.WithFields(logrus.Fields{"op": op}).WithError(err).Warn("transaction rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", op, err)
	}
	return nil
}
