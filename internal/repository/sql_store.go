package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for the server deployment
	_ "modernc.org/sqlite"             // Pure Go SQLite driver - no CGO required

	"owners-health-api/internal/logging"
)

// SQLStore implements Store on top of sqlx for SQLite and MySQL.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
	log     *logrus.Entry
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and applies
// pending migrations. Use ":memory:" for a throwaway database.
func NewSQLiteStore(dbPath string, logger logrus.FieldLogger) (*SQLStore, error) {
	db, err := sqlx.Open(sqliteDialect.driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer; a single connection also keeps
	// in-memory databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s, err := newSQLStore(db, sqliteDialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.log.WithField("path", dbPath).Info("initialized SQLite store")
	return s, nil
}

// NewMySQLStore connects to MySQL with dsn and applies pending migrations.
// The DSN must set parseTime=true.
func NewMySQLStore(dsn string, logger logrus.FieldLogger) (*SQLStore, error) {
	db, err := sqlx.Open(mysqlDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s, err := newSQLStore(db, mysqlDialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.log.Info("initialized MySQL store")
	return s, nil
}

// Open opens the store selected by kind: "sqlite" uses sqlitePath and
// creates its directory, "mysql" uses mysqlDSN.
func Open(kind, sqlitePath, mysqlDSN string, logger logrus.FieldLogger) (*SQLStore, error) {
	switch kind {
	case mysqlDialect.name:
		return NewMySQLStore(mysqlDSN, logger)
	case sqliteDialect.name, "":
		if sqlitePath != ":memory:" && !strings.HasPrefix(sqlitePath, "file:") {
			if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(sqlitePath, logger)
	}
	return nil, fmt.Errorf("unsupported store type %q", kind)
}

func newSQLStore(db *sqlx.DB, d dialect, logger logrus.FieldLogger) (*SQLStore, error) {
	s := &SQLStore{
		db:      db,
		dialect: d,
		log:     logging.Component(logger, "SQLStore").WithField("dialect", d.name),
	}
	if err := s.migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// migrate applies every migration newer than the recorded schema version.
func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.versionTable); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range s.dialect.migrations {
		if m.version <= current {
			continue
		}
		for _, stmt := range m.stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply migration v%d: %w", m.version, err)
			}
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
		s.log.WithField("version", m.version).Info("applied migration")
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SQLStore) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Dialect returns the SQL engine name.
func (s *SQLStore) Dialect() string {
	return s.dialect.name
}

// Ping checks the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats returns row counts per table and, for SQLite, the database size.
func (s *SQLStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	for _, table := range []string{"entities", "checklists", "linked_items", "todo_events", "history"} {
		var count int64
		if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}

	if s.dialect.name == sqliteDialect.name {
		var pageCount, pageSize int64
		if err := s.db.GetContext(ctx, &pageCount, "PRAGMA page_count"); err == nil {
			if err := s.db.GetContext(ctx, &pageSize, "PRAGMA page_size"); err == nil {
				stats["db_size_bytes"] = pageCount * pageSize
			}
		}
	}

	stats["dialect"] = s.dialect.name
	return stats, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ensure SQLStore implements Store
var _ Store = (*SQLStore)(nil)
