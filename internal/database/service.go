package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	dberrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
)

// SQLiteService implements the Service interface for SQLite
//
// Lifecycle:
// 1. Create with NewSQLiteService()
// 2. Connect() to open the database
// 3. Migrate() to bring the schema up to date
// 4. DB() for repository use
// 5. Close() to release the connection
type SQLiteService struct {
	db              *sql.DB
	config          *Config
	migrationRunner MigrationManager
	logger          logging.Logger
}

// NewSQLiteService creates a new SQLite database service
func NewSQLiteService(logger logging.Logger) *SQLiteService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteService{logger: logger}
}

// Connect establishes a connection to the SQLite database
func (s *SQLiteService) Connect(ctx context.Context, config *Config) error {
	s.config = config

	// Close any existing connection to prevent resource leaks
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close existing database connection", "error", err)
		}
		s.db = nil
		s.migrationRunner = nil
	}

	db, err := sql.Open("sqlite3", config.GetConnectionString())
	if err != nil {
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to open database: %v", err))
	}

	s.configureConnectionPool(db, config)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return dberrors.HandleConnectionError("Connect", fmt.Sprintf("failed to ping database: %v", err))
	}

	s.db = db
	s.migrationRunner = NewMigrationRunner(db, s.logger)

	s.logger.Info("Connected to SQLite database", "path", config.Path)
	return nil
}

// Close closes the database connection
func (s *SQLiteService) Close() error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return dberrors.HandleConnectionError("Close", fmt.Sprintf("failed to close database: %v", err))
	}

	s.db = nil
	s.migrationRunner = nil

	s.logger.Info("Closed SQLite database connection")
	return nil
}

// Migrate runs database migrations using the migration runner
func (s *SQLiteService) Migrate(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Migrate", "database not connected")
	}
	if s.migrationRunner == nil {
		return dberrors.HandleConnectionError("Migrate", "migration runner not initialized")
	}

	if err := s.migrationRunner.ValidateMigrations(); err != nil {
		return dberrors.WrapStorageErrorWithContext("Migrate", err, map[string]string{
			"phase": "validation",
		})
	}

	if err := s.migrationRunner.RunMigrations(ctx); err != nil {
		return dberrors.WrapStorageErrorWithContext("Migrate", err, map[string]string{
			"phase": "execution",
		})
	}

	return nil
}

// Health checks the database connection health
func (s *SQLiteService) Health(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Health", "database not connected")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return dberrors.WrapStorageErrorWithContext("Health", err, map[string]string{
			"phase": "ping",
		})
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return dberrors.WrapStorageErrorWithContext("Health", err, map[string]string{
			"phase": "query",
		})
	}
	if result != 1 {
		return dberrors.HandleConnectionError("Health", fmt.Sprintf("unexpected probe result %d", result))
	}

	return nil
}

// DB returns the underlying database connection for repository use
func (s *SQLiteService) DB() *sql.DB {
	return s.db
}

// GetMigrationVersion returns the current migration version
func (s *SQLiteService) GetMigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, dberrors.HandleConnectionError("GetMigrationVersion", "database not connected")
	}
	if s.migrationRunner == nil {
		return 0, dberrors.HandleConnectionError("GetMigrationVersion", "migration runner not initialized")
	}

	version, err := s.migrationRunner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, dberrors.WrapStorageError("GetMigrationVersion", err)
	}
	return version, nil
}

// GetStats returns connection pool statistics for monitoring
func (s *SQLiteService) GetStats() sql.DBStats {
	if s.db == nil {
		return sql.DBStats{}
	}
	return s.db.Stats()
}

// Optimize runs ANALYZE and VACUUM to keep the session store compact
func (s *SQLiteService) Optimize(ctx context.Context) error {
	if s.db == nil {
		return dberrors.HandleConnectionError("Optimize", "database not connected")
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return dberrors.WrapStorageErrorWithContext("Optimize", err, map[string]string{
			"phase": "analyze",
		})
	}

	// Best-effort WAL checkpoint to trim the .wal file (no-op on non-WAL)
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("wal_checkpoint failed", "error", err)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return dberrors.WrapStorageErrorWithContext("Optimize", err, map[string]string{
			"phase": "vacuum",
		})
	}

	s.logger.Info("Database optimization completed")
	return nil
}

// configureConnectionPool sets up pool settings appropriate for SQLite.
// Without WAL a single connection avoids locking issues; with WAL a small
// pool of readers is safe.
func (s *SQLiteService) configureConnectionPool(db *sql.DB, config *Config) {
	if config.ForceSingleConnection || !strings.EqualFold(config.JournalMode, "WAL") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.logger.Info("Configured SQLite for single connection mode",
			"journalMode", config.JournalMode, "forced", config.ForceSingleConnection)
	} else {
		maxConns := config.MaxConnections
		if maxConns <= 0 {
			maxConns = 4
		}
		if maxConns > 4 {
			maxConns = 4 // keep the pool conservative even with WAL
		}

		idleConns := min(config.MaxIdleConns, maxConns)
		if idleConns <= 0 {
			idleConns = 1
		}

		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(idleConns)
		s.logger.Info("Configured SQLite connection pool (WAL mode)",
			"maxOpenConns", maxConns, "maxIdleConns", idleConns)
	}

	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
}
