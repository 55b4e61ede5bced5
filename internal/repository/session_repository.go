package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/database"
	repoerrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// SQLiteRepository implements the SessionRepository interface using SQLite
type SQLiteRepository struct {
	db          dbtx
	retryConfig *repoerrors.RetryConfig
	logger      logging.Logger
}

// dbtx is the subset of *sql.DB and *sql.Tx the repository needs, so a
// transactional repository can run the same statements inside a Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteRepository creates a new SQLite session repository
func NewSQLiteRepository(dbService database.Service, logger logging.Logger) *SQLiteRepository {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		retryConfig: repoerrors.DefaultRetryConfig(),
		logger:      logger,
	}
}

// NewSQLiteRepositoryWithConfig creates a repository with a custom retry configuration
func NewSQLiteRepositoryWithConfig(dbService database.Service, retryConfig *repoerrors.RetryConfig, logger logging.Logger) *SQLiteRepository {
	if retryConfig == nil {
		retryConfig = repoerrors.DefaultRetryConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// sessionRow mirrors a work_sessions table row before JSON decoding
type sessionRow struct {
	id           string
	userID       string
	date         time.Time
	clockIn      time.Time
	clockOut     sql.NullTime
	title        string
	categoryID   string
	breakMinutes int
	breaksJSON   string
	segmentsJSON string
	notes        string
}

const sessionColumns = `id, user_id, date, clock_in, clock_out, title, category_id, break_minutes, breaks, segments, notes`

// toSession decodes a scanned row into the domain type
func (r *SQLiteRepository) toSession(row sessionRow) (*types.WorkSession, error) {
	session := &types.WorkSession{
		ID:           row.id,
		UserID:       row.userID,
		Date:         row.date,
		ClockIn:      row.clockIn,
		Title:        row.title,
		CategoryID:   row.categoryID,
		BreakMinutes: row.breakMinutes,
		Notes:        row.notes,
	}

	if row.clockOut.Valid {
		out := row.clockOut.Time
		session.ClockOut = &out
	}

	if err := json.Unmarshal([]byte(row.breaksJSON), &session.Breaks); err != nil {
		return nil, repoerrors.NewTrackerErrorWithContext("toSession", err, repoerrors.ErrCodeCorruption, map[string]string{
			"session_id": row.id,
			"column":     "breaks",
		})
	}
	if err := json.Unmarshal([]byte(row.segmentsJSON), &session.Segments); err != nil {
		return nil, repoerrors.NewTrackerErrorWithContext("toSession", err, repoerrors.ErrCodeCorruption, map[string]string{
			"session_id": row.id,
			"column":     "segments",
		})
	}

	return session, nil
}

// ledgerJSON encodes the break and segment ledgers for storage. Nil slices
// encode as empty arrays so reads never produce nil ledgers.
func ledgerJSON(session *types.WorkSession) (breaks, segments string, err error) {
	b := session.Breaks
	if b == nil {
		b = []types.BreakPeriod{}
	}
	g := session.Segments
	if g == nil {
		g = []types.TaskSegment{}
	}

	breaksBytes, err := json.Marshal(b)
	if err != nil {
		return "", "", fmt.Errorf("marshal breaks: %w", err)
	}
	segmentsBytes, err := json.Marshal(g)
	if err != nil {
		return "", "", fmt.Errorf("marshal segments: %w", err)
	}
	return string(breaksBytes), string(segmentsBytes), nil
}

// scanSession scans a single row with the standard column set
func scanSession(scanner interface{ Scan(dest ...any) error }) (sessionRow, error) {
	var row sessionRow
	err := scanner.Scan(
		&row.id, &row.userID, &row.date, &row.clockIn, &row.clockOut,
		&row.title, &row.categoryID, &row.breakMinutes,
		&row.breaksJSON, &row.segmentsJSON, &row.notes,
	)
	return row, err
}
