package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repoerrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// CreateSession persists a new work session with retry on transient failures
func (r *SQLiteRepository) CreateSession(ctx context.Context, session *types.WorkSession) error {
	start := time.Now()

	if session == nil {
		err := repoerrors.NewValidation("CreateSession", "session", "session is nil")
		logging.LogError(r.logger, err, "CreateSession", nil)
		return err
	}
	if session.ID == "" {
		err := repoerrors.NewValidation("CreateSession", "id", "session id is empty")
		logging.LogError(r.logger, err, "CreateSession", nil)
		return err
	}

	breaksJSON, segmentsJSON, err := ledgerJSON(session)
	if err != nil {
		return repoerrors.NewTrackerError("CreateSession", err, repoerrors.ErrCodeInternal)
	}

	err = repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		_, execErr := r.db.ExecContext(ctx, `
			INSERT INTO work_sessions
				(id, user_id, date, clock_in, clock_out, title, category_id, break_minutes, breaks, segments, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID, session.UserID, session.Date, session.ClockIn, session.ClockOut,
			session.Title, session.CategoryID, session.BreakMinutes,
			breaksJSON, segmentsJSON, session.Notes,
		)
		if execErr != nil {
			repoErr := repoerrors.NewTrackerErrorWithContext("CreateSession", execErr,
				repoerrors.ClassifyError(execErr), map[string]string{
					"session_id": session.ID,
					"user_id":    session.UserID,
				})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in CreateSession", "error", execErr, "session_id", session.ID)
			} else {
				logging.LogError(r.logger, repoErr, "CreateSession", map[string]any{
					"session_id": session.ID,
				})
			}
			return repoErr
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "CreateSession", time.Since(start), map[string]any{
			"session_id": session.ID,
		})
	}
	return err
}

// UpdateSession rewrites the full session row. The engine always commits a
// complete snapshot, which keeps ledger updates atomic.
func (r *SQLiteRepository) UpdateSession(ctx context.Context, session *types.WorkSession) error {
	start := time.Now()

	if session == nil {
		err := repoerrors.NewValidation("UpdateSession", "session", "session is nil")
		logging.LogError(r.logger, err, "UpdateSession", nil)
		return err
	}

	breaksJSON, segmentsJSON, err := ledgerJSON(session)
	if err != nil {
		return repoerrors.NewTrackerError("UpdateSession", err, repoerrors.ErrCodeInternal)
	}

	err = repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		result, execErr := r.db.ExecContext(ctx, `
			UPDATE work_sessions
			SET date = ?, clock_in = ?, clock_out = ?, title = ?, category_id = ?,
			    break_minutes = ?, breaks = ?, segments = ?, notes = ?,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			session.Date, session.ClockIn, session.ClockOut, session.Title, session.CategoryID,
			session.BreakMinutes, breaksJSON, segmentsJSON, session.Notes,
			session.ID,
		)
		if execErr != nil {
			repoErr := repoerrors.NewTrackerErrorWithContext("UpdateSession", execErr,
				repoerrors.ClassifyError(execErr), map[string]string{
					"session_id": session.ID,
				})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in UpdateSession", "error", execErr, "session_id", session.ID)
			} else {
				logging.LogError(r.logger, repoErr, "UpdateSession", map[string]any{
					"session_id": session.ID,
				})
			}
			return repoErr
		}

		if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
			return repoerrors.HandleNotFound("UpdateSession", "work_session", session.ID)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "UpdateSession", time.Since(start), map[string]any{
			"session_id": session.ID,
		})
	}
	return err
}

// DeleteSession removes a session row by id
func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	start := time.Now()

	if id == "" {
		return repoerrors.NewValidation("DeleteSession", "id", "session id is empty")
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		result, execErr := r.db.ExecContext(ctx, `DELETE FROM work_sessions WHERE id = ?`, id)
		if execErr != nil {
			repoErr := repoerrors.NewTrackerErrorWithContext("DeleteSession", execErr,
				repoerrors.ClassifyError(execErr), map[string]string{
					"session_id": id,
				})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in DeleteSession", "error", execErr, "session_id", id)
			} else {
				logging.LogError(r.logger, repoErr, "DeleteSession", map[string]any{
					"session_id": id,
				})
			}
			return repoErr
		}

		if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
			return repoerrors.HandleNotFound("DeleteSession", "work_session", id)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "DeleteSession", time.Since(start), map[string]any{
			"session_id": id,
		})
	}
	return err
}

// GetSession loads a single session by id
func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (*types.WorkSession, error) {
	var result *types.WorkSession

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		row, scanErr := scanSession(r.db.QueryRowContext(ctx,
			`SELECT `+sessionColumns+` FROM work_sessions WHERE id = ?`, id))
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return repoerrors.HandleNotFound("GetSession", "work_session", id)
			}
			return repoerrors.NewTrackerErrorWithContext("GetSession", scanErr,
				repoerrors.ClassifyError(scanErr), map[string]string{
					"session_id": id,
				})
		}

		session, convErr := r.toSession(row)
		if convErr != nil {
			return convErr
		}
		result = session
		return nil
	})

	return result, err
}

// GetOpenSession returns the user's open session, or a not-found error
// when the user is not clocked in. At most one open session can exist per
// user (enforced by a partial unique index).
func (r *SQLiteRepository) GetOpenSession(ctx context.Context, userID string) (*types.WorkSession, error) {
	var result *types.WorkSession

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		row, scanErr := scanSession(r.db.QueryRowContext(ctx,
			`SELECT `+sessionColumns+` FROM work_sessions WHERE user_id = ? AND clock_out IS NULL`, userID))
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return repoerrors.HandleNotFound("GetOpenSession", "open_session", userID)
			}
			return repoerrors.NewTrackerErrorWithContext("GetOpenSession", scanErr,
				repoerrors.ClassifyError(scanErr), map[string]string{
					"user_id": userID,
				})
		}

		session, convErr := r.toSession(row)
		if convErr != nil {
			return convErr
		}
		result = session
		return nil
	})

	return result, err
}
