package repository

import (
	"context"
	"time"

	repoerrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// ListSessionsForUser returns all sessions whose calendar day falls in
// [from, to), ordered by clock-in. Both bounds are normalized to midnight.
func (r *SQLiteRepository) ListSessionsForUser(ctx context.Context, userID string, from, to time.Time) ([]types.WorkSession, error) {
	start := time.Now()

	fromDay := types.Midnight(from)
	toDay := types.Midnight(to)

	var result []types.WorkSession

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, queryErr := r.db.QueryContext(ctx,
			`SELECT `+sessionColumns+`
			 FROM work_sessions
			 WHERE user_id = ? AND date >= ? AND date < ?
			 ORDER BY clock_in`,
			userID, fromDay, toDay)
		if queryErr != nil {
			repoErr := repoerrors.NewTrackerErrorWithContext("ListSessionsForUser", queryErr,
				repoerrors.ClassifyError(queryErr), map[string]string{
					"user_id": userID,
					"from":    fromDay.Format("2006-01-02"),
					"to":      toDay.Format("2006-01-02"),
				})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in ListSessionsForUser", "error", queryErr, "user_id", userID)
			} else {
				logging.LogError(r.logger, repoErr, "ListSessionsForUser", map[string]any{
					"user_id": userID,
				})
			}
			return repoErr
		}
		defer rows.Close()

		var sessions []types.WorkSession
		for rows.Next() {
			row, scanErr := scanSession(rows)
			if scanErr != nil {
				return repoerrors.NewTrackerError("ListSessionsForUser", scanErr, repoerrors.ClassifyError(scanErr))
			}
			session, convErr := r.toSession(row)
			if convErr != nil {
				return convErr
			}
			sessions = append(sessions, *session)
		}
		if rowsErr := rows.Err(); rowsErr != nil {
			return repoerrors.NewTrackerError("ListSessionsForUser", rowsErr, repoerrors.ClassifyError(rowsErr))
		}

		result = sessions
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "ListSessionsForUser", time.Since(start), map[string]any{
			"user_id": userID,
			"count":   len(result),
		})
	}
	return result, err
}

// CountSessionsForDay returns how many sessions exist for the user on the
// given calendar day, open or closed. Used by the daily cardinality policy.
func (r *SQLiteRepository) CountSessionsForDay(ctx context.Context, userID string, day time.Time) (int, error) {
	normalized := types.Midnight(day)

	var count int
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		scanErr := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM work_sessions WHERE user_id = ? AND date = ?`,
			userID, normalized).Scan(&count)
		if scanErr != nil {
			return repoerrors.NewTrackerErrorWithContext("CountSessionsForDay", scanErr,
				repoerrors.ClassifyError(scanErr), map[string]string{
					"user_id": userID,
					"day":     normalized.Format("2006-01-02"),
				})
		}
		return nil
	})

	return count, err
}
