package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repoerrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
)

// WithTransaction executes a function within a database transaction with
// retry on transient begin/commit failures. The callback receives a
// repository bound to the transaction; retry inside the callback is
// suppressed because the enclosing retry re-runs the whole transaction.
func (r *SQLiteRepository) WithTransaction(ctx context.Context, fn func(repo SessionRepository) error) error {
	start := time.Now()

	db, ok := r.db.(*sql.DB)
	if !ok {
		// Already inside a transaction; just run the callback on this repo
		return fn(r)
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, beginErr := db.BeginTx(ctx, nil)
		if beginErr != nil {
			repoErr := repoerrors.NewTrackerError("WithTransaction.Begin", beginErr, repoerrors.ClassifyError(beginErr))
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error beginning transaction", "error", beginErr)
			} else {
				logging.LogError(r.logger, repoErr, "WithTransaction.Begin", nil)
			}
			return repoErr
		}

		var committed bool
		defer func() {
			if !committed {
				if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
					r.logger.Debug("Failed to rollback transaction", "rollback_error", rollbackErr)
				}
			}
		}()

		txRepo := &SQLiteRepository{
			db: tx,
			// One attempt per statement: the outer retry owns re-execution
			retryConfig: &repoerrors.RetryConfig{MaxAttempts: 1},
			logger:      r.logger,
		}

		if fnErr := fn(txRepo); fnErr != nil {
			r.logger.Debug("Transaction function failed", "error", fnErr)
			return fnErr
		}

		if commitErr := tx.Commit(); commitErr != nil {
			repoErr := repoerrors.NewTrackerError("WithTransaction.Commit", commitErr, repoerrors.ClassifyError(commitErr))
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error committing transaction", "error", commitErr)
			} else {
				logging.LogError(r.logger, repoErr, "WithTransaction.Commit", nil)
			}
			return repoErr
		}
		committed = true

		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "WithTransaction", time.Since(start), nil)
	}
	return err
}
