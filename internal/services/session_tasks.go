package services

import (
	"context"

	"github.com/google/uuid"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// SwitchTask replaces the open session's task title. When the session
// already carries a non-empty title, the finished stretch is recorded
// as a closed segment spanning [current stretch start, now]. Segment
// append and title swap persist as one atomic update; on failure
// neither applies.
func (t *SessionTracker) SwitchTask(ctx context.Context, newTitle string) error {
	const op = "tracker.SwitchTask"

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open == nil {
		return trackererrors.NewInvalidState(op, "must be clocked in")
	}

	now := t.now()
	next := t.open.Clone()

	if next.Title != "" {
		next.Segments = append(next.Segments, types.TaskSegment{
			ID:       uuid.NewString(),
			Title:    next.Title,
			ClockIn:  next.CurrentStretchStart(),
			ClockOut: now,
		})
	}
	next.Title = newTitle

	if err := t.repo.UpdateSession(ctx, next); err != nil {
		return err
	}

	t.open = next
	t.logger.Info("task switched",
		"sessionId", next.ID,
		"title", newTitle,
		"segments", len(next.Segments))
	t.notifyLocked()
	return nil
}
