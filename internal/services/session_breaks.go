package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

const (
	minManualBreakMinutes = 1
	maxManualBreakMinutes = 480
)

// StartBreak opens a break on the current session. A benign no-op when
// no session is open or a break is already running: the second request
// neither replaces the first nor errors. The open break lives only in
// memory; it is folded into the persisted session on EndBreak or
// ClockOut.
func (t *SessionTracker) StartBreak(plannedMinutes int, kind types.BreakKind, title string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open == nil {
		return nil
	}
	if t.open.ActiveBreak() != nil {
		return nil
	}

	if kind == "" {
		kind = types.BreakKindShort
	}

	t.open.Breaks = append(t.open.Breaks, types.BreakPeriod{
		ID:             uuid.NewString(),
		StartTime:      t.now(),
		PlannedMinutes: plannedMinutes,
		Kind:           kind,
		Title:          title,
	})

	t.logger.Info("break started",
		"sessionId", t.open.ID,
		"kind", string(kind),
		"plannedMinutes", plannedMinutes)
	t.notifyLocked()
	return nil
}

// EndBreak closes the running break at the current time, adds its
// rounded minutes to the break accumulator, and persists the session.
// A benign no-op when no break is open. On persistence failure the
// break stays open and unmodified.
func (t *SessionTracker) EndBreak(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open == nil || t.open.ActiveBreak() == nil {
		return nil
	}

	now := t.now()
	next := t.open.Clone()
	foldActiveBreak(next, now)

	if err := t.repo.UpdateSession(ctx, next); err != nil {
		return err
	}

	t.open = next
	t.logger.Info("break ended",
		"sessionId", next.ID,
		"breakMinutes", next.BreakMinutes)
	t.notifyLocked()
	return nil
}

// AddManualBreak records an already-taken break of the given length,
// spanning the interval ending now. The session must be open and the
// length must be within [1, 480] minutes.
func (t *SessionTracker) AddManualBreak(ctx context.Context, minutes int) error {
	const op = "tracker.AddManualBreak"

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open == nil {
		return trackererrors.NewInvalidState(op, "must be clocked in")
	}
	if minutes < minManualBreakMinutes || minutes > maxManualBreakMinutes {
		return trackererrors.NewValidation(op, "minutes",
			fmt.Sprintf("must be between %d and %d", minManualBreakMinutes, maxManualBreakMinutes))
	}

	now := t.now()
	end := now
	next := t.open.Clone()
	next.Breaks = append(next.Breaks, types.BreakPeriod{
		ID:        uuid.NewString(),
		StartTime: now.Add(-time.Duration(minutes) * time.Minute),
		EndTime:   &end,
		Kind:      types.BreakKindCustom,
	})
	next.BreakMinutes += minutes

	if err := t.repo.UpdateSession(ctx, next); err != nil {
		return err
	}

	t.open = next
	t.logger.Info("manual break added",
		"sessionId", next.ID,
		"minutes", minutes)
	t.notifyLocked()
	return nil
}
