package services

import (
	"context"
	"sync"
	"time"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/repository"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// PolicySource supplies the limit policy snapshot read at evaluation
// time. The tracker never mutates it.
type PolicySource interface {
	Policy() types.LimitPolicyConfig
}

// SessionTracker is the work-session state machine for a single user.
// All mutations are serialized through its mutex and follow
// commit-then-apply semantics: the session is cloned, the clone is
// mutated and persisted, and only on gateway success does the clone
// replace the in-memory session. A failed persistence call leaves the
// in-memory state exactly as it was.
type SessionTracker struct {
	mu       sync.Mutex
	userID   string
	open     *types.WorkSession
	repo     repository.SessionRepository
	policy   PolicySource
	logger   logging.Logger
	now      func() time.Time
	onChange func()
}

// NewSessionTracker creates a tracker for the given user
func NewSessionTracker(userID string, repo repository.SessionRepository, policy PolicySource, logger logging.Logger) *SessionTracker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SessionTracker{
		userID: userID,
		repo:   repo,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the wall clock. Used by tests and the enforcer.
func (t *SessionTracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// SetOnChange registers a callback fired after every successful mutation
func (t *SessionTracker) SetOnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Restore loads the user's open session from the repository, if any.
// Called once at startup so a crash or restart does not lose an open
// session.
func (t *SessionTracker) Restore(ctx context.Context) error {
	session, err := t.repo.GetOpenSession(ctx, t.userID)
	if err != nil {
		if trackererrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	t.mu.Lock()
	t.open = session
	t.mu.Unlock()

	t.logger.Info("restored open session",
		"sessionId", session.ID,
		"clockIn", session.ClockIn)
	return nil
}

// ClockIn opens a new session. Fails with an invalid-state error when a
// session is already open, and with a policy-violation error when
// today's hard cap is already reached or the per-day session count is
// exhausted.
func (t *SessionTracker) ClockIn(ctx context.Context, title, categoryID string) (string, error) {
	const op = "tracker.ClockIn"

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open != nil {
		return "", trackererrors.NewInvalidState(op, "a session is already open")
	}

	now := t.now()
	policy := t.policy.Policy()

	todays, err := t.sessionsForDayLocked(ctx, now)
	if err != nil {
		return "", err
	}

	stats := ComputeDayStats(todays, policy, now)
	if stats.Status == types.LimitStatusHardCap {
		return "", trackererrors.NewPolicyViolation(op, "daily work-time limit already reached")
	}
	if policy.MaxSessionsPerDay > 0 && len(todays) >= policy.MaxSessionsPerDay {
		return "", trackererrors.NewPolicyViolation(op, "daily session count limit already reached")
	}

	session := types.NewWorkSession(t.userID, title, categoryID, now)
	if err := t.repo.CreateSession(ctx, session); err != nil {
		return "", err
	}

	t.open = session
	t.logger.Info("clocked in",
		"sessionId", session.ID,
		"title", title)
	t.notifyLocked()
	return session.ID, nil
}

// ClockOut closes the open session at the current time. A no-op when no
// session is open. An active break is folded into the break accumulator
// before the session closes; everything is persisted as one update.
func (t *SessionTracker) ClockOut(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clockOutLocked(ctx, "")
}

// ForceClockOut closes the open session on behalf of the policy engine,
// appending the given marker to the session notes in the same persisted
// update. Returns whether a session was actually closed.
func (t *SessionTracker) ForceClockOut(ctx context.Context, marker string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open == nil {
		return false, nil
	}
	if err := t.clockOutLocked(ctx, marker); err != nil {
		return false, err
	}
	return true, nil
}

// clockOutLocked closes the open session, folding any running break
// first. Callers hold t.mu. An empty marker leaves notes untouched.
func (t *SessionTracker) clockOutLocked(ctx context.Context, marker string) error {
	if t.open == nil {
		return nil
	}

	now := t.now()
	next := t.open.Clone()

	foldActiveBreak(next, now)

	out := now
	next.ClockOut = &out
	if marker != "" {
		next.Notes = appendNote(next.Notes, marker)
	}

	if err := t.repo.UpdateSession(ctx, next); err != nil {
		return err
	}

	t.logger.Info("clocked out",
		"sessionId", next.ID,
		"workedMinutes", next.WorkedMinutesAt(now),
		"forced", marker != "")
	t.open = nil
	t.notifyLocked()
	return nil
}

// OpenSession returns a copy of the currently open session, or nil
func (t *SessionTracker) OpenSession() *types.WorkSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open.Clone()
}

// UpdateNotes replaces the notes of any existing session, open or closed
func (t *SessionTracker) UpdateNotes(ctx context.Context, sessionID, text string) error {
	const op = "tracker.UpdateNotes"

	t.mu.Lock()
	defer t.mu.Unlock()

	if sessionID == "" {
		return trackererrors.NewValidation(op, "sessionId", "cannot be empty")
	}

	if t.open != nil && t.open.ID == sessionID {
		next := t.open.Clone()
		next.Notes = text
		if err := t.repo.UpdateSession(ctx, next); err != nil {
			return err
		}
		t.open = next
		t.notifyLocked()
		return nil
	}

	session, err := t.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Notes = text
	if err := t.repo.UpdateSession(ctx, session); err != nil {
		return err
	}
	t.notifyLocked()
	return nil
}

// DeleteSession removes a session record entirely. Deleting the open
// session returns the tracker to idle.
func (t *SessionTracker) DeleteSession(ctx context.Context, sessionID string) error {
	const op = "tracker.DeleteSession"

	t.mu.Lock()
	defer t.mu.Unlock()

	if sessionID == "" {
		return trackererrors.NewValidation(op, "sessionId", "cannot be empty")
	}

	if err := t.repo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	if t.open != nil && t.open.ID == sessionID {
		t.open = nil
	}
	t.logger.Info("deleted session", "sessionId", sessionID)
	t.notifyLocked()
	return nil
}

// notifyLocked fires the change callback. Callers hold t.mu.
func (t *SessionTracker) notifyLocked() {
	if t.onChange != nil {
		t.onChange()
	}
}

// foldActiveBreak closes a running break at now and adds its rounded
// minutes to the session's break accumulator. Mutates session in place,
// so callers pass a clone.
func foldActiveBreak(session *types.WorkSession, now time.Time) {
	active := session.ActiveBreak()
	if active == nil {
		return
	}
	end := now
	active.EndTime = &end
	session.BreakMinutes += types.RoundToMinutes(now.Sub(active.StartTime))
}

// appendNote appends a line to free-text notes
func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
