package services

import (
	"context"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// TodayStats computes the daily limit read-model for the current day
func (t *SessionTracker) TodayStats(ctx context.Context) (types.DayWorkStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	midnight := types.Midnight(now)

	sessions, err := t.sessionsRangeLocked(ctx, midnight, midnight.AddDate(0, 0, 1))
	if err != nil {
		return types.DayWorkStats{}, err
	}
	return ComputeDayStats(sessions, t.policy.Policy(), now), nil
}

// WeekStats computes the weekly catch-up read-model for the current week
func (t *SessionTracker) WeekStats(ctx context.Context) (types.WeekWorkStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	weekStart := types.WeekStart(now)

	sessions, err := t.sessionsRangeLocked(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return types.WeekWorkStats{}, err
	}
	return ComputeWeekStats(sessions, t.policy.Policy(), now), nil
}

// SessionsForPeriod lists the user's sessions with dates in [from, to)
func (t *SessionTracker) SessionsForPeriod(ctx context.Context, from, to time.Time) ([]*types.WorkSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionsRangeLocked(ctx, from, to)
}

// sessionsForDayLocked lists the sessions belonging to the calendar day
// containing ts. Callers hold t.mu.
func (t *SessionTracker) sessionsForDayLocked(ctx context.Context, ts time.Time) ([]*types.WorkSession, error) {
	midnight := types.Midnight(ts)
	return t.sessionsRangeLocked(ctx, midnight, midnight.AddDate(0, 0, 1))
}

// sessionsRangeLocked fetches sessions from the repository, substituting
// the in-memory open session for its stored copy. The stored row can lag
// behind: an open break exists only in memory until it is folded in.
// Callers hold t.mu.
func (t *SessionTracker) sessionsRangeLocked(ctx context.Context, from, to time.Time) ([]*types.WorkSession, error) {
	stored, err := t.repo.ListSessionsForUser(ctx, t.userID, from, to)
	if err != nil {
		return nil, err
	}

	sessions := make([]*types.WorkSession, 0, len(stored))
	for i := range stored {
		if t.open != nil && stored[i].ID == t.open.ID {
			sessions = append(sessions, t.open.Clone())
			continue
		}
		s := stored[i]
		sessions = append(sessions, &s)
	}
	return sessions, nil
}
