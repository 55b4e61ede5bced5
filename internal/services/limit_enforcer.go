package services

import (
	"context"
	"sync"
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/logging"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// autoClockOutMarker is appended to the session notes when the policy
// engine closes a session at the hard cap.
const autoClockOutMarker = "[auto] clocked out at daily limit"

// OverworkController is the settings-side surface the enforcer drives:
// dropping the day's overwork request after a forced clock-out and at
// the start of a new calendar day.
type OverworkController interface {
	ClearOverworkRequest() error
	ResetOverworkForNewDay(today time.Time) error
}

// LimitEnforcer periodically evaluates the daily limit against the open
// session and forces a clock-out at the hard cap, at most once per
// session. A later session that crosses a raised cap the same day is
// enforced again. The forced transition uses the same persistence
// semantics as a manual clock-out: a failed tick leaves state unchanged
// and the next tick retries.
type LimitEnforcer struct {
	mu             sync.Mutex
	tracker        *SessionTracker
	overwork       OverworkController
	logger         logging.Logger
	interval       time.Duration
	now            func() time.Time
	lastEnforcedID string // ID of the session last closed by a forced clock-out
	stop           chan struct{}
	stopOnce       sync.Once
}

// NewLimitEnforcer creates an enforcer ticking at the given interval
func NewLimitEnforcer(tracker *SessionTracker, overwork OverworkController, interval time.Duration, logger logging.Logger) *LimitEnforcer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LimitEnforcer{
		tracker:  tracker,
		overwork: overwork,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// SetClock replaces the wall clock. Used by tests.
func (e *LimitEnforcer) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Start launches the background tick loop
func (e *LimitEnforcer) Start(ctx context.Context) {
	go e.loop(ctx)
}

// Stop halts the background loop. Safe to call more than once.
func (e *LimitEnforcer) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *LimitEnforcer) loop(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := e.Tick(ctx); err != nil {
				logging.LogError(e.logger, err, "enforcer.Tick", nil)
			}
		case <-e.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs one enforcement pass: drop a stale overwork request on a
// day change, then force a clock-out when the open session sits at the
// hard cap. Exported so hosts without a background loop can drive
// enforcement on their own schedule.
func (e *LimitEnforcer) Tick(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if err := e.overwork.ResetOverworkForNewDay(now); err != nil {
		return err
	}

	open := e.tracker.OpenSession()
	if open == nil {
		return nil
	}
	if open.ID == e.lastEnforcedID {
		return nil
	}

	stats, err := e.tracker.TodayStats(ctx)
	if err != nil {
		return err
	}
	if stats.Status != types.LimitStatusHardCap {
		return nil
	}

	forced, err := e.tracker.ForceClockOut(ctx, autoClockOutMarker)
	if err != nil {
		// Guard stays unset so the next tick retries
		return err
	}
	if !forced {
		return nil
	}

	e.lastEnforcedID = open.ID
	e.logger.Warn("forced clock-out at daily limit",
		"todayMinutes", stats.TodayMinutes,
		"appliedLimitMinutes", stats.AppliedLimitMinutes)

	return e.overwork.ClearOverworkRequest()
}
