package services

import (
	"context"
	"sync"
	"testing"
	"time"

	trackererrors "github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/infrastructure/errors"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// stubPolicy supplies a fixed policy snapshot
type stubPolicy struct {
	mu  sync.Mutex
	cfg types.LimitPolicyConfig
}

func (p *stubPolicy) Policy() types.LimitPolicyConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

func (p *stubPolicy) set(cfg types.LimitPolicyConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
}

// fakeClock is a settable wall clock for deterministic tests
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func defaultTestPolicy() types.LimitPolicyConfig {
	return types.LimitPolicyConfig{
		BaseHoursPerDay:    8,
		GraceMinutes:       15,
		MaxOverworkMinutes: 120,
	}
}

func newTestTracker(t *testing.T) (*SessionTracker, *MockRepository, *fakeClock, *stubPolicy) {
	t.Helper()

	repo := NewMockRepository()
	policy := &stubPolicy{cfg: defaultTestPolicy()}
	tracker := NewSessionTracker("u1", repo, policy, nil)

	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)} // Monday 09:00
	tracker.SetClock(clock.Now)

	return tracker, repo, clock, policy
}

func TestClockIn_OpensAndPersistsSession(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "cat-1")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	if id == "" {
		t.Fatal("ClockIn returned empty session id")
	}

	open := tracker.OpenSession()
	if open == nil {
		t.Fatal("no open session after ClockIn")
	}
	if open.Title != "Task 1" || open.CategoryID != "cat-1" {
		t.Errorf("open session = %q/%q, want Task 1/cat-1", open.Title, open.CategoryID)
	}
	if !open.ClockIn.Equal(clock.Now()) {
		t.Errorf("ClockIn time = %v, want %v", open.ClockIn, clock.Now())
	}
	if open.BreakMinutes != 0 || len(open.Breaks) != 0 || len(open.Segments) != 0 {
		t.Error("new session must start with empty ledgers")
	}

	stored := repo.StoredSession(id)
	if stored == nil || !stored.IsOpen() {
		t.Error("session not persisted as open")
	}
}

func TestClockIn_FailsWhenSessionAlreadyOpen(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("first ClockIn failed: %v", err)
	}

	_, err := tracker.ClockIn(ctx, "Task 2", "")
	if !trackererrors.IsInvalidState(err) {
		t.Errorf("expected invalid-state error, got %v", err)
	}
}

func TestClockIn_BlockedAtHardCap(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	// Work 495 minutes (base 480 + grace 15), then clock out
	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(495 * time.Minute)
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	_, err := tracker.ClockIn(ctx, "Task 2", "")
	if !trackererrors.IsPolicyViolation(err) {
		t.Errorf("expected policy-violation error at hard cap, got %v", err)
	}
}

func TestClockIn_SessionCountLimit(t *testing.T) {
	tracker, _, clock, policy := newTestTracker(t)
	ctx := context.Background()

	cfg := defaultTestPolicy()
	cfg.MaxSessionsPerDay = 1
	policy.set(cfg)

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(time.Hour)
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	if _, err := tracker.ClockIn(ctx, "Task 2", ""); !trackererrors.IsPolicyViolation(err) {
		t.Errorf("expected policy-violation error at session count limit, got %v", err)
	}

	// Zero means unlimited
	cfg.MaxSessionsPerDay = 0
	policy.set(cfg)
	if _, err := tracker.ClockIn(ctx, "Task 2", ""); err != nil {
		t.Errorf("unlimited sessions: ClockIn failed: %v", err)
	}
}

func TestClockIn_PersistenceFailureLeavesIdle(t *testing.T) {
	tracker, repo, _, _ := newTestTracker(t)
	repo.SetFailureModes(true, false, false, false, false, false)

	_, err := tracker.ClockIn(context.Background(), "Task 1", "")
	if !trackererrors.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if tracker.OpenSession() != nil {
		t.Error("failed ClockIn must leave the tracker idle")
	}
}

func TestClockOut_ClosesSessionAndFoldsBreak(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	clock.Advance(60 * time.Minute)
	if err := tracker.StartBreak(0, types.BreakKindLunch, ""); err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	clock.Advance(30 * time.Minute)

	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}
	if tracker.OpenSession() != nil {
		t.Error("tracker must be idle after ClockOut")
	}

	stored := repo.StoredSession(id)
	if stored.IsOpen() {
		t.Fatal("stored session still open")
	}
	if stored.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want 30 (open break folded on clock-out)", stored.BreakMinutes)
	}
	if active := stored.ActiveBreak(); active != nil {
		t.Error("stored session still has an open break")
	}
	if got := stored.WorkedMinutesAt(clock.Now()); got != 60 {
		t.Errorf("worked minutes = %d, want 60", got)
	}
}

func TestClockOut_NoOpWhenIdle(t *testing.T) {
	tracker, repo, _, _ := newTestTracker(t)

	if err := tracker.ClockOut(context.Background()); err != nil {
		t.Fatalf("idle ClockOut must succeed, got %v", err)
	}
	if _, update, _, _, _, _ := repo.GetCallCounts(); update != 0 {
		t.Error("idle ClockOut must not touch the repository")
	}
}

func TestStartBreak_NoOpRules(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	// No session open: success, no mutation
	if err := tracker.StartBreak(10, types.BreakKindShort, ""); err != nil {
		t.Fatalf("StartBreak with no session must be a no-op, got %v", err)
	}

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	if err := tracker.StartBreak(10, types.BreakKindShort, "coffee"); err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}

	// Second break request is rejected without replacing the first
	if err := tracker.StartBreak(45, types.BreakKindLunch, "lunch"); err != nil {
		t.Fatalf("second StartBreak must be a no-op, got %v", err)
	}

	open := tracker.OpenSession()
	if len(open.Breaks) != 1 {
		t.Fatalf("breaks = %d, want 1", len(open.Breaks))
	}
	if open.Breaks[0].Title != "coffee" || open.Breaks[0].Kind != types.BreakKindShort {
		t.Error("second StartBreak must not replace the first break")
	}
}

func TestEndBreak_RoundsAndPersists(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	// End-break with no open break: benign no-op
	if err := tracker.EndBreak(ctx); err != nil {
		t.Fatalf("EndBreak with no break must be a no-op, got %v", err)
	}

	if err := tracker.StartBreak(0, types.BreakKindShort, ""); err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	clock.Advance(9*time.Minute + 40*time.Second) // rounds up to 10

	if err := tracker.EndBreak(ctx); err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}

	open := tracker.OpenSession()
	if open.BreakMinutes != 10 {
		t.Errorf("BreakMinutes = %d, want 10", open.BreakMinutes)
	}
	if open.ActiveBreak() != nil {
		t.Error("break still open after EndBreak")
	}

	stored := repo.StoredSession(id)
	if stored.BreakMinutes != 10 {
		t.Errorf("stored BreakMinutes = %d, want 10", stored.BreakMinutes)
	}
}

func TestEndBreak_PersistenceFailureKeepsBreakOpen(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	if err := tracker.StartBreak(0, types.BreakKindShort, ""); err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	clock.Advance(15 * time.Minute)

	repo.SetFailureModes(false, true, false, false, false, false)
	if err := tracker.EndBreak(ctx); !trackererrors.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	open := tracker.OpenSession()
	if open.ActiveBreak() == nil {
		t.Error("break must remain open after failed EndBreak")
	}
	if open.BreakMinutes != 0 {
		t.Errorf("BreakMinutes = %d, want 0 after failed EndBreak", open.BreakMinutes)
	}
}

func TestBreakClamping(t *testing.T) {
	// Clock in at T, break from T+60 to T+180: 120 break minutes against
	// 180 elapsed clamps worked duration to zero.
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(60 * time.Minute)
	if err := tracker.StartBreak(0, types.BreakKindLunch, ""); err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	clock.Advance(120 * time.Minute)
	if err := tracker.EndBreak(ctx); err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}

	open := tracker.OpenSession()
	if open.BreakMinutes != 120 {
		t.Errorf("BreakMinutes = %d, want 120", open.BreakMinutes)
	}
	if got := open.WorkedDurationAt(clock.Now()); got != 60*time.Minute {
		t.Errorf("worked duration = %v, want 60m", got)
	}

	// A second long break pushes the flat total past elapsed time
	if err := tracker.AddManualBreak(ctx, 120); err != nil {
		t.Fatalf("AddManualBreak failed: %v", err)
	}
	open = tracker.OpenSession()
	if open.BreakMinutes != 240 {
		t.Errorf("BreakMinutes = %d, want 240 (accumulator never clamps)", open.BreakMinutes)
	}
	if got := open.WorkedDurationAt(clock.Now()); got != 0 {
		t.Errorf("worked duration = %v, want 0 (clamped, not negative)", got)
	}
}

func TestSwitchTask_SegmentOrdering(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	for _, title := range []string{"Task 2", "Task 3", "Task 4", "Task 5"} {
		clock.Advance(30 * time.Minute)
		if err := tracker.SwitchTask(ctx, title); err != nil {
			t.Fatalf("SwitchTask(%s) failed: %v", title, err)
		}
	}

	open := tracker.OpenSession()
	if open.Title != "Task 5" {
		t.Errorf("Title = %q, want Task 5", open.Title)
	}
	if len(open.Segments) != 4 {
		t.Fatalf("segments = %d, want 4", len(open.Segments))
	}
	if open.Segments[0].Title != "Task 1" {
		t.Errorf("segments[0].Title = %q, want Task 1", open.Segments[0].Title)
	}

	// Contiguous, non-overlapping timestamps in call order
	if !open.Segments[0].ClockIn.Equal(open.ClockIn) {
		t.Error("first segment must start at session clock-in")
	}
	for i := 1; i < len(open.Segments); i++ {
		if !open.Segments[i].ClockIn.Equal(open.Segments[i-1].ClockOut) {
			t.Errorf("segment %d does not start where segment %d ends", i, i-1)
		}
	}
	if !open.CurrentStretchStart().Equal(open.Segments[3].ClockOut) {
		t.Error("current stretch must start at the last segment's close")
	}
}

func TestSwitchTask_RequiresOpenSession(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)

	err := tracker.SwitchTask(context.Background(), "Task 2")
	if !trackererrors.IsInvalidState(err) {
		t.Errorf("expected invalid-state error, got %v", err)
	}
}

func TestSwitchTask_EmptyTitleAddsNoSegment(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(20 * time.Minute)
	if err := tracker.SwitchTask(ctx, "Task 1"); err != nil {
		t.Fatalf("SwitchTask failed: %v", err)
	}

	open := tracker.OpenSession()
	if len(open.Segments) != 0 {
		t.Errorf("segments = %d, want 0 (no prior title to record)", len(open.Segments))
	}
	if open.Title != "Task 1" {
		t.Errorf("Title = %q, want Task 1", open.Title)
	}
}

func TestSwitchTask_AtomicFailure(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(30 * time.Minute)
	if err := tracker.SwitchTask(ctx, "Task 2"); err != nil {
		t.Fatalf("SwitchTask failed: %v", err)
	}

	before := tracker.OpenSession()

	repo.SetFailureModes(false, true, false, false, false, false)
	clock.Advance(30 * time.Minute)
	if err := tracker.SwitchTask(ctx, "Task 3"); !trackererrors.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	after := tracker.OpenSession()
	if after.Title != before.Title {
		t.Errorf("Title changed on failed switch: %q -> %q", before.Title, after.Title)
	}
	if len(after.Segments) != len(before.Segments) {
		t.Errorf("segments changed on failed switch: %d -> %d", len(before.Segments), len(after.Segments))
	}
}

func TestAddManualBreak_Bounds(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	// No session open: invalid state
	if err := tracker.AddManualBreak(ctx, 30); !trackererrors.IsInvalidState(err) {
		t.Errorf("expected invalid-state error with no session, got %v", err)
	}

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	for _, minutes := range []int{0, -5, 481} {
		if err := tracker.AddManualBreak(ctx, minutes); !trackererrors.IsValidation(err) {
			t.Errorf("AddManualBreak(%d): expected validation error, got %v", minutes, err)
		}
	}

	if err := tracker.AddManualBreak(ctx, 480); err != nil {
		t.Fatalf("AddManualBreak(480) must succeed, got %v", err)
	}

	open := tracker.OpenSession()
	if open.BreakMinutes != 480 {
		t.Errorf("BreakMinutes = %d, want 480", open.BreakMinutes)
	}
	if len(open.Breaks) != 1 || open.Breaks[0].Kind != types.BreakKindCustom {
		t.Error("manual break must be recorded as a closed custom break")
	}
	if open.Breaks[0].IsOpen() {
		t.Error("manual break must be closed at creation")
	}
}

func TestSingleActiveSessionInvariant(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	// A busy day: three sessions with breaks and switches in between
	for i := 0; i < 3; i++ {
		if _, err := tracker.ClockIn(ctx, "Task", ""); err != nil {
			t.Fatalf("ClockIn %d failed: %v", i, err)
		}
		clock.Advance(30 * time.Minute)
		_ = tracker.StartBreak(0, types.BreakKindShort, "")
		clock.Advance(5 * time.Minute)
		if err := tracker.EndBreak(ctx); err != nil {
			t.Fatalf("EndBreak failed: %v", err)
		}
		if err := tracker.ClockOut(ctx); err != nil {
			t.Fatalf("ClockOut failed: %v", err)
		}

		openCount := 0
		sessions, err := repo.ListSessionsForUser(ctx, "u1", clock.Now().AddDate(0, 0, -1), clock.Now().AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("ListSessionsForUser failed: %v", err)
		}
		for _, s := range sessions {
			if s.IsOpen() {
				openCount++
			}
		}
		if openCount > 1 {
			t.Fatalf("invariant broken: %d open sessions", openCount)
		}
	}
}

func TestUpdateNotes(t *testing.T) {
	tracker, repo, clock, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	// Open session
	if err := tracker.UpdateNotes(ctx, id, "in progress"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if got := tracker.OpenSession().Notes; got != "in progress" {
		t.Errorf("Notes = %q, want 'in progress'", got)
	}

	clock.Advance(time.Hour)
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	// Closed session
	if err := tracker.UpdateNotes(ctx, id, "done"); err != nil {
		t.Fatalf("UpdateNotes on closed session failed: %v", err)
	}
	if got := repo.StoredSession(id).Notes; got != "done" {
		t.Errorf("stored Notes = %q, want done", got)
	}

	// Unknown session
	if err := tracker.UpdateNotes(ctx, "missing", "x"); !trackererrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	tracker, repo, _, _ := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	if err := tracker.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if tracker.OpenSession() != nil {
		t.Error("deleting the open session must return the tracker to idle")
	}
	if repo.StoredSession(id) != nil {
		t.Error("session still stored after delete")
	}

	if err := tracker.DeleteSession(ctx, id); !trackererrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	tracker, repo, clock, policy := newTestTracker(t)
	ctx := context.Background()

	id, err := tracker.ClockIn(ctx, "Task 1", "")
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}

	// A fresh tracker over the same repository picks up the open session
	restored := NewSessionTracker("u1", repo, policy, nil)
	restored.SetClock(clock.Now)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	open := restored.OpenSession()
	if open == nil || open.ID != id {
		t.Fatal("Restore did not pick up the open session")
	}

	// Idle user restores to idle
	idle := NewSessionTracker("u2", repo, policy, nil)
	if err := idle.Restore(ctx); err != nil {
		t.Fatalf("Restore for idle user failed: %v", err)
	}
	if idle.OpenSession() != nil {
		t.Error("idle user must restore with no open session")
	}
}

func TestOnChange_FiresOnMutations(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	fired := 0
	tracker.SetOnChange(func() { fired++ })

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	_ = tracker.StartBreak(0, types.BreakKindShort, "")
	clock.Advance(5 * time.Minute)
	if err := tracker.EndBreak(ctx); err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	if fired != 4 {
		t.Errorf("onChange fired %d times, want 4", fired)
	}

	// Benign no-op does not notify
	before := fired
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("idle ClockOut failed: %v", err)
	}
	if fired != before {
		t.Error("idle ClockOut must not fire onChange")
	}
}

func TestTodayStats_UsesLiveOpenSession(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(90 * time.Minute)

	stats, err := tracker.TodayStats(ctx)
	if err != nil {
		t.Fatalf("TodayStats failed: %v", err)
	}
	if stats.TodayMinutes != 90 {
		t.Errorf("TodayMinutes = %d, want 90", stats.TodayMinutes)
	}

	// An open break freezes the live worked time, even though it is not
	// persisted yet
	_ = tracker.StartBreak(0, types.BreakKindShort, "")
	clock.Advance(30 * time.Minute)

	stats, err = tracker.TodayStats(ctx)
	if err != nil {
		t.Fatalf("TodayStats failed: %v", err)
	}
	if stats.TodayMinutes != 90 {
		t.Errorf("TodayMinutes during break = %d, want 90 (frozen)", stats.TodayMinutes)
	}
}

func TestWeekStats_SumsAcrossDays(t *testing.T) {
	tracker, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	// Monday: 4 hours
	if _, err := tracker.ClockIn(ctx, "Task 1", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(4 * time.Hour)
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	// Tuesday: 5 hours
	clock.Set(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	if _, err := tracker.ClockIn(ctx, "Task 2", ""); err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	clock.Advance(5 * time.Hour)
	if err := tracker.ClockOut(ctx); err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}

	stats, err := tracker.WeekStats(ctx)
	if err != nil {
		t.Fatalf("WeekStats failed: %v", err)
	}
	if stats.WeeklyMinutes != 9*60 {
		t.Errorf("WeeklyMinutes = %d, want 540", stats.WeeklyMinutes)
	}
	if stats.WorkdaysElapsed != 2 {
		t.Errorf("WorkdaysElapsed = %d, want 2", stats.WorkdaysElapsed)
	}
	// 2 workdays x 480 target - 540 worked = 420 owed
	if stats.CatchUpMinutes != 420 {
		t.Errorf("CatchUpMinutes = %d, want 420", stats.CatchUpMinutes)
	}
}
