package types

import (
	"time"

	"github.com/google/uuid"
)

// BreakKind classifies a break period
type BreakKind string

const (
	BreakKindShort  BreakKind = "short"
	BreakKindLunch  BreakKind = "lunch"
	BreakKindCustom BreakKind = "custom"
)

// BreakPeriod represents one pause within a work session.
// EndTime is nil while the break is still running; at most one break per
// session may be open at a time.
type BreakPeriod struct {
	ID             string     `json:"id"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	PlannedMinutes int        `json:"plannedMinutes,omitempty"` // display/alarm target only, never enforced
	Kind           BreakKind  `json:"kind"`
	Title          string     `json:"title,omitempty"`
}

// IsOpen reports whether the break has not been ended yet
func (b *BreakPeriod) IsOpen() bool {
	return b.EndTime == nil
}

// TaskSegment records a prior task title within a session, produced by a
// task switch. Segments are always closed at creation time and are strictly
// ordered: segment n's ClockOut equals segment n+1's ClockIn.
type TaskSegment struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	ClockIn  time.Time `json:"clockIn"`
	ClockOut time.Time `json:"clockOut"`
}

// WorkSession represents one clock-in-to-clock-out work span
type WorkSession struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Date         time.Time     `json:"date"` // calendar day the session belongs to, assigned at clock-in
	ClockIn      time.Time     `json:"clockIn"`
	ClockOut     *time.Time    `json:"clockOut,omitempty"` // nil while the session is open
	Title        string        `json:"title,omitempty"`
	CategoryID   string        `json:"categoryId,omitempty"`
	BreakMinutes int           `json:"breakMinutes"` // accumulator of completed break time
	Breaks       []BreakPeriod `json:"breaks"`
	Segments     []TaskSegment `json:"segments"`
	Notes        string        `json:"notes,omitempty"`
}

// NewWorkSession creates an open session clocked in at the given time.
// Date is normalized to midnight of the clock-in day.
func NewWorkSession(userID, title, categoryID string, clockIn time.Time) *WorkSession {
	return &WorkSession{
		ID:         uuid.NewString(),
		UserID:     userID,
		Date:       Midnight(clockIn),
		ClockIn:    clockIn,
		Title:      title,
		CategoryID: categoryID,
	}
}

// IsOpen reports whether the session has not been clocked out yet
func (s *WorkSession) IsOpen() bool {
	return s.ClockOut == nil
}

// ActiveBreak returns the currently open break, or nil if none is open
func (s *WorkSession) ActiveBreak() *BreakPeriod {
	for i := range s.Breaks {
		if s.Breaks[i].IsOpen() {
			return &s.Breaks[i]
		}
	}
	return nil
}

// CurrentStretchStart returns the start of the current task stretch: the
// close of the last recorded segment, or the session clock-in when no task
// switch has happened yet.
func (s *WorkSession) CurrentStretchStart() time.Time {
	if n := len(s.Segments); n > 0 {
		return s.Segments[n-1].ClockOut
	}
	return s.ClockIn
}

// WorkedDurationAt returns the worked time of the session evaluated at now:
// elapsed wall time minus the completed break total, clamped at zero.
// Breaks are subtracted as a flat total, not matched to intervals, so a
// long break legitimately clamps the result to zero rather than going
// negative. For an open session with a running break, the live elapsed
// time of that break is subtracted as well, so worked time freezes while
// the user is on break.
func (s *WorkSession) WorkedDurationAt(now time.Time) time.Duration {
	end := now
	if s.ClockOut != nil {
		end = *s.ClockOut
	}

	elapsed := end.Sub(s.ClockIn)
	breakTime := time.Duration(s.BreakMinutes) * time.Minute

	if s.IsOpen() {
		if active := s.ActiveBreak(); active != nil && now.After(active.StartTime) {
			breakTime += now.Sub(active.StartTime)
		}
	}

	worked := elapsed - breakTime
	if worked < 0 {
		return 0
	}
	return worked
}

// WorkedMinutesAt returns WorkedDurationAt truncated to whole minutes
func (s *WorkSession) WorkedMinutesAt(now time.Time) int {
	return int(s.WorkedDurationAt(now) / time.Minute)
}

// Clone returns a deep copy of the session. Mutating the copy never
// affects the original's break or segment slices.
func (s *WorkSession) Clone() *WorkSession {
	if s == nil {
		return nil
	}

	c := *s
	if s.ClockOut != nil {
		out := *s.ClockOut
		c.ClockOut = &out
	}

	if s.Breaks != nil {
		c.Breaks = make([]BreakPeriod, len(s.Breaks))
		for i, b := range s.Breaks {
			c.Breaks[i] = b
			if b.EndTime != nil {
				end := *b.EndTime
				c.Breaks[i].EndTime = &end
			}
		}
	}

	if s.Segments != nil {
		c.Segments = make([]TaskSegment, len(s.Segments))
		copy(c.Segments, s.Segments)
	}

	return &c
}

// Midnight normalizes a timestamp to the start of its calendar day
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundToMinutes converts a duration to whole minutes, rounding halves up.
// Used when folding a finished break into the session's break accumulator.
func RoundToMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + 30*time.Second) / time.Minute)
}
