package types

import "time"

// LimitStatus is the ordered severity of the daily work-time limit check
type LimitStatus string

const (
	LimitStatusNormal  LimitStatus = "normal"
	LimitStatusWarning LimitStatus = "warning"  // past the base daily limit
	LimitStatusNearCap LimitStatus = "near_cap" // within the warning buffer of the applied limit
	LimitStatusHardCap LimitStatus = "hard_cap" // applied limit reached, session must close
)

// LimitPolicyConfig is the per-user work-time policy. It is owned by the
// settings collaborator; the engine only ever reads a snapshot of it.
type LimitPolicyConfig struct {
	BaseHoursPerDay    int `json:"baseHoursPerDay"`    // 1-24
	GraceMinutes       int `json:"graceMinutes"`       // buffer past the base limit when no overwork was requested
	MaxOverworkMinutes int `json:"maxOverworkMinutes"` // upper bound for a per-day overwork request
	// OverworkMinutesRequested is the user-opted extra allowance for the
	// current day, in [0, MaxOverworkMinutes]. Reset at the start of each
	// calendar day and after a forced clock-out.
	OverworkMinutesRequested int `json:"overworkMinutesRequested"`
	// MaxSessionsPerDay limits how many sessions may be started per
	// calendar day. Zero means unlimited.
	MaxSessionsPerDay int `json:"maxSessionsPerDay"`
}

// BaseLimitMinutes returns the base daily limit in minutes
func (c LimitPolicyConfig) BaseLimitMinutes() int {
	return c.BaseHoursPerDay * 60
}

// AppliedLimitMinutes returns the hard-cap threshold: the base limit plus
// the requested overwork allowance, or the grace buffer when no overwork
// was requested for the day.
func (c LimitPolicyConfig) AppliedLimitMinutes() int {
	extra := c.GraceMinutes
	if c.OverworkMinutesRequested > 0 {
		extra = c.OverworkMinutesRequested
	}
	return c.BaseLimitMinutes() + extra
}

// DayWorkStats is the derived read-model for a single calendar day.
// Never persisted; recomputed from sessions and the policy snapshot.
type DayWorkStats struct {
	Date                time.Time   `json:"date"`
	TodayMinutes        int         `json:"todayMinutes"`
	BaseLimitMinutes    int         `json:"baseLimitMinutes"`
	AppliedLimitMinutes int         `json:"appliedLimitMinutes"`
	RemainingMinutes    int         `json:"remainingMinutes"`
	OvertimeBadge       bool        `json:"overtimeBadge"` // past the base limit, regardless of allowance
	Status              LimitStatus `json:"status"`
	SessionCount        int         `json:"sessionCount"`
}

// WeekWorkStats is the derived read-model for the current calendar week.
// The week starts on Sunday; catch-up is the shortfall against a per-day
// target accumulated over the workdays already elapsed.
type WeekWorkStats struct {
	WeekStart           time.Time `json:"weekStart"`
	WeeklyMinutes       int       `json:"weeklyMinutes"`
	PerDayTargetMinutes int       `json:"perDayTargetMinutes"`
	WorkdaysElapsed     int       `json:"workdaysElapsed"`
	CatchUpMinutes      int       `json:"catchUpMinutes"`
}

// WeekStart returns the Sunday midnight beginning the week containing t
func WeekStart(t time.Time) time.Time {
	return Midnight(t).AddDate(0, 0, -int(t.Weekday()))
}
