package services

import (
	"time"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// nearCapBufferMinutes is how close to the applied limit the status
// escalates from warning to nearCap.
const nearCapBufferMinutes = 15

// ComputeDayStats derives the daily limit read-model from a day's
// sessions, the policy snapshot, and the wall clock. Pure function with
// no side effects; safe to call on every timer tick. Open sessions
// contribute their live worked time evaluated at now.
func ComputeDayStats(sessions []*types.WorkSession, policy types.LimitPolicyConfig, now time.Time) types.DayWorkStats {
	baseLimit := policy.BaseLimitMinutes()
	appliedLimit := policy.AppliedLimitMinutes()

	todayMinutes := 0
	for _, s := range sessions {
		todayMinutes += s.WorkedMinutesAt(now)
	}

	remaining := appliedLimit - todayMinutes
	if remaining < 0 {
		remaining = 0
	}

	var status types.LimitStatus
	switch {
	case todayMinutes >= appliedLimit:
		status = types.LimitStatusHardCap
	case todayMinutes >= appliedLimit-nearCapBufferMinutes:
		status = types.LimitStatusNearCap
	case todayMinutes >= baseLimit:
		status = types.LimitStatusWarning
	default:
		status = types.LimitStatusNormal
	}

	return types.DayWorkStats{
		Date:                types.Midnight(now),
		TodayMinutes:        todayMinutes,
		BaseLimitMinutes:    baseLimit,
		AppliedLimitMinutes: appliedLimit,
		RemainingMinutes:    remaining,
		OvertimeBadge:       todayMinutes > baseLimit,
		Status:              status,
		SessionCount:        len(sessions),
	}
}

// ComputeWeekStats derives the weekly catch-up read-model. The week
// starts Sunday; the per-day target accrues over workdays (Mon-Fri)
// already elapsed, today included. Extra hours worked shrink the owed
// catch-up to zero, never below.
func ComputeWeekStats(sessions []*types.WorkSession, policy types.LimitPolicyConfig, now time.Time) types.WeekWorkStats {
	weekStart := types.WeekStart(now)
	perDayTarget := policy.BaseLimitMinutes()

	weeklyMinutes := 0
	for _, s := range sessions {
		weeklyMinutes += s.WorkedMinutesAt(now)
	}

	workdays := workdaysElapsed(weekStart, now)

	catchUp := perDayTarget*workdays - weeklyMinutes
	if catchUp < 0 {
		catchUp = 0
	}

	return types.WeekWorkStats{
		WeekStart:           weekStart,
		WeeklyMinutes:       weeklyMinutes,
		PerDayTargetMinutes: perDayTarget,
		WorkdaysElapsed:     workdays,
		CatchUpMinutes:      catchUp,
	}
}

// workdaysElapsed counts Mon-Fri days between weekStart and now, both
// normalized to calendar days, today included.
func workdaysElapsed(weekStart, now time.Time) int {
	today := types.Midnight(now)
	count := 0
	for d := weekStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}
