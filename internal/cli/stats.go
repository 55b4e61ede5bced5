package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// statusCommand shows today's stats and the open session
func (c *CLI) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the open session and today's limit status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := c.app.Tracker()

			open := tracker.OpenSession()
			if open == nil {
				_, _ = fmt.Fprintln(c.stdout, "Not clocked in")
			} else {
				label := open.Title
				if label == "" {
					label = "(untitled)"
				}
				_, _ = fmt.Fprintf(c.stdout, "Working on: %s\n", label)
				_, _ = fmt.Fprintf(c.stdout, "  Since: %s\n", open.ClockIn.Format("3:04 PM"))
				if active := open.ActiveBreak(); active != nil {
					_, _ = fmt.Fprintf(c.stdout, "  On break since %s\n", active.StartTime.Format("3:04 PM"))
				}
			}

			stats, err := tracker.TodayStats(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(c.stdout, "Today: %s worked", formatMinutes(stats.TodayMinutes))
			if stats.SessionCount > 1 {
				_, _ = fmt.Fprintf(c.stdout, " across %d sessions", stats.SessionCount)
			}
			_, _ = fmt.Fprintln(c.stdout)
			_, _ = fmt.Fprintf(c.stdout, "  Limit: %s (%s remaining)\n",
				formatMinutes(stats.AppliedLimitMinutes), formatMinutes(stats.RemainingMinutes))
			_, _ = fmt.Fprintf(c.stdout, "  Status: %s\n", describeStatus(stats.Status))
			if stats.OvertimeBadge {
				_, _ = fmt.Fprintln(c.stdout, "  Past the base daily limit")
			}
			return nil
		},
	}
}

// weekCommand shows the weekly catch-up read-model
func (c *CLI) weekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show this week's totals and catch-up time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Tracker().WeekStats(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(c.stdout, "Week of %s\n", stats.WeekStart.Format("Mon Jan 2"))
			_, _ = fmt.Fprintf(c.stdout, "  Worked: %s\n", formatMinutes(stats.WeeklyMinutes))
			_, _ = fmt.Fprintf(c.stdout, "  Target: %s/day over %d workdays\n",
				formatMinutes(stats.PerDayTargetMinutes), stats.WorkdaysElapsed)
			if stats.CatchUpMinutes > 0 {
				_, _ = fmt.Fprintf(c.stdout, "  Catch-up owed: %s\n", formatMinutes(stats.CatchUpMinutes))
			} else {
				_, _ = fmt.Fprintln(c.stdout, "  On target")
			}
			return nil
		},
	}
}

// sessionsCommand lists recent sessions
func (c *CLI) sessionsCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent sessions",
		Long: `List sessions from the last days (default 7), oldest first.

Examples:
  growth sessions
  growth sessions --days 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}

			now := time.Now()
			to := types.Midnight(now).AddDate(0, 0, 1)
			from := to.AddDate(0, 0, -days)

			sessions, err := c.app.Tracker().SessionsForPeriod(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(c.stdout, "No sessions in this period")
				return nil
			}

			for _, s := range sessions {
				c.printSessionLine(s, now)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days back to list")
	return cmd
}

func (c *CLI) printSessionLine(s *types.WorkSession, now time.Time) {
	label := s.Title
	if label == "" {
		label = "(untitled)"
	}

	span := s.ClockIn.Format("Jan 2 3:04 PM")
	if s.ClockOut != nil {
		span += " - " + s.ClockOut.Format("3:04 PM")
	} else {
		span += " - open"
	}

	_, _ = fmt.Fprintf(c.stdout, "%s  %s  %s worked", s.ID, span, formatMinutes(s.WorkedMinutesAt(now)))
	if s.BreakMinutes > 0 {
		_, _ = fmt.Fprintf(c.stdout, ", %s breaks", formatMinutes(s.BreakMinutes))
	}
	if len(s.Segments) > 0 {
		_, _ = fmt.Fprintf(c.stdout, ", %d task switches", len(s.Segments))
	}
	_, _ = fmt.Fprintf(c.stdout, "  %s\n", label)
}

// overworkCommand sets today's overtime allowance
func (c *CLI) overworkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overwork <minutes>",
		Short: "Request extra work time for today",
		Long: `Request extra minutes past the base daily limit for today. The
request replaces the grace buffer, is bounded by the configured
maximum, and resets at the start of the next day. Zero withdraws the
request.

Examples:
  growth overwork 60
  growth overwork 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: must be a whole number", args[0])
			}

			if err := c.app.Settings().SetOverworkMinutesRequested(minutes, time.Now()); err != nil {
				return err
			}

			if minutes == 0 {
				_, _ = fmt.Fprintln(c.stdout, "Overwork request withdrawn")
			} else {
				_, _ = fmt.Fprintf(c.stdout, "Overwork of %s granted for today\n", formatMinutes(minutes))
			}
			return nil
		},
	}
}

// formatMinutes renders a minute count as "7h 30m"
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// describeStatus renders a limit status for humans
func describeStatus(status types.LimitStatus) string {
	switch status {
	case types.LimitStatusNormal:
		return "under the daily limit"
	case types.LimitStatusWarning:
		return "past the base limit"
	case types.LimitStatusNearCap:
		return "close to the hard cap"
	case types.LimitStatusHardCap:
		return "hard cap reached"
	default:
		return string(status)
	}
}
