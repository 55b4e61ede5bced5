package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// clockInCommand opens a new work session
func (c *CLI) clockInCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "clockin [title]",
		Short: "Clock in and start a work session",
		Long: `Clock in and start a new work session, optionally naming the task
being worked on.

Fails when a session is already open, or when today's work-time limit
has already been reached.

Examples:
  growth clockin
  growth clockin "Quarterly report"
  growth clockin "Quarterly report" --category finance`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) > 0 {
				title = args[0]
			}

			id, err := c.app.Tracker().ClockIn(cmd.Context(), title, category)
			if err != nil {
				return err
			}

			if title != "" {
				_, _ = fmt.Fprintf(c.stdout, "Clocked in: %s\n", title)
			} else {
				_, _ = fmt.Fprintln(c.stdout, "Clocked in")
			}
			_, _ = fmt.Fprintf(c.stdout, "  Session: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category id for the session")
	return cmd
}

// clockOutCommand closes the open session
func (c *CLI) clockOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clockout",
		Short: "Clock out and close the open session",
		Long: `Clock out and close the currently open work session. A running break
is ended and counted first.

Safe to run with no open session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := c.app.Tracker()

			open := tracker.OpenSession()
			if open == nil {
				_, _ = fmt.Fprintln(c.stdout, "No open session")
				return nil
			}

			if err := tracker.ClockOut(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(c.stdout, "Clocked out")
			return nil
		},
	}
}

// switchCommand replaces the open session's task title
func (c *CLI) switchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <title>",
		Short: "Switch to a different task mid-session",
		Long: `Switch the open session to a different task. The finished task
stretch is recorded as a segment in the session's task history.

Examples:
  growth switch "Code review"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Tracker().SwitchTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.stdout, "Switched to: %s\n", args[0])
			return nil
		},
	}
}

// noteCommand sets the notes of a session
func (c *CLI) noteCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "note <text>...",
		Short: "Set the notes of a session",
		Long: `Set the free-text notes of a session. Targets the open session by
default; --session targets any session by id.

Examples:
  growth note waiting on design feedback
  growth note --session 3f2a... "handover notes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := c.app.Tracker()

			id := sessionID
			if id == "" {
				open := tracker.OpenSession()
				if open == nil {
					return fmt.Errorf("no open session; use --session to target a closed one")
				}
				id = open.ID
			}

			text := strings.Join(args, " ")
			if err := tracker.UpdateNotes(cmd.Context(), id, text); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.stdout, "Notes updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id (defaults to the open session)")
	return cmd
}

// deleteCommand removes a session record
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session record",
		Long:  `Delete a session record entirely. Deleting the open session discards it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Tracker().DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.stdout, "Session deleted")
			return nil
		},
	}
}
