package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/types"
)

// breakCommand groups the break subcommands
func (c *CLI) breakCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Manage breaks within the open session",
		Long: `Start and end breaks in the open session, or record a break taken
earlier.

Examples:
  growth break start --kind lunch --planned 45
  growth break end
  growth break add 30`,
	}

	cmd.AddCommand(c.breakStartCommand())
	cmd.AddCommand(c.breakEndCommand())
	cmd.AddCommand(c.breakAddCommand())
	return cmd
}

func (c *CLI) breakStartCommand() *cobra.Command {
	var (
		planned int
		kind    string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a break",
		Long: `Start a break in the open session. Worked time freezes until the
break ends. Safe to run with no open session or with a break already
running; neither case changes anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := c.app.Tracker()

			open := tracker.OpenSession()
			if open == nil {
				_, _ = fmt.Fprintln(c.stdout, "No open session")
				return nil
			}
			if open.ActiveBreak() != nil {
				_, _ = fmt.Fprintln(c.stdout, "A break is already running")
				return nil
			}

			if err := tracker.StartBreak(planned, types.BreakKind(kind), title); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.stdout, "Break started")
			return nil
		},
	}

	cmd.Flags().IntVar(&planned, "planned", 0, "Planned break length in minutes (display only)")
	cmd.Flags().StringVar(&kind, "kind", string(types.BreakKindShort), "Break kind: short, lunch or custom")
	cmd.Flags().StringVar(&title, "title", "", "Break label")
	return cmd
}

func (c *CLI) breakEndCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the running break",
		Long: `End the running break and add its length to the session's break
total. Safe to run with no break running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := c.app.Tracker()

			open := tracker.OpenSession()
			if open == nil || open.ActiveBreak() == nil {
				_, _ = fmt.Fprintln(c.stdout, "No break running")
				return nil
			}

			if err := tracker.EndBreak(cmd.Context()); err != nil {
				return err
			}

			updated := tracker.OpenSession()
			_, _ = fmt.Fprintf(c.stdout, "Break ended (%s of breaks today)\n",
				formatMinutes(updated.BreakMinutes))
			return nil
		},
	}
}

func (c *CLI) breakAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <minutes>",
		Short: "Record a break taken earlier",
		Long: `Record a break that was already taken, ending now. The length must
be between 1 and 480 minutes.

Examples:
  growth break add 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: must be a whole number", args[0])
			}

			if err := c.app.Tracker().AddManualBreak(cmd.Context(), minutes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.stdout, "Recorded a %s break\n", formatMinutes(minutes))
			return nil
		},
	}
}
