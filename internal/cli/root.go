package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/app"
)

// CLI builds the command tree over an assembled application. Output
// writers are injectable so tests can capture them.
type CLI struct {
	app    *app.App
	stdout io.Writer
	stderr io.Writer
}

// New creates a CLI over the given application
func New(application *app.App) *CLI {
	return &CLI{
		app:    application,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput redirects command output. Used by tests.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
}

// RootCommand builds the full command tree
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "growth",
		Short: "Work-session time tracking with daily limit enforcement",
		Long: `growth tracks work sessions: clock in and out, take breaks, switch
tasks mid-session, and keep a daily work-time limit with grace periods,
bounded overtime and weekly catch-up.

Examples:
  growth clockin "Quarterly report"
  growth break start --kind lunch
  growth switch "Code review"
  growth status
  growth clockout`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(c.clockInCommand())
	root.AddCommand(c.clockOutCommand())
	root.AddCommand(c.breakCommand())
	root.AddCommand(c.switchCommand())
	root.AddCommand(c.noteCommand())
	root.AddCommand(c.overworkCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.weekCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.deleteCommand())

	return root
}

// Execute runs the command tree for one invocation
func Execute(ctx context.Context, application *app.App) error {
	c := New(application)
	root := c.RootCommand()

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
