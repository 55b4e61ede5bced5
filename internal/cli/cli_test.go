package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/app"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()

	application, err := app.New(app.Options{
		Environment:  "test",
		UserID:       "u1",
		SettingsPath: filepath.Join(t.TempDir(), "settings.toml"),
	})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { application.Shutdown(context.Background()) })

	if err := application.Tracker().Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	return New(application)
}

// run executes one command line against a fresh command tree, capturing
// stdout
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	c.SetOutput(&out, &errOut)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClockInStatusClockOut(t *testing.T) {
	c := newTestCLI(t)

	out, err := run(t, c, "clockin", "Quarterly report")
	if err != nil {
		t.Fatalf("clockin failed: %v", err)
	}
	if !strings.Contains(out, "Clocked in: Quarterly report") {
		t.Errorf("clockin output = %q", out)
	}

	out, err = run(t, c, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "Working on: Quarterly report") {
		t.Errorf("status output = %q", out)
	}
	if !strings.Contains(out, "under the daily limit") {
		t.Errorf("status output = %q", out)
	}

	out, err = run(t, c, "clockout")
	if err != nil {
		t.Fatalf("clockout failed: %v", err)
	}
	if !strings.Contains(out, "Clocked out") {
		t.Errorf("clockout output = %q", out)
	}

	// Idle clockout is calm
	out, err = run(t, c, "clockout")
	if err != nil {
		t.Fatalf("idle clockout failed: %v", err)
	}
	if !strings.Contains(out, "No open session") {
		t.Errorf("idle clockout output = %q", out)
	}
}

func TestDoubleClockInFails(t *testing.T) {
	c := newTestCLI(t)

	if _, err := run(t, c, "clockin", "Task 1"); err != nil {
		t.Fatalf("clockin failed: %v", err)
	}
	if _, err := run(t, c, "clockin", "Task 2"); err == nil {
		t.Error("second clockin must fail")
	}
}

func TestBreakCommands(t *testing.T) {
	c := newTestCLI(t)

	// No session: break start tells the user, does not error
	out, err := run(t, c, "break", "start")
	if err != nil {
		t.Fatalf("break start failed: %v", err)
	}
	if !strings.Contains(out, "No open session") {
		t.Errorf("break start output = %q", out)
	}

	if _, err := run(t, c, "clockin", "Task 1"); err != nil {
		t.Fatalf("clockin failed: %v", err)
	}

	if out, err = run(t, c, "break", "start", "--kind", "lunch", "--planned", "45"); err != nil {
		t.Fatalf("break start failed: %v", err)
	}
	if !strings.Contains(out, "Break started") {
		t.Errorf("break start output = %q", out)
	}

	if out, err = run(t, c, "break", "start"); err != nil {
		t.Fatalf("second break start failed: %v", err)
	}
	if !strings.Contains(out, "already running") {
		t.Errorf("second break start output = %q", out)
	}

	if out, err = run(t, c, "break", "end"); err != nil {
		t.Fatalf("break end failed: %v", err)
	}
	if !strings.Contains(out, "Break ended") {
		t.Errorf("break end output = %q", out)
	}

	if out, err = run(t, c, "break", "add", "30"); err != nil {
		t.Fatalf("break add failed: %v", err)
	}
	if !strings.Contains(out, "30m break") {
		t.Errorf("break add output = %q", out)
	}

	if _, err = run(t, c, "break", "add", "481"); err == nil {
		t.Error("break add 481 must fail validation")
	}
	if _, err = run(t, c, "break", "add", "abc"); err == nil {
		t.Error("break add abc must fail")
	}
}

func TestSwitchAndSessions(t *testing.T) {
	c := newTestCLI(t)

	if _, err := run(t, c, "switch", "Task 2"); err == nil {
		t.Error("switch with no session must fail")
	}

	if _, err := run(t, c, "clockin", "Task 1"); err != nil {
		t.Fatalf("clockin failed: %v", err)
	}
	if _, err := run(t, c, "switch", "Task 2"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	out, err := run(t, c, "sessions")
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "Task 2") || !strings.Contains(out, "1 task switches") {
		t.Errorf("sessions output = %q", out)
	}
}

func TestNoteAndDelete(t *testing.T) {
	c := newTestCLI(t)

	if _, err := run(t, c, "note", "orphan note"); err == nil {
		t.Error("note with no session and no --session must fail")
	}

	if _, err := run(t, c, "clockin", "Task 1"); err != nil {
		t.Fatalf("clockin failed: %v", err)
	}
	if _, err := run(t, c, "note", "waiting", "on", "review"); err != nil {
		t.Fatalf("note failed: %v", err)
	}

	open := c.app.Tracker().OpenSession()
	if open.Notes != "waiting on review" {
		t.Errorf("Notes = %q", open.Notes)
	}

	if _, err := run(t, c, "delete", open.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if c.app.Tracker().OpenSession() != nil {
		t.Error("open session must be gone after delete")
	}
}

func TestOverworkCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := run(t, c, "overwork", "60")
	if err != nil {
		t.Fatalf("overwork failed: %v", err)
	}
	if !strings.Contains(out, "1h") {
		t.Errorf("overwork output = %q", out)
	}
	if got := c.app.Settings().Get().OverworkMinutesRequested; got != 60 {
		t.Errorf("OverworkMinutesRequested = %d, want 60", got)
	}

	if _, err := run(t, c, "overwork", "999"); err == nil {
		t.Error("overwork above the maximum must fail")
	}

	if out, err = run(t, c, "overwork", "0"); err != nil {
		t.Fatalf("overwork 0 failed: %v", err)
	}
	if !strings.Contains(out, "withdrawn") {
		t.Errorf("overwork 0 output = %q", out)
	}
}

func TestWeekCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := run(t, c, "week")
	if err != nil {
		t.Fatalf("week failed: %v", err)
	}
	if !strings.Contains(out, "Week of") {
		t.Errorf("week output = %q", out)
	}
}
