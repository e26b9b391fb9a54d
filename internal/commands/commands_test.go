package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// newConfig returns a config with defaults rooted in a temp dir.
func newConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	t.Setenv(config.ServerURLEnv, "")
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	cfg.Quiet = quiet
	return cfg
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, svc, newConfig(t, quiet), args)
}

func runWithConfig(t *testing.T, cmd commands.Command, svc *testutil.FakeService, cfg *config.Config, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)
	svc.AddTask("Call Bob", true)
	svc.AddTask("Write report", false)
	return svc
}

func titles(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, commands.NewHelpCmd(commands.DefaultRegistry), nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "taskdeck move <id> <target-id>", "--server <url>", "done", "undo"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestListCommand_WithTasks(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk\n   2  [x] Call Bob\n   3  [ ] Write report\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_HideCompleted(t *testing.T) {
	svc := seeded()
	cmd := &commands.ListCmd{}
	cmd.SetFilter(service.FetchFilter{HideCompleted: true})

	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Buy milk\n   3  [ ] Write report\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if f, _ := svc.LastListFilter(); !f.HideCompleted || f.ShowTodayOnly {
		t.Errorf("unexpected filter sent: %+v", f)
	}
}

func TestListCommand_Long(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	if _, err := svc.CreateTask(context.Background(), "Write report", "quarterly numbers"); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.ListCmd{}
	cmd.SetLong(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Write report\n          quarterly numbers\n          created 2026-03-14 09:30\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendErrorUsesFallback(t *testing.T) {
	svc := seeded()
	svc.ListTasksErr = &service.Error{Kind: service.KindNetwork}

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: cannot fetch all tasks\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_SessionRejected(t *testing.T) {
	svc := seeded()
	svc.ListTasksErr = &service.Error{Kind: service.KindServer, Status: 401, Message: "Unauthorized"}

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Unauthorized\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_Success(t *testing.T) {
	svc := seeded()
	cmd := &commands.AddCmd{}
	cmd.SetDescription("two liters")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "water"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "   4  [ ] Buy water\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	tasks := svc.Tasks()
	if len(tasks) != 4 || tasks[3].Description != "two liters" || tasks[3].Order != 4 {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 0 {
		t.Error("no task should have been created")
	}
}

func TestAddCommand_LongDescriptionWarns(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	cmd.SetDescription(strings.Repeat("é", service.DescriptionLimit+1))

	_, stderr, code := runCommand(t, cmd, svc, []string{"x"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "warning: description is 801 characters (limit 800)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 1 {
		t.Error("task should still be created")
	}
}

func TestAddCommand_ServerMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = &service.Error{Kind: service.KindServer, Status: 400, Message: "Title is too long"}

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"x"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Title is too long\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTitleCommand(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.TitleCmd{}, svc, []string{"#1", "Buy", "oat", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  [ ] Buy oat milk\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if got := svc.Tasks()[0].Title; got != "Buy oat milk" {
		t.Errorf("title not updated: %q", got)
	}
}

func TestTitleCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.TitleCmd{}, seeded(), []string{"9", "x"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Cant find a task!\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTitleCommand_BadArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "error: task id required\n"},
		{"bad id", []string{"abc", "x"}, "error: invalid task id: abc\n"},
		{"no title", []string{"1"}, "error: title required\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.TitleCmd{}, seeded(), tt.args, false)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDescribeCommand(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, &commands.DescribeCmd{}, svc, []string{"3", "Q3", "numbers"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Tasks()[2].Description; got != "Q3 numbers" {
		t.Errorf("description not updated: %q", got)
	}
}

func TestDescribeCommand_FailureFallback(t *testing.T) {
	svc := seeded()
	svc.UpdateDescriptionErr = &service.Error{Kind: service.KindServerUnstructured, Status: 500}

	_, stderr, code := runCommand(t, &commands.DescribeCmd{}, svc, []string{"3", "x"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Cannot update a task description\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_Success(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, commands.NewDoneCmd(true), svc, []string{"1", "#3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	for _, task := range svc.Tasks() {
		if !task.Completed {
			t.Errorf("task %d should be completed", task.LocalID)
		}
	}
}

func TestUndoCommand(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, commands.NewDoneCmd(false), svc, []string{"2"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if svc.Tasks()[1].Completed {
		t.Error("task 2 should not be completed")
	}
}

func TestDoneCommand_NoID(t *testing.T) {
	_, stderr, code := runCommand(t, commands.NewDoneCmd(true), seeded(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_InvalidIDRunsNothing(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, commands.NewDoneCmd(true), svc, []string{"1", "x"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task id: x\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Tasks()[0].Completed {
		t.Error("no task should change when an id is invalid")
	}
}

func TestDoneCommand_Failure(t *testing.T) {
	svc := seeded()
	svc.CompleteTaskErr = &service.Error{Kind: service.KindServer, Status: 500, Message: "Cant complete task!"}

	_, stderr, code := runCommand(t, commands.NewDoneCmd(true), svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Cant complete task!\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_Success(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if got := titles(svc.Tasks()); strings.Join(got, ",") != "Buy milk,Write report" {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestRmCommand_ExtraArgs(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, seeded(), []string{"1", "2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: 2\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestClearCommand_RequiresForce(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.ClearCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "--force") {
		t.Errorf("expected a hint about --force, got %q", stderr)
	}
	if len(svc.Tasks()) != 3 {
		t.Error("tasks should not be deleted without --force")
	}
}

func TestClearCommand_Force(t *testing.T) {
	svc := seeded()
	cmd := &commands.ClearCmd{}
	cmd.SetForce(true)

	_, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if len(svc.Tasks()) != 0 {
		t.Error("all tasks should be deleted")
	}
}

func TestPurgeCommand(t *testing.T) {
	svc := seeded()

	_, _, code := runCommand(t, &commands.PurgeCmd{}, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := titles(svc.Tasks()); strings.Join(got, ",") != "Buy milk,Write report" {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestPurgeCommand_Failure(t *testing.T) {
	svc := seeded()
	svc.DeleteCompletedErr = &service.Error{Kind: service.KindNetwork}

	_, stderr, code := runCommand(t, &commands.PurgeCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Cannot delete all completed tasks\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestMoveCommand(t *testing.T) {
	svc := seeded()

	stdout, stderr, code := runCommand(t, &commands.MoveCmd{}, svc, []string{"1", "3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   2  [x] Call Bob\n   3  [ ] Write report\n   1  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	if len(svc.OrderCalls) != 1 {
		t.Fatalf("expected one order update, got %d", len(svc.OrderCalls))
	}
	want := []service.OrderUpdate{{LocalID: 2, Order: 1}, {LocalID: 3, Order: 2}, {LocalID: 1, Order: 3}}
	for i, u := range svc.OrderCalls[0] {
		if u != want[i] {
			t.Errorf("payload[%d] = %+v, want %+v", i, u, want[i])
		}
	}
}

func TestMoveCommand_OntoItselfSendsNothing(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.MoveCmd{}, svc, []string{"2", "2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if len(svc.OrderCalls) != 0 {
		t.Errorf("expected no order update, got %d", len(svc.OrderCalls))
	}
}

func TestMoveCommand_UnknownTask(t *testing.T) {
	svc := seeded()

	_, stderr, code := runCommand(t, &commands.MoveCmd{}, svc, []string{"1", "9"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.OrderCalls) != 0 {
		t.Error("no order update expected")
	}
}

func TestMoveCommand_PersistFailure(t *testing.T) {
	svc := seeded()
	svc.UpdateOrderErr = &service.Error{Kind: service.KindServerUnstructured, Status: 502}

	stdout, stderr, code := runCommand(t, &commands.MoveCmd{}, svc, []string{"3", "1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Cannot update task order\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestWatchCommand_CoalescesToggles(t *testing.T) {
	svc := seeded()
	cfg := newConfig(t, false)
	cfg.FetchDebounce = time.Hour

	cmd := &commands.WatchCmd{}
	cmd.SetInput(strings.NewReader("h\nt\nt\n"))

	stdout, stderr, code := runWithConfig(t, cmd, svc, cfg, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if n := svc.ListCallCount(); n != 1 {
		t.Errorf("expected one fetch, got %d", n)
	}

	expected := "-- hide-completed: on, today: off --\n   1  [ ] Buy milk\n   3  [ ] Write report\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestWatchCommand_UnknownKey(t *testing.T) {
	cfg := newConfig(t, false)
	cfg.FetchDebounce = time.Hour

	cmd := &commands.WatchCmd{}
	cmd.SetInput(strings.NewReader("x\nq\nh\n"))

	stdout, stderr, code := runWithConfig(t, cmd, seeded(), cfg, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, `unknown key: "x"`) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	// q stops reading, so the trailing h is ignored
	if !strings.HasPrefix(stdout, "-- hide-completed: off, today: off --\n") {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestWatchCommand_FetchFailure(t *testing.T) {
	svc := seeded()
	svc.ListTasksErr = &service.Error{Kind: service.KindNetwork}
	cfg := newConfig(t, false)
	cfg.FetchDebounce = time.Hour

	cmd := &commands.WatchCmd{}
	cmd.SetInput(strings.NewReader(""))

	stdout, stderr, code := runWithConfig(t, cmd, svc, cfg, nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: cannot fetch all tasks\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestWhoamiCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.WhoamiCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "logged in to http://localhost:8080\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestWhoamiCommand_Rejected(t *testing.T) {
	svc := seeded()
	svc.ValidateErr = &service.Error{Kind: service.KindServerUnstructured, Status: 401}

	_, stderr, code := runCommand(t, &commands.WhoamiCmd{}, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Failed to validate user\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
