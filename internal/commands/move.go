package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: drag task <id> onto task <target>.
// The dragged task takes the target's position and the tasks in between
// shift by one.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to another task's position" }
func (c *MoveCmd) Usage() string     { return "taskdeck move <id> <target-id>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: move needs a task id and a target id")
		return exitcode.UserError
	}
	dragged, err := ParseTaskID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	target, err := ParseTaskID(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	sess := newSession(cfg, svc)
	tasks, err := sess.load(ctx, service.FetchFilter{})
	if err != nil {
		return fail(errOut, err)
	}
	for _, id := range []int{dragged, target} {
		if !containsTask(tasks, id) {
			fmt.Fprintf(errOut, "error: task not found: %d\n", id)
			return exitcode.UserError
		}
	}

	plan, err := sess.engine.Drop(ctx, dragged, target)
	if err != nil {
		return fail(errOut, err)
	}

	if cfg.Quiet {
		return exitcode.Success
	}
	if !plan.Changed {
		fmt.Fprintln(out, "ok")
		return exitcode.Success
	}
	output.FormatTasks(out, plan.Tasks, false)
	return exitcode.Success
}
