package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(NewDoneCmd(true))
	Register(NewDoneCmd(false))
}

// DoneCmd implements the done and undo commands.
type DoneCmd struct {
	completed bool
}

// NewDoneCmd returns the done command, or undo when completed is false.
func NewDoneCmd(completed bool) *DoneCmd {
	return &DoneCmd{completed: completed}
}

func (c *DoneCmd) Name() string {
	if c.completed {
		return "done"
	}
	return "undo"
}

func (c *DoneCmd) Aliases() []string { return nil }

func (c *DoneCmd) Synopsis() string {
	if c.completed {
		return "Mark a task completed"
	}
	return "Mark a task not completed"
}

func (c *DoneCmd) Usage() string   { return fmt.Sprintf("taskdeck %s <id>...", c.Name()) }
func (c *DoneCmd) NeedsAuth() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run sets the completion flag of every given task, in order, and stops at
// the first failure.
func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(errOut, "error: %v\n", ErrTaskIDRequired)
		return exitcode.UserError
	}
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := ParseTaskID(arg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		ids = append(ids, id)
	}

	sess := newSession(cfg, svc)
	for _, id := range ids {
		if _, err := sess.syncer.Complete(ctx, id, c.completed); err != nil {
			return fail(errOut, err)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
