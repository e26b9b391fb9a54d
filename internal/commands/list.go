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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list`.
type ListCmd struct {
	hideCompleted bool
	today         bool
	long          bool
}

// SetFilter sets the fetch filter (for testing).
func (c *ListCmd) SetFilter(filter service.FetchFilter) {
	c.hideCompleted = filter.HideCompleted
	c.today = filter.ShowTodayOnly
}

// SetLong selects the long format (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--hide-completed] [--today] [--long]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.hideCompleted, "hide-completed", false, "")
	fs.BoolVar(&c.today, "today", false, "")
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter := service.FetchFilter{HideCompleted: c.hideCompleted, ShowTodayOnly: c.today}
	tasks, err := newSession(cfg, svc).load(ctx, filter)
	if err != nil {
		return fail(errOut, err)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatTasks(out, tasks, c.long)
	return exitcode.Success
}
