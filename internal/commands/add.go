package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskdeck add [--desc <text>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	warnLongDescription(errOut, c.description)

	task, err := newSession(cfg, svc).syncer.Create(ctx, title, c.description)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
