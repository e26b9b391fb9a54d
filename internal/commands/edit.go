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
	Register(&TitleCmd{})
	Register(&DescribeCmd{})
}

// TitleCmd implements the title command.
type TitleCmd struct{}

func (c *TitleCmd) Name() string      { return "title" }
func (c *TitleCmd) Aliases() []string { return []string{"rename"} }
func (c *TitleCmd) Synopsis() string  { return "Change a task's title" }
func (c *TitleCmd) Usage() string     { return "taskdeck title <id> <title...>" }
func (c *TitleCmd) NeedsAuth() bool   { return true }

func (c *TitleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TitleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, rest, err := parseIDArg(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	title := strings.Join(rest, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task, err := newSession(cfg, svc).syncer.UpdateTitle(ctx, id, title)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}

// DescribeCmd implements the describe command.
// An empty description clears it.
type DescribeCmd struct{}

func (c *DescribeCmd) Name() string      { return "describe" }
func (c *DescribeCmd) Aliases() []string { return []string{"desc"} }
func (c *DescribeCmd) Synopsis() string  { return "Change a task's description" }
func (c *DescribeCmd) Usage() string     { return "taskdeck describe <id> [text...]" }
func (c *DescribeCmd) NeedsAuth() bool   { return true }

func (c *DescribeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DescribeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, rest, err := parseIDArg(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	desc := strings.Join(rest, " ")
	warnLongDescription(errOut, desc)

	task, err := newSession(cfg, svc).syncer.UpdateDescription(ctx, id, desc)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTaskLong(out, task)
	}
	return exitcode.Success
}
