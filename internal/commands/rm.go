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
	Register(&RmCmd{})
	Register(&ClearCmd{})
	Register(&PurgeCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdeck rm <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, rest, err := parseIDArg(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return exitcode.UserError
	}

	if err := newSession(cfg, svc).syncer.Delete(ctx, id); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// ClearCmd implements the clear command. It deletes every task and refuses
// to run without --force.
type ClearCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *ClearCmd) SetForce(force bool) {
	c.force = force
}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all tasks" }
func (c *ClearCmd) Usage() string     { return "taskdeck clear --force" }
func (c *ClearCmd) NeedsAuth() bool   { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.force {
		fmt.Fprintln(errOut, "error: clear deletes every task (use --force)")
		return exitcode.UserError
	}

	if err := newSession(cfg, svc).syncer.DeleteAll(ctx); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// PurgeCmd implements the purge command.
type PurgeCmd struct{}

func (c *PurgeCmd) Name() string      { return "purge" }
func (c *PurgeCmd) Aliases() []string { return nil }
func (c *PurgeCmd) Synopsis() string  { return "Delete completed tasks" }
func (c *PurgeCmd) Usage() string     { return "taskdeck purge" }
func (c *PurgeCmd) NeedsAuth() bool   { return true }

func (c *PurgeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PurgeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := newSession(cfg, svc).syncer.DeleteCompleted(ctx); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
