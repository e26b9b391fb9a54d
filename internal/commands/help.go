package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(NewHelpCmd(DefaultRegistry))
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskdeck                  List tasks (same as taskdeck list)")

	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	for _, cmd := range registry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-25s %s\n", name, cmd.Synopsis())
		fmt.Fprintf(out, "      %s\n", cmd.Usage())
	}

	fmt.Fprint(out, commonFlags)
	return exitcode.Success
}

const commonFlags = `
Common flags:
  --config <dir>   Override config directory
  --server <url>   Override the task API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
