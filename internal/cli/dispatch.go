// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	serverURL string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.serverURL, "server", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - after parsing is a flag placed after "--"
	// or a negative number; neither is accepted.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	setupLogging(errOut, common.debug)

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.serverURL != "" {
		cfg.ServerURL = common.serverURL
	}
	slog.Debug("config loaded", "dir", cfg.Dir, "server", cfg.ServerURL, "timeout", cfg.Timeout)

	var svc service.Service
	if cmd.NeedsAuth() {
		if d.factory == nil {
			// Pre-flight only: report a missing login, svc stays nil.
			if !cfg.HasToken() {
				fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
				return exitcode.AuthError
			}
		} else {
			svc, err = d.factory(ctx, cfg)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
				} else {
					fmt.Fprintf(errOut, "error: %s\n", err)
				}
				return exitcode.AuthError
			}
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return errStr
}

// setupLogging installs the process logger: warnings only, or everything
// with --debug.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
