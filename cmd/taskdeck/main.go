// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/backend/restapi"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return restapi.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
