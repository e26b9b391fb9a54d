package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/remote"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// session wires one command invocation: a fresh store, the sync layer on top
// of svc, and the reorder engine persisting through it.
type session struct {
	store  *store.Store
	syncer *remote.Syncer
	engine *reorder.Engine
}

func newSession(cfg *config.Config, svc service.Service) *session {
	st := store.New()
	s := remote.New(svc, st,
		remote.WithLogger(slog.Default()),
		remote.WithRollback(cfg.RollbackOnFailure),
	)
	return &session{
		store:  st,
		syncer: s,
		engine: reorder.NewEngine(st, s),
	}
}

// load fetches the task list into the store.
func (s *session) load(ctx context.Context, filter service.FetchFilter) ([]service.Task, error) {
	if _, err := s.syncer.FetchAll(ctx, filter); err != nil {
		return nil, err
	}
	return s.store.Tasks(), nil
}

// fail prints a failed call and returns its exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.FromError(err)
}

// warnLongDescription notes a description over the limit. The server decides
// whether to accept it.
func warnLongDescription(errOut io.Writer, desc string) {
	if n := utf8.RuneCountInString(desc); n > service.DescriptionLimit {
		fmt.Fprintf(errOut, "warning: description is %d characters (limit %d)\n", n, service.DescriptionLimit)
	}
}
