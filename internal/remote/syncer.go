// Package remote runs backend calls through the pending → fulfilled | rejected
// lifecycle and reconciles their results into the task store.
package remote

import (
	"context"
	"log/slog"
	"sync/atomic"

	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// fallbacks are the messages used when the server gives no usable error.
var fallbacks = map[store.Op]string{
	store.OpFetchAll:          "cannot fetch all tasks",
	store.OpCreate:            "Can`t create a task",
	store.OpUpdateTitle:       "Cannot update task title",
	store.OpUpdateDescription: "Cannot update a task description",
	store.OpComplete:          "Cannot complete a task",
	store.OpDelete:            "Cannot delete a task",
	store.OpDeleteAll:         "Cannot delete all tasks",
	store.OpDeleteCompleted:   "Cannot delete all completed tasks",
	store.OpUpdateOrder:       "Cannot update task order",
	store.OpValidate:          "Failed to validate user",
}

// Fallback returns the fixed failure message of op.
func Fallback(op store.Op) string {
	return fallbacks[op]
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.log = l }
}

// WithRollback controls whether a failed order update restores the previous order.
func WithRollback(enabled bool) Option {
	return func(s *Syncer) { s.rollback = enabled }
}

// Syncer invokes Service operations and applies their outcome to a Store.
// Operations are safe for concurrent use; the store serializes their effects.
type Syncer struct {
	svc      service.Service
	store    *store.Store
	log      *slog.Logger
	rollback bool
	fetchSeq atomic.Uint64
}

// New creates a Syncer. Rollback is enabled unless disabled by an option.
func New(svc service.Service, st *store.Store, opts ...Option) *Syncer {
	s := &Syncer{
		svc:      svc,
		store:    st,
		log:      slog.Default(),
		rollback: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store the Syncer writes to.
func (s *Syncer) Store() *store.Store { return s.store }

// FetchAll loads the task list. Each call takes the next fetch sequence number
// so a response that arrives after a newer one is discarded.
func (s *Syncer) FetchAll(ctx context.Context, filter service.FetchFilter) ([]service.Task, error) {
	seq := s.fetchSeq.Add(1)
	return run(s, ctx, store.OpFetchAll, seq,
		func(ctx context.Context) ([]service.Task, error) { return s.svc.ListTasks(ctx, filter) },
		func(tasks []service.Task) store.Action { return store.Loaded{Seq: seq, Filter: filter, Tasks: tasks} },
	)
}

// Create creates a task and appends it.
func (s *Syncer) Create(ctx context.Context, title, description string) (service.Task, error) {
	return run(s, ctx, store.OpCreate, 0,
		func(ctx context.Context) (service.Task, error) { return s.svc.CreateTask(ctx, title, description) },
		func(t service.Task) store.Action { return store.Appended{Task: t} },
	)
}

// UpdateTitle renames a task.
func (s *Syncer) UpdateTitle(ctx context.Context, id int, title string) (service.Task, error) {
	return run(s, ctx, store.OpUpdateTitle, 0,
		func(ctx context.Context) (service.Task, error) { return s.svc.UpdateTitle(ctx, id, title) },
		replaced,
	)
}

// UpdateDescription replaces a task's description.
func (s *Syncer) UpdateDescription(ctx context.Context, id int, description string) (service.Task, error) {
	return run(s, ctx, store.OpUpdateDescription, 0,
		func(ctx context.Context) (service.Task, error) { return s.svc.UpdateDescription(ctx, id, description) },
		replaced,
	)
}

// Complete sets a task's completion flag.
func (s *Syncer) Complete(ctx context.Context, id int, completed bool) (service.Task, error) {
	return run(s, ctx, store.OpComplete, 0,
		func(ctx context.Context) (service.Task, error) { return s.svc.CompleteTask(ctx, id, completed) },
		replaced,
	)
}

// Delete removes a task. The store entry is found by the requested id.
func (s *Syncer) Delete(ctx context.Context, id int) error {
	_, err := run(s, ctx, store.OpDelete, 0,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.svc.DeleteTask(ctx, id) },
		func(struct{}) store.Action { return store.Removed{LocalID: id} },
	)
	return err
}

// DeleteAll removes every task.
func (s *Syncer) DeleteAll(ctx context.Context) error {
	_, err := run(s, ctx, store.OpDeleteAll, 0,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.svc.DeleteAll(ctx) },
		func(struct{}) store.Action { return store.ClearedAll{} },
	)
	return err
}

// DeleteCompleted removes every completed task.
func (s *Syncer) DeleteCompleted(ctx context.Context) error {
	_, err := run(s, ctx, store.OpDeleteCompleted, 0,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.svc.DeleteCompleted(ctx) },
		func(struct{}) store.Action { return store.ClearedCompleted{} },
	)
	return err
}

// Validate checks the session with the server.
func (s *Syncer) Validate(ctx context.Context) error {
	_, err := run(s, ctx, store.OpValidate, 0,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.svc.Validate(ctx) },
		func(struct{}) store.Action { return store.Settled{Op: store.OpValidate} },
	)
	return err
}

// UpdateOrder persists a full ordering. On success only the loading flag and
// the pending token are cleared; the server is the source of truth afterwards.
// On failure the reorder identified by token is rolled back if rollback is enabled.
func (s *Syncer) UpdateOrder(ctx context.Context, token string, updates []service.OrderUpdate) error {
	s.store.Dispatch(store.Pending{Op: store.OpUpdateOrder})
	if err := s.svc.UpdateOrder(ctx, updates); err != nil {
		nerr := normalize(store.OpUpdateOrder, err)
		s.logRejected(store.OpUpdateOrder, nerr)
		s.store.Dispatch(store.OrderRejected{Token: token, Message: nerr.Message, Rollback: s.rollback})
		return nerr
	}
	s.store.Dispatch(store.OrderConfirmed{Token: token})
	return nil
}

// run dispatches Pending, performs call, then dispatches exactly one of the
// fulfilled action or Rejected. A non-zero seq fences the rejection against
// newer fetches.
func run[T any](s *Syncer, ctx context.Context, op store.Op, seq uint64, call func(context.Context) (T, error), fulfilled func(T) store.Action) (T, error) {
	s.store.Dispatch(store.Pending{Op: op})

	v, err := call(ctx)
	if err != nil {
		nerr := normalize(op, err)
		s.logRejected(op, nerr)
		s.store.Dispatch(store.Rejected{Op: op, Seq: seq, Message: nerr.Message})
		var zero T
		return zero, nerr
	}

	s.store.Dispatch(fulfilled(v))
	return v, nil
}

func replaced(t service.Task) store.Action { return store.Replaced{Task: t} }

func (s *Syncer) logRejected(op store.Op, err *service.Error) {
	s.log.Debug("operation rejected",
		"op", string(op),
		"kind", err.Kind.String(),
		"status", err.Status,
		"error", err.Message,
	)
}

// normalize collapses any failure into a *service.Error whose Message is the
// server-provided message or the operation's fallback.
func normalize(op store.Op, err error) *service.Error {
	se, ok := service.AsError(err)
	if !ok {
		// Anything that is not a classified backend error never reached the server.
		se = &service.Error{Kind: service.KindNetwork, Err: err}
	}
	out := *se
	if out.Kind != service.KindServer || out.Message == "" {
		out.Message = Fallback(op)
	}
	return &out
}
