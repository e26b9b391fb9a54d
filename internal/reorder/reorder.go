// Package reorder turns a drag-and-drop gesture into a new total order of tasks.
package reorder

import (
	"context"

	"github.com/google/uuid"

	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// NoTarget is the drop target for a task dropped outside any valid target.
const NoTarget = 0

// Plan is the outcome of a move.
type Plan struct {
	// Tasks is the new sequence with Order renumbered 1..N.
	// When Changed is false it is the input sequence.
	Tasks []service.Task

	// Payload holds one {localId, order} entry per task.
	Payload []service.OrderUpdate

	// Changed is false when the gesture is a no-op.
	Changed bool
}

// Move removes the dragged task from its position and reinserts it at the
// position of the task under the pointer. Tasks in between shift by one.
// Every task's Order is recomputed from its new index.
//
// Dropping on NoTarget, on the dragged task itself, or naming an id that is
// not in tasks yields an unchanged plan.
func Move(tasks []service.Task, dragged, over int) Plan {
	unchanged := Plan{Tasks: tasks}
	if over == NoTarget || over == dragged {
		return unchanged
	}

	from, to := -1, -1
	for i, t := range tasks {
		switch t.LocalID {
		case dragged:
			from = i
		case over:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return unchanged
	}

	moved := make([]service.Task, 0, len(tasks))
	moved = append(moved, tasks[:from]...)
	moved = append(moved, tasks[from+1:]...)
	moved = append(moved[:to], append([]service.Task{tasks[from]}, moved[to:]...)...)

	payload := make([]service.OrderUpdate, len(moved))
	for i := range moved {
		moved[i].Order = i + 1
		payload[i] = service.OrderUpdate{LocalID: moved[i].LocalID, Order: i + 1}
	}

	return Plan{Tasks: moved, Payload: payload, Changed: true}
}

// Persister sends a batched order update tied to an optimistic change.
type Persister interface {
	UpdateOrder(ctx context.Context, token string, updates []service.OrderUpdate) error
}

// Engine applies moves to a store and persists them.
type Engine struct {
	store     *store.Store
	persister Persister
}

// NewEngine creates an Engine.
func NewEngine(st *store.Store, p Persister) *Engine {
	return &Engine{store: st, persister: p}
}

// Drop handles a completed drag gesture. The new order is applied to the store
// before the server is asked to persist it, and exactly one request is issued.
// No request is made for a no-op gesture.
//
// The plan is computed from and applied to the same store state, so a load
// that lands concurrently is never overwritten by an order built from older tasks.
func (e *Engine) Drop(ctx context.Context, dragged, over int) (Plan, error) {
	token := uuid.NewString()

	var plan Plan
	e.store.Update(func(s store.State) store.Action {
		plan = Move(s.Tasks, dragged, over)
		if !plan.Changed {
			return nil
		}
		return store.Reordered{Token: token, Tasks: plan.Tasks}
	})
	if !plan.Changed {
		return plan, nil
	}

	return plan, e.persister.UpdateOrder(ctx, token, plan.Payload)
}
