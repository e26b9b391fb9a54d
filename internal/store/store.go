// Package store holds the client-side ordered task collection and its request status.
//
// All changes go through Reduce. Store serializes dispatches so each one
// completes before the next is applied, and notifies subscribers in dispatch order.
package store

import (
	"sync"

	"taskdeck/internal/service"
)

// Listener observes every dispatched action and the resulting state.
// Listeners run while the store is locked and must not dispatch.
type Listener func(a Action, s State)

// Store owns a State and applies actions to it.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		state:     State{Tasks: []service.Task{}},
		listeners: make(map[int]Listener),
	}
}

// Dispatch applies a and returns the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.applyLocked(a)
}

// Update calls fn with the current state and applies the action it returns,
// with no other dispatch in between. A nil action leaves the store unchanged
// and reports false. fn runs under the store lock and must not dispatch.
func (s *Store) Update(fn func(State) Action) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := fn(s.snapshot())
	if a == nil {
		return s.snapshot(), false
	}
	return s.applyLocked(a), true
}

func (s *Store) applyLocked(a Action) State {
	s.state = Reduce(s.state, a)
	snap := s.snapshot()
	for _, l := range s.listeners {
		l(a, snap)
	}
	return snap
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Tasks returns a copy of the current task sequence.
func (s *Store) Tasks() []service.Task {
	return s.State().Tasks
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshot() State {
	snap := s.state
	snap.Tasks = cloneTasks(s.state.Tasks)
	return snap
}

// Load replaces the full set of tasks.
func (s *Store) Load(tasks []service.Task) { s.Dispatch(Loaded{Tasks: tasks}) }

// Append adds a single new task at the end.
func (s *Store) Append(task service.Task) { s.Dispatch(Appended{Task: task}) }

// ReplaceOne replaces the task with the same LocalID. No-op if absent.
func (s *Store) ReplaceOne(task service.Task) { s.Dispatch(Replaced{Task: task}) }

// RemoveOne drops the task with id. Other tasks keep their Order.
func (s *Store) RemoveOne(id int) { s.Dispatch(Removed{LocalID: id}) }

// RemoveAll drops every task.
func (s *Store) RemoveAll() { s.Dispatch(ClearedAll{}) }

// RemoveCompleted drops every completed task.
func (s *Store) RemoveCompleted() { s.Dispatch(ClearedCompleted{}) }

// SetOrder replaces the collection with tasks, keeping their exact sequence.
func (s *Store) SetOrder(tasks []service.Task) { s.Dispatch(Reordered{Tasks: tasks}) }

// DismissError clears the error field.
func (s *Store) DismissError() { s.Dispatch(ErrorDismissed{}) }
