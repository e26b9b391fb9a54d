// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = &service.Error{Kind: service.KindServer, Status: 404, Message: "Cant find a task!"}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int

	// Now stamps created tasks. Defaults to time.Now.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr         error
	CreateTaskErr        error
	UpdateTitleErr       error
	UpdateDescriptionErr error
	CompleteTaskErr      error
	DeleteTaskErr        error
	DeleteAllErr         error
	DeleteCompletedErr   error
	UpdateOrderErr       error
	ValidateErr          error

	// BeforeListTasks runs before ListTasks reads state, outside the lock.
	// A non-nil return fails that call.
	BeforeListTasks func(ctx context.Context, filter service.FetchFilter) error

	// Recorded calls
	ListCalls   []service.FetchFilter
	OrderCalls  [][]service.OrderUpdate
	DeleteCalls []int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1, Now: time.Now}
}

// AddTask adds a task at the end of the order and returns it.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(title, "", completed)
}

func (f *FakeService) addLocked(title, description string, completed bool) service.Task {
	t := service.Task{
		LocalID:     f.nextID,
		Title:       title,
		Description: description,
		Completed:   completed,
		Order:       len(f.tasks) + 1,
		CreatedAt:   f.Now(),
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns the stored tasks sorted by Order.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

// ListCallCount returns how many times ListTasks was called.
func (f *FakeService) ListCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ListCalls)
}

// LastListFilter returns the filter of the most recent ListTasks call.
func (f *FakeService) LastListFilter() (service.FetchFilter, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ListCalls) == 0 {
		return service.FetchFilter{}, false
	}
	return f.ListCalls[len(f.ListCalls)-1], true
}

func (f *FakeService) sortedLocked() []service.Task {
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (f *FakeService) indexLocked(id int) int {
	for i, t := range f.tasks {
		if t.LocalID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.FetchFilter) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, filter)
	hook := f.BeforeListTasks
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, filter); err != nil {
			return nil, err
		}
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.Now()
	var out []service.Task
	for _, t := range f.sortedLocked() {
		if filter.HideCompleted && t.Completed {
			continue
		}
		if filter.ShowTodayOnly && !sameDay(t.CreatedAt, today) {
			continue
		}
		out = append(out, t)
	}
	if out == nil {
		out = []service.Task{}
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(title, description, false), nil
}

func (f *FakeService) update(id int, injected error, apply func(*service.Task)) (service.Task, error) {
	if injected != nil {
		return service.Task{}, injected
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, ErrNotFound
	}
	apply(&f.tasks[i])
	return f.tasks[i], nil
}

// UpdateTitle implements service.Service.
func (f *FakeService) UpdateTitle(ctx context.Context, id int, title string) (service.Task, error) {
	return f.update(id, f.UpdateTitleErr, func(t *service.Task) { t.Title = title })
}

// UpdateDescription implements service.Service.
func (f *FakeService) UpdateDescription(ctx context.Context, id int, description string) (service.Task, error) {
	return f.update(id, f.UpdateDescriptionErr, func(t *service.Task) { t.Description = description })
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id int, completed bool) (service.Task, error) {
	return f.update(id, f.CompleteTaskErr, func(t *service.Task) { t.Completed = completed })
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	f.mu.Unlock()

	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// DeleteAll implements service.Service.
func (f *FakeService) DeleteAll(ctx context.Context) error {
	if f.DeleteAllErr != nil {
		return f.DeleteAllErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = nil
	return nil
}

// DeleteCompleted implements service.Service.
func (f *FakeService) DeleteCompleted(ctx context.Context) error {
	if f.DeleteCompletedErr != nil {
		return f.DeleteCompletedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

// UpdateOrder implements service.Service.
func (f *FakeService) UpdateOrder(ctx context.Context, updates []service.OrderUpdate) error {
	f.mu.Lock()
	f.OrderCalls = append(f.OrderCalls, append([]service.OrderUpdate(nil), updates...))
	f.mu.Unlock()

	if f.UpdateOrderErr != nil {
		return f.UpdateOrderErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range updates {
		if i := f.indexLocked(u.LocalID); i >= 0 {
			f.tasks[i].Order = u.Order
		}
	}
	return nil
}

// Validate implements service.Service.
func (f *FakeService) Validate(ctx context.Context) error {
	return f.ValidateErr
}
