// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST API calls go through this interface.
// Commands never import the HTTP backend directly.
type Service interface {
	// ListTasks returns the user's tasks, narrowed by filter.
	ListTasks(ctx context.Context, filter FetchFilter) ([]Task, error)

	// CreateTask creates a task and returns it with its assigned LocalID.
	CreateTask(ctx context.Context, title, description string) (Task, error)

	// UpdateTitle replaces a task's title.
	UpdateTitle(ctx context.Context, id int, title string) (Task, error)

	// UpdateDescription replaces a task's description.
	UpdateDescription(ctx context.Context, id int, description string) (Task, error)

	// CompleteTask sets a task's completion flag.
	CompleteTask(ctx context.Context, id int, completed bool) (Task, error)

	// DeleteTask deletes a single task. The response does not echo the id.
	DeleteTask(ctx context.Context, id int) error

	// DeleteAll deletes every task of the user.
	DeleteAll(ctx context.Context) error

	// DeleteCompleted deletes every completed task of the user.
	DeleteCompleted(ctx context.Context) error

	// UpdateOrder persists a full ordering in one request.
	UpdateOrder(ctx context.Context, updates []OrderUpdate) error

	// Validate checks that the stored session is accepted by the server.
	Validate(ctx context.Context) error
}
