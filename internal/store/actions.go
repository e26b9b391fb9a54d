package store

import "taskdeck/internal/service"

// Op names an asynchronous operation for the request lifecycle.
type Op string

// Task and user operations.
const (
	OpFetchAll          Op = "tasks/fetchAll"
	OpCreate            Op = "tasks/create"
	OpUpdateTitle       Op = "tasks/updateTitle"
	OpUpdateDescription Op = "tasks/updateDescription"
	OpComplete          Op = "tasks/complete"
	OpDelete            Op = "tasks/delete"
	OpDeleteAll         Op = "tasks/deleteAll"
	OpDeleteCompleted   Op = "tasks/deleteCompleted"
	OpUpdateOrder       Op = "tasks/updateOrder"
	OpValidate          Op = "user/validate"
)

// Action is a state transition handled by Reduce.
type Action interface {
	action()
}

// Pending marks the start of an operation.
type Pending struct{ Op Op }

// Rejected marks the failure of an operation with a normalized message.
// Seq is set for fetches and fenced like Loaded.
type Rejected struct {
	Op      Op
	Seq     uint64
	Message string
}

// Settled marks the success of an operation that carries no store payload.
type Settled struct{ Op Op }

// Loaded replaces the full task set with a fetch result.
// Seq is the fetch sequence number; zero means unfenced.
type Loaded struct {
	Seq    uint64
	Filter service.FetchFilter
	Tasks  []service.Task
}

// Appended adds a newly created task.
type Appended struct{ Task service.Task }

// Replaced swaps the task with the same LocalID.
type Replaced struct{ Task service.Task }

// Removed drops the task with LocalID.
type Removed struct{ LocalID int }

// ClearedAll drops every task.
type ClearedAll struct{}

// ClearedCompleted drops every completed task.
type ClearedCompleted struct{}

// Reordered applies a caller-supplied ordering before server confirmation.
// Token identifies the optimistic change; empty means no confirmation is expected.
type Reordered struct {
	Token string
	Tasks []service.Task
}

// OrderConfirmed marks a persisted reorder.
type OrderConfirmed struct{ Token string }

// OrderRejected marks a failed reorder persistence.
// With Rollback set the previous ordering is restored if Token is still pending.
type OrderRejected struct {
	Token    string
	Message  string
	Rollback bool
}

// ErrorDismissed clears the error field.
type ErrorDismissed struct{}

func (Pending) action()          {}
func (Rejected) action()         {}
func (Settled) action()          {}
func (Loaded) action()           {}
func (Appended) action()         {}
func (Replaced) action()         {}
func (Removed) action()          {}
func (ClearedAll) action()       {}
func (ClearedCompleted) action() {}
func (Reordered) action()        {}
func (OrderConfirmed) action()   {}
func (OrderRejected) action()    {}
func (ErrorDismissed) action()   {}
