package store

import "taskdeck/internal/service"

// State is the client-visible task state.
type State struct {
	Tasks     []service.Task
	IsLoading bool
	Error     string

	// LastFetchSeq is the sequence of the newest applied fetch.
	LastFetchSeq uint64

	pending *pendingReorder
}

// pendingReorder is an optimistic reorder awaiting confirmation.
type pendingReorder struct {
	token    string
	previous []service.Task
}

// PendingReorder returns the token of the unconfirmed reorder, if any.
func (s State) PendingReorder() (string, bool) {
	if s.pending == nil {
		return "", false
	}
	return s.pending.token, true
}

// Reduce returns the state that results from applying a to s.
// The input state is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Pending:
		s.IsLoading = true

	case Rejected:
		if stale(s, a.Seq) {
			return s
		}
		s.IsLoading = false
		s.Error = a.Message

	case Settled:
		s.IsLoading = false

	case Loaded:
		if stale(s, a.Seq) {
			return s
		}
		if a.Seq > s.LastFetchSeq {
			s.LastFetchSeq = a.Seq
		}
		s.IsLoading = false
		s.Tasks = cloneTasks(a.Tasks)
		s.pending = nil

	case Appended:
		s.IsLoading = false
		tasks := make([]service.Task, 0, len(s.Tasks)+1)
		tasks = append(tasks, s.Tasks...)
		s.Tasks = append(tasks, a.Task)

	case Replaced:
		s.IsLoading = false
		if i := indexOf(s.Tasks, a.Task.LocalID); i >= 0 {
			s.Tasks = cloneTasks(s.Tasks)
			s.Tasks[i] = a.Task
		}

	case Removed:
		s.IsLoading = false
		s.Tasks = filterTasks(s.Tasks, func(t service.Task) bool { return t.LocalID != a.LocalID })

	case ClearedAll:
		s.IsLoading = false
		s.Tasks = []service.Task{}
		s.pending = nil

	case ClearedCompleted:
		s.IsLoading = false
		s.Tasks = filterTasks(s.Tasks, func(t service.Task) bool { return !t.Completed })

	case Reordered:
		if a.Token != "" {
			s.pending = &pendingReorder{token: a.Token, previous: cloneTasks(s.Tasks)}
		}
		s.Tasks = cloneTasks(a.Tasks)

	case OrderConfirmed:
		s.IsLoading = false
		if s.pending != nil && s.pending.token == a.Token {
			s.pending = nil
		}

	case OrderRejected:
		s.IsLoading = false
		s.Error = a.Message
		if s.pending != nil && s.pending.token == a.Token {
			if a.Rollback {
				s.Tasks = restoreOrder(s.Tasks, s.pending.previous)
			}
			s.pending = nil
		}

	case ErrorDismissed:
		s.Error = ""
	}
	return s
}

// stale reports whether a fetch outcome with seq lost to an applied newer fetch.
func stale(s State, seq uint64) bool {
	return seq != 0 && seq < s.LastFetchSeq
}

// restoreOrder puts current tasks back in the order they had in previous.
// Task contents come from current; tasks unknown to previous keep their
// relative order at the end, and tasks gone from current stay gone.
func restoreOrder(current, previous []service.Task) []service.Task {
	byID := make(map[int]service.Task, len(current))
	for _, t := range current {
		byID[t.LocalID] = t
	}

	out := make([]service.Task, 0, len(current))
	seen := make(map[int]bool, len(previous))
	for _, p := range previous {
		t, ok := byID[p.LocalID]
		if !ok {
			continue
		}
		t.Order = p.Order
		out = append(out, t)
		seen[p.LocalID] = true
	}
	for _, t := range current {
		if !seen[t.LocalID] {
			out = append(out, t)
		}
	}
	return out
}

func indexOf(tasks []service.Task, id int) int {
	for i, t := range tasks {
		if t.LocalID == id {
			return i
		}
	}
	return -1
}

func filterTasks(tasks []service.Task, keep func(service.Task) bool) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func cloneTasks(tasks []service.Task) []service.Task {
	if tasks == nil {
		return []service.Task{}
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
