// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// DescriptionLimit is the soft maximum description length in characters.
// Longer descriptions are still sent to the server.
const DescriptionLimit = 800

// Task represents a single task record.
// Field names follow the server's JSON encoding.
type Task struct {
	LocalID     int       `json:"LocalID"`
	Title       string    `json:"Title"`
	Description string    `json:"Description"`
	Completed   bool      `json:"Completed"`
	Order       int       `json:"Order"` // 1-based position in the full sequence
	CreatedAt   time.Time `json:"CreatedAt"`
}

// FetchFilter narrows what ListTasks returns. It never changes stored tasks.
type FetchFilter struct {
	HideCompleted bool
	ShowTodayOnly bool
}

// OrderUpdate is one entry of a batched order update.
type OrderUpdate struct {
	LocalID int `json:"localId"`
	Order   int `json:"order"`
}
