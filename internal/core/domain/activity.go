package domain

import "time"

// Action classifies an activity entry.
type Action string

const (
	ActionAdded   Action = "added"
	ActionUpdated Action = "updated"
	ActionRemoved Action = "removed"
	ActionMoved   Action = "moved"
)

// Actions lists every action kind.
var Actions = []Action{ActionAdded, ActionUpdated, ActionRemoved, ActionMoved}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionAdded, ActionUpdated, ActionRemoved, ActionMoved:
		return true
	}
	return false
}

// ActivityLogEntry is an immutable audit record of one inventory change.
type ActivityLogEntry struct {
	ID           string    `json:"id"`
	Action       Action    `json:"action"`
	ItemName     string    `json:"itemName"`
	Details      string    `json:"details"`
	EmployeeName string    `json:"employeeName"`
	Timestamp    time.Time `json:"timestamp"`
}

// Snapshot is a point-in-time copy of the inventory. Callers own it.
type Snapshot struct {
	Items      []StorageItem      `json:"items"`
	Activities []ActivityLogEntry `json:"activities"`
}
