// Package task is the shared to-do board for HR staff. Tasks are claimed
// exclusively: taking one that someone else already took is a conflict, not a
// silent reassignment.
package task

import "time"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          int64
	Title       string
	Description *string
	Priority    Priority
	Status      Status
	CreatedBy   int64
	TakenBy     *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}
