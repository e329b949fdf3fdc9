package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Display renders the canonical value for direct display ("in_progress" -> "in progress").
func (s TaskStatus) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p TaskPriority) Display() string {
	return strings.ReplaceAll(string(p), "_", " ")
}

type Task struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CategoryID   *int         `json:"category_id,omitempty"`
	CategoryName *string      `json:"category_name,omitempty"`
	UserID       int          `json:"user_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TaskFilter holds the optional equality filters for listing tasks.
// Nil pointers mean the filter is not applied; the owner constraint is
// always supplied separately by the caller.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	CategoryID *int
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
// Owner and creation time are not representable here on purpose.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	CategoryID  *int
}

type TaskStats struct {
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	PendingTasks      int `json:"pending_tasks"`
	InProgressTasks   int `json:"in_progress_tasks"`
	HighPriorityTasks int `json:"high_priority_tasks"`
	OverdueTasks      int `json:"overdue_tasks"`
}
