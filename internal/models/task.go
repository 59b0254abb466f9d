package models

import "time"

// Priority ranks a task, P1 being the most urgent
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Rank returns a sort weight where higher means more urgent
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 3
	case PriorityP2:
		return 2
	case PriorityP3:
		return 1
	default:
		return 0
	}
}

// Status is a task's position on the board
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the board columns in display order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// RecurringType is stored with tasks and events but never expanded
type RecurringType string

const (
	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
)

// Task represents a todo item
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	IsRecurring   *bool         `json:"isRecurring,omitempty"`
	RecurringType RecurringType `json:"recurringType,omitempty"`
}

// TaskDraft holds everything a caller supplies to create a task.
// The store assigns id and timestamps.
type TaskDraft struct {
	Title         string
	Description   string
	Tags          []string
	Priority      Priority
	Status        Status
	DueDate       *time.Time
	IsRecurring   *bool
	RecurringType RecurringType
}

// TaskPatch is a partial update; nil fields are left untouched.
// ClearDueDate removes the due date, which a nil DueDate cannot express.
type TaskPatch struct {
	Title         *string
	Description   *string
	Tags          *[]string
	Priority      *Priority
	Status        *Status
	DueDate       *time.Time
	ClearDueDate  bool
	IsRecurring   *bool
	RecurringType *RecurringType
}

// NewTask builds a task from a draft
func NewTask(id string, d TaskDraft, now time.Time) Task {
	return Task{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		Tags:          cloneTags(d.Tags),
		Priority:      d.Priority,
		Status:        d.Status,
		DueDate:       cloneTime(d.DueDate),
		CreatedAt:     now,
		UpdatedAt:     now,
		IsRecurring:   cloneBool(d.IsRecurring),
		RecurringType: d.RecurringType,
	}
}

// Apply merges the patch over t. Timestamps are the caller's concern.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = cloneTags(*p.Tags)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.IsRecurring != nil {
		t.IsRecurring = cloneBool(p.IsRecurring)
	}
	if p.RecurringType != nil {
		t.RecurringType = *p.RecurringType
	}
}

// Clone returns a deep copy so callers can't alias store state
func (t Task) Clone() Task {
	t.Tags = cloneTags(t.Tags)
	t.DueDate = cloneTime(t.DueDate)
	t.IsRecurring = cloneBool(t.IsRecurring)
	return t
}

// Recurring reports whether the recurrence flag is set
func (t Task) Recurring() bool {
	return t.IsRecurring != nil && *t.IsRecurring
}
