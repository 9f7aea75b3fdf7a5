package domain

import "time"

// Status is the workflow state of a task. The set is closed; there is no
// transition graph, any status may move to any other.
type Status string

const (
	StatusToDo       Status = "To-Do"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// DefaultStatus is assigned to tasks created without an explicit status.
const DefaultStatus = StatusToDo

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work on exactly one board. The creator is fixed at
// creation time; the assignee is optional and may be cleared at any point.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Assignee    *User     `json:"assignee"`
	CreatedBy   User      `json:"created_by"`
	BoardID     int64     `json:"board"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// BoardOwnerID is resolved alongside the task so permission checks do not
	// need a second lookup. Never serialized.
	BoardOwnerID int64 `json:"-"`
}

// TaskChanges carries a partial update for a task. Nil pointer fields are left
// untouched, except AssigneeID which is applied unconditionally: an update
// without a resolvable assignee email clears the assignment.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *Status
	BoardID     *int64
	AssigneeID  *int64
}
