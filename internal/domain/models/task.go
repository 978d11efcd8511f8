// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is a task's kanban column.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusBlocked    TaskStatus = "blocked"
)

// AllTaskStatuses lists every status in board-column order. Reports
// zero-fill their status counts from this list so every status is always
// present as a key.
var AllTaskStatuses = []TaskStatus{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusBlocked,
}

// ValidTaskStatus reports whether s is one of the five known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	for _, known := range AllTaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Task priority bounds. Reports bucket priorities into low (1-3),
// medium (4-6), and high (7-10).
const (
	PriorityMin = 1
	PriorityMax = 10
)

// Task is a unit of work on a project board.
//
// Department is resolved transitively from the first assignee's home
// department when the task is created or reassigned; reports group by
// this value. LastActivityAt advances on every mutation (status change,
// reassignment, comment) and defines, together with CreatedAt, the
// activity window that report date ranges match against.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	TitleCI     string               `bson:"title_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus           `bson:"status" json:"status"`
	Priority    int                  `bson:"priority" json:"priority"` // 1..10
	AssignedTo  []primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	ProjectID   primitive.ObjectID   `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Department  string               `bson:"department,omitempty" json:"department,omitempty"`
	Deadline    *time.Time           `bson:"deadline,omitempty" json:"deadline,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	LastActivityAt time.Time `bson:"last_activity_at" json:"last_activity_at"`
}

// ActivityAt returns the timestamp used to place the task inside a
// report time-series bucket: the last activity time, falling back to the
// creation time for legacy records that predate activity tracking.
func (t Task) ActivityAt() time.Time {
	if !t.LastActivityAt.IsZero() {
		return t.LastActivityAt
	}
	return t.CreatedAt
}
