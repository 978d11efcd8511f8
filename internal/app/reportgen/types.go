// internal/app/reportgen/types.go
package reportgen

import (
	"context"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/reportpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskQuery describes the tasks a report needs: the caller's resolved
// access scope intersected with the validated filter. Matches is the
// reference matching semantics; the mongo task store must return a
// superset of nothing and a subset of nothing relative to it, and
// in-memory sources (tests) apply it directly.
type TaskQuery struct {
	Scope      reportpolicy.AccessScope
	Statuses   []models.TaskStatus
	Priorities []int
	ProjectIDs []primitive.ObjectID
	UserIDs    []primitive.ObjectID
	Start      *time.Time // inclusive UTC midnight
	End        *time.Time // inclusive calendar date (matches through end of day)
}

// Matches reports whether a task satisfies the query.
//
// The date range matches the task's activity window: a task is in range
// when it was created on or before the end date and last active on or
// after the start date.
func (q TaskQuery) Matches(t models.Task) bool {
	if !q.Scope.All {
		if len(q.Scope.Roots) > 0 {
			p, err := orgpath.Parse(t.Department)
			if err != nil || !orgpath.InAnySubtree(q.Scope.Roots, p) {
				return false
			}
		} else if q.Scope.AssigneeIDs == nil {
			return false
		}
	}
	if q.Scope.AssigneeIDs != nil && !assignedToAny(t, q.Scope.AssigneeIDs) {
		return false
	}

	if len(q.Statuses) > 0 && !containsStatus(q.Statuses, t.Status) {
		return false
	}
	if len(q.Priorities) > 0 && !containsInt(q.Priorities, t.Priority) {
		return false
	}
	if len(q.ProjectIDs) > 0 && !containsID(q.ProjectIDs, t.ProjectID) {
		return false
	}
	if len(q.UserIDs) > 0 && !assignedToAny(t, q.UserIDs) {
		return false
	}

	if q.Start != nil && t.ActivityAt().Before(*q.Start) {
		return false
	}
	if q.End != nil && !t.CreatedAt.Before(q.End.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func assignedToAny(t models.Task, ids []primitive.ObjectID) bool {
	for _, id := range ids {
		for _, a := range t.AssignedTo {
			if id == a {
				return true
			}
		}
	}
	return false
}

func containsStatus(list []models.TaskStatus, s models.TaskStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func containsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// TaskSource fetches task records for aggregation.
type TaskSource interface {
	QueryTasks(ctx context.Context, q TaskQuery) ([]models.Task, error)
}

// Directory resolves organizational rank rows for manager scoping.
type Directory interface {
	DivisionRanks(ctx context.Context, division string) (map[primitive.ObjectID]models.OrgRank, error)
}

/* ---------------------------- result types ---------------------------- */

// Report type literals carried in the envelope.
const (
	TypeDepartmental     = "departmental_performance"
	TypeTaskStatus       = "task_status"
	TypeUserProductivity = "user_productivity"
	TypeProject          = "project_performance"
)

// StatusCounts carries a count per task status; every status is always
// present as a key (zero-filled) so charts render all columns.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Blocked    int `json:"blocked"`
}

func (c *StatusCounts) add(s models.TaskStatus) {
	switch s {
	case models.StatusPending:
		c.Pending++
	case models.StatusInProgress:
		c.InProgress++
	case models.StatusCompleted:
		c.Completed++
	case models.StatusCancelled:
		c.Cancelled++
	case models.StatusBlocked:
		c.Blocked++
	}
}

func (c *StatusCounts) merge(o StatusCounts) {
	c.Pending += o.Pending
	c.InProgress += o.InProgress
	c.Completed += o.Completed
	c.Cancelled += o.Cancelled
	c.Blocked += o.Blocked
}

// PriorityCounts buckets priorities into low (1-3), medium (4-6), and
// high (7-10).
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func (c *PriorityCounts) add(p int) {
	switch {
	case p <= 3:
		c.Low++
	case p <= 6:
		c.Medium++
	default:
		c.High++
	}
}

func (c *PriorityCounts) merge(o PriorityCounts) {
	c.Low += o.Low
	c.Medium += o.Medium
	c.High += o.High
}

// DepartmentStats is one row of the departmental report: one literal
// department path with its own counts.
type DepartmentStats struct {
	Department            string         `json:"department"`
	TotalTasks            int            `json:"total_tasks"`
	StatusCounts          StatusCounts   `json:"status_counts"`
	PriorityCounts        PriorityCounts `json:"priority_counts"`
	CompletionRate        int            `json:"completion_rate"` // percent, rounded
	MemberCount           int            `json:"member_count"`    // distinct assignees among matched tasks
	AverageTasksPerMember float64        `json:"average_tasks_per_member"`
}

// Summary aggregates across all departments in the resolved scope.
// AverageCompletionRate is the UNWEIGHTED mean of the per-department
// rates; weighting it by task count would materially change the number
// for unevenly sized departments.
type Summary struct {
	TotalDepartments      int            `json:"total_departments"`
	TotalTasks            int            `json:"total_tasks"`
	TotalMembers          int            `json:"total_members"`
	AverageCompletionRate int            `json:"average_completion_rate"`
	StatusCounts          StatusCounts   `json:"overall_status_counts"`
	PriorityCounts        PriorityCounts `json:"overall_priority_counts"`
}

// PeriodStats is one time-series bucket: an ISO week ("2025-W41") or a
// calendar month ("2025-10") with aggregate counts across all matched
// tasks in that window. Zero-task buckets still appear.
type PeriodStats struct {
	Period         string         `json:"period"`
	TotalTasks     int            `json:"total_tasks"`
	StatusCounts   StatusCounts   `json:"status_counts"`
	PriorityCounts PriorityCounts `json:"priority_counts"`
	CompletionRate int            `json:"completion_rate"`
}

// Insights are derived superlatives over the department rows. All
// fields are empty only when the report itself carries no departments
// (the envelope then carries insights: null).
type Insights struct {
	MostProductiveDepartment  string `json:"most_productive_department"`
	LeastProductiveDepartment string `json:"least_productive_department"`
	HighestWorkloadDepartment string `json:"highest_workload_department"`
}

// AppliedFilter echoes the filter actually applied, post-normalization
// and post-scoping, so a caller can see exactly what the report covers.
// Departments lists the resolved scope roots; nil means unrestricted.
type AppliedFilter struct {
	Departments []string `json:"departments,omitempty"`
	Projects    []string `json:"projects,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
	Priorities  []int    `json:"priorities,omitempty"`
	Users       []string `json:"users,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Interval    string   `json:"interval,omitempty"`
}

// Meta is the envelope shared by every report kind.
type Meta struct {
	ReportID    string        `json:"report_id"`
	ReportType  string        `json:"report_type"`
	GeneratedAt time.Time     `json:"generated_at"`
	GeneratedBy string        `json:"generated_by"`
	Filters     AppliedFilter `json:"filters"`
}

// DepartmentReport is the departmental performance report.
type DepartmentReport struct {
	Meta
	Summary     Summary           `json:"summary"`
	Departments []DepartmentStats `json:"departments"`
	TimeSeries  []PeriodStats     `json:"time_series,omitempty"`
	Insights    *Insights         `json:"insights"`
}

// StatusRow is one row of the task-status report.
type StatusRow struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Share  int    `json:"share"` // percent of all matched tasks, rounded
}

// TaskStatusReport breaks the matched tasks down by status.
type TaskStatusReport struct {
	Meta
	TotalTasks int           `json:"total_tasks"`
	Statuses   []StatusRow   `json:"statuses"`
	TimeSeries []PeriodStats `json:"time_series,omitempty"`
}

// UserStats is one row of the user-productivity report. A task with
// several assignees counts toward each of them.
type UserStats struct {
	UserID         string       `json:"user_id"`
	TotalTasks     int          `json:"total_tasks"`
	StatusCounts   StatusCounts `json:"status_counts"`
	CompletionRate int          `json:"completion_rate"`
}

// UserProductivityReport groups the matched tasks by assignee.
type UserProductivityReport struct {
	Meta
	Users      []UserStats   `json:"users"`
	TimeSeries []PeriodStats `json:"time_series,omitempty"`
}

// ProjectStats is one row of the project report.
type ProjectStats struct {
	ProjectID      string       `json:"project_id"`
	TotalTasks     int          `json:"total_tasks"`
	StatusCounts   StatusCounts `json:"status_counts"`
	CompletionRate int          `json:"completion_rate"`
}

// ProjectReport groups the matched tasks by project.
type ProjectReport struct {
	Meta
	Projects   []ProjectStats `json:"projects"`
	TimeSeries []PeriodStats  `json:"time_series,omitempty"`
}
