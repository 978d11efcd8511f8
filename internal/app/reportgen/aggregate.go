// internal/app/reportgen/aggregate.go
package reportgen

import (
	"math"
	"sort"

	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tally reduces a set of tasks to the counts shared by every grouping:
// status counts, priority buckets, and the completion rate.
type tally struct {
	total    int
	statuses StatusCounts
	prios    PriorityCounts
	members  map[primitive.ObjectID]struct{}
}

func newTally() *tally {
	return &tally{members: make(map[primitive.ObjectID]struct{})}
}

func (a *tally) add(t models.Task) {
	a.total++
	a.statuses.add(t.Status)
	a.prios.add(t.Priority)
	for _, id := range t.AssignedTo {
		a.members[id] = struct{}{}
	}
}

// completionRate is completed/total as a percentage rounded to the
// nearest integer; 0 for an empty group, never a divide-by-zero.
func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// groupByDepartment produces one row per literal department path found
// among the matched tasks, sorted by path for deterministic output.
// Tasks without a department (no assignee yet) are grouped under the
// empty path and dropped from the departmental rows.
func groupByDepartment(tasks []models.Task) []DepartmentStats {
	groups := make(map[string]*tally)
	for _, t := range tasks {
		if t.Department == "" {
			continue
		}
		g, ok := groups[t.Department]
		if !ok {
			g = newTally()
			groups[t.Department] = g
		}
		g.add(t)
	}

	rows := make([]DepartmentStats, 0, len(groups))
	for dept, g := range groups {
		row := DepartmentStats{
			Department:     dept,
			TotalTasks:     g.total,
			StatusCounts:   g.statuses,
			PriorityCounts: g.prios,
			CompletionRate: completionRate(g.statuses.Completed, g.total),
			MemberCount:    len(g.members),
		}
		if len(g.members) > 0 {
			avg := float64(g.total) / float64(len(g.members))
			row.AverageTasksPerMember = math.Round(avg*100) / 100
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Department < rows[j].Department })
	return rows
}

// summarize aggregates the department rows plus the full match set into
// the report summary. The average completion rate is the unweighted
// mean of the per-department rates.
func summarize(rows []DepartmentStats, tasks []models.Task) Summary {
	s := Summary{TotalDepartments: len(rows)}

	rateSum := 0
	for _, row := range rows {
		s.TotalTasks += row.TotalTasks
		s.StatusCounts.merge(row.StatusCounts)
		s.PriorityCounts.merge(row.PriorityCounts)
		rateSum += row.CompletionRate
	}
	if len(rows) > 0 {
		s.AverageCompletionRate = int(math.Round(float64(rateSum) / float64(len(rows))))
	}

	members := make(map[primitive.ObjectID]struct{})
	for _, t := range tasks {
		for _, id := range t.AssignedTo {
			members[id] = struct{}{}
		}
	}
	s.TotalMembers = len(members)
	return s
}

// statusBreakdown produces the task-status report rows in canonical
// column order, zero-filled.
func statusBreakdown(tasks []models.Task) (int, []StatusRow) {
	var counts StatusCounts
	for _, t := range tasks {
		counts.add(t.Status)
	}
	total := len(tasks)

	byStatus := []struct {
		status models.TaskStatus
		count  int
	}{
		{models.StatusPending, counts.Pending},
		{models.StatusInProgress, counts.InProgress},
		{models.StatusCompleted, counts.Completed},
		{models.StatusCancelled, counts.Cancelled},
		{models.StatusBlocked, counts.Blocked},
	}

	rows := make([]StatusRow, 0, len(byStatus))
	for _, b := range byStatus {
		rows = append(rows, StatusRow{
			Status: string(b.status),
			Count:  b.count,
			Share:  completionRate(b.count, total), // same rounded-percent rule
		})
	}
	return total, rows
}

// groupByAssignee produces one row per assignee; a task with several
// assignees counts toward each. Rows are sorted by user ID.
func groupByAssignee(tasks []models.Task) []UserStats {
	groups := make(map[primitive.ObjectID]*tally)
	for _, t := range tasks {
		for _, id := range t.AssignedTo {
			g, ok := groups[id]
			if !ok {
				g = newTally()
				groups[id] = g
			}
			g.add(t)
		}
	}

	rows := make([]UserStats, 0, len(groups))
	for id, g := range groups {
		rows = append(rows, UserStats{
			UserID:         id.Hex(),
			TotalTasks:     g.total,
			StatusCounts:   g.statuses,
			CompletionRate: completionRate(g.statuses.Completed, g.total),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}

// groupByProject produces one row per project, sorted by project ID.
// Tasks without a project are skipped.
func groupByProject(tasks []models.Task) []ProjectStats {
	groups := make(map[primitive.ObjectID]*tally)
	for _, t := range tasks {
		if t.ProjectID.IsZero() {
			continue
		}
		g, ok := groups[t.ProjectID]
		if !ok {
			g = newTally()
			groups[t.ProjectID] = g
		}
		g.add(t)
	}

	rows := make([]ProjectStats, 0, len(groups))
	for id, g := range groups {
		rows = append(rows, ProjectStats{
			ProjectID:      id.Hex(),
			TotalTasks:     g.total,
			StatusCounts:   g.statuses,
			CompletionRate: completionRate(g.statuses.Completed, g.total),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProjectID < rows[j].ProjectID })
	return rows
}
