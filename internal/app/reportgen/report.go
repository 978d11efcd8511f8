// internal/app/reportgen/report.go

// Package reportgen is the access-scoped reporting engine: it validates
// an inbound filter, resolves the caller's organizational authority,
// fetches the matching tasks, and reduces them into department, status,
// user, and project performance reports.
//
// The pipeline is stateless; every report is built fresh per request
// and nothing is cached. Validation and authorization failures are
// expected caller-caused outcomes carried as typed errors
// (reportpolicy.ErrUnauthenticated, *reportpolicy.ForbiddenError,
// *ValidationError); only store failures are system errors.
package reportgen

import (
	"context"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/reportpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine generates reports. Now and NewID exist so tests can pin the
// envelope; New wires the real clock and uuid.
type Engine struct {
	Tasks TaskSource
	Dir   Directory
	Log   *zap.Logger

	Now   func() time.Time
	NewID func() string
}

// New builds an Engine over the given task source and directory.
func New(tasks TaskSource, dir Directory, logger *zap.Logger) *Engine {
	return &Engine{
		Tasks: tasks,
		Dir:   dir,
		Log:   logger,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// DepartmentalPerformance builds the departmental performance report:
// per-department rows, an overall summary, an optional time series, and
// derived insights. Requires the hr or admin role; hr callers are
// confined to their home department subtree.
func (e *Engine) DepartmentalPerformance(ctx context.Context, caller *authz.Caller, raw RawFilter) (*DepartmentReport, error) {
	c, f, scope, tasks, err := e.resolve(ctx, caller, raw, TypeDepartmental,
		models.RoleHR, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	rows := groupByDepartment(tasks)
	return &DepartmentReport{
		Meta:        e.meta(TypeDepartmental, c, f, scope),
		Summary:     summarize(rows, tasks),
		Departments: rows,
		TimeSeries:  buildTimeSeries(tasks, f),
		Insights:    deriveInsights(rows),
	}, nil
}

// TaskStatus builds the task-status breakdown over the caller's scope.
// Requires the hr or admin role.
func (e *Engine) TaskStatus(ctx context.Context, caller *authz.Caller, raw RawFilter) (*TaskStatusReport, error) {
	c, f, scope, tasks, err := e.resolve(ctx, caller, raw, TypeTaskStatus,
		models.RoleHR, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	total, rows := statusBreakdown(tasks)
	return &TaskStatusReport{
		Meta:       e.meta(TypeTaskStatus, c, f, scope),
		TotalTasks: total,
		Statuses:   rows,
		TimeSeries: buildTimeSeries(tasks, f),
	}, nil
}

// UserProductivity builds the per-assignee productivity report.
// Managers may run it over themselves and their more junior
// same-division colleagues; hr and admin callers get the same
// departmental scoping as the other reports.
func (e *Engine) UserProductivity(ctx context.Context, caller *authz.Caller, raw RawFilter) (*UserProductivityReport, error) {
	if caller == nil {
		return nil, reportpolicy.ErrUnauthenticated
	}
	c := *caller
	if err := reportpolicy.Authorize(c, true, models.RoleManager, models.RoleHR, models.RoleAdmin); err != nil {
		return nil, err
	}
	f, err := ValidateFilter(raw)
	if err != nil {
		return nil, err
	}

	var scope reportpolicy.AccessScope
	if c.Role == models.RoleManager {
		if len(f.Departments) > 0 {
			return nil, &reportpolicy.ForbiddenError{
				Reason: "role \"manager\" has no departmental reporting authority",
			}
		}
		ranks, derr := e.Dir.DivisionRanks(ctx, c.Division)
		if derr != nil {
			e.logStoreFailure(TypeUserProductivity, "directory.division_ranks", derr)
			return nil, &StoreError{Op: "directory.division_ranks", Err: derr}
		}
		scope = reportpolicy.AccessScope{AssigneeIDs: reportpolicy.ManagerAssignees(c, ranks)}
	} else {
		scope, err = reportpolicy.ScopeDepartments(c, f.Departments)
		if err != nil {
			return nil, err
		}
	}

	tasks, err := e.fetch(ctx, TypeUserProductivity, scope, f)
	if err != nil {
		return nil, err
	}
	return &UserProductivityReport{
		Meta:       e.meta(TypeUserProductivity, c, f, scope),
		Users:      groupByAssignee(tasks),
		TimeSeries: buildTimeSeries(tasks, f),
	}, nil
}

// Project builds the per-project performance report. Requires the hr or
// admin role.
func (e *Engine) Project(ctx context.Context, caller *authz.Caller, raw RawFilter) (*ProjectReport, error) {
	c, f, scope, tasks, err := e.resolve(ctx, caller, raw, TypeProject,
		models.RoleHR, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &ProjectReport{
		Meta:       e.meta(TypeProject, c, f, scope),
		Projects:   groupByProject(tasks),
		TimeSeries: buildTimeSeries(tasks, f),
	}, nil
}

// resolve runs the shared pipeline prologue: authenticate, authorize by
// role, validate the filter, intersect it with the caller's departmental
// authority, and fetch the matching tasks.
func (e *Engine) resolve(ctx context.Context, caller *authz.Caller, raw RawFilter, reportType string, allowed ...models.Role) (authz.Caller, Filter, reportpolicy.AccessScope, []models.Task, error) {
	if caller == nil {
		return authz.Caller{}, Filter{}, reportpolicy.AccessScope{}, nil, reportpolicy.ErrUnauthenticated
	}
	c := *caller
	if err := reportpolicy.Authorize(c, true, allowed...); err != nil {
		return c, Filter{}, reportpolicy.AccessScope{}, nil, err
	}
	f, err := ValidateFilter(raw)
	if err != nil {
		return c, Filter{}, reportpolicy.AccessScope{}, nil, err
	}
	scope, err := reportpolicy.ScopeDepartments(c, f.Departments)
	if err != nil {
		return c, f, reportpolicy.AccessScope{}, nil, err
	}
	tasks, err := e.fetch(ctx, reportType, scope, f)
	if err != nil {
		return c, f, scope, nil, err
	}
	return c, f, scope, tasks, nil
}

// fetch loads the tasks for an authorized, validated request. An empty
// scope skips the store entirely and flows an empty task set through the
// normal aggregation path, producing a structurally complete report.
func (e *Engine) fetch(ctx context.Context, reportType string, scope reportpolicy.AccessScope, f Filter) ([]models.Task, error) {
	if !scope.Visible() {
		return nil, nil
	}
	q := TaskQuery{
		Scope:      scope,
		Statuses:   f.Statuses,
		Priorities: f.Priorities,
		ProjectIDs: f.ProjectIDs,
		UserIDs:    f.UserIDs,
		Start:      f.Start,
		End:        f.End,
	}
	tasks, err := e.Tasks.QueryTasks(ctx, q)
	if err != nil {
		e.logStoreFailure(reportType, "tasks.query", err)
		return nil, &StoreError{Op: "tasks.query", Err: err}
	}
	return tasks, nil
}

func (e *Engine) logStoreFailure(reportType, op string, err error) {
	if e.Log == nil {
		return
	}
	e.Log.Error("report data fetch failed",
		zap.String("report_type", reportType),
		zap.String("op", op),
		zap.Error(err))
}

// meta stamps the shared envelope. Filters echoes what was actually
// applied after scoping, not what the caller asked for.
func (e *Engine) meta(reportType string, c authz.Caller, f Filter, scope reportpolicy.AccessScope) Meta {
	return Meta{
		ReportID:    e.NewID(),
		ReportType:  reportType,
		GeneratedAt: e.Now(),
		GeneratedBy: c.ID.Hex(),
		Filters:     appliedFilter(f, scope),
	}
}

// appliedFilter renders the post-scoping filter for the envelope.
func appliedFilter(f Filter, scope reportpolicy.AccessScope) AppliedFilter {
	a := AppliedFilter{
		Priorities: f.Priorities,
		Interval:   string(f.Interval),
	}
	if !scope.All {
		a.Departments = orgpath.Strings(scope.Roots)
	}
	for _, id := range f.ProjectIDs {
		a.Projects = append(a.Projects, id.Hex())
	}
	for _, s := range f.Statuses {
		a.Statuses = append(a.Statuses, string(s))
	}
	for _, id := range f.UserIDs {
		a.Users = append(a.Users, id.Hex())
	}
	if f.Start != nil {
		a.StartDate = f.Start.Format(dateLayout)
	}
	if f.End != nil {
		a.EndDate = f.End.Format(dateLayout)
	}
	return a
}
