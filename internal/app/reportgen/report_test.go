// internal/app/reportgen/report_test.go
package reportgen

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/reportpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/orgpath"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memSource applies the reference matching semantics to an in-memory
// task set, standing in for the mongo store.
type memSource struct {
	tasks   []models.Task
	queries int
	err     error
}

func (m *memSource) QueryTasks(_ context.Context, q TaskQuery) ([]models.Task, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Task
	for _, t := range m.tasks {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memDirectory struct {
	ranks map[primitive.ObjectID]models.OrgRank
	err   error
}

func (m *memDirectory) DivisionRanks(context.Context, string) (map[primitive.ObjectID]models.OrgRank, error) {
	return m.ranks, m.err
}

func newTestEngine(src *memSource, dir Directory) *Engine {
	e := New(src, dir, zap.NewNop())
	e.Now = func() time.Time { return time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC) }
	e.NewID = func() string { return "report-0001" }
	return e
}

func adminCaller(t *testing.T) *authz.Caller {
	return &authz.Caller{ID: oid(t, "64a0000000000000000000aa"), Role: models.RoleAdmin}
}

func hrCaller(t *testing.T, dept string) *authz.Caller {
	c := &authz.Caller{ID: oid(t, "64a0000000000000000000bb"), Role: models.RoleHR}
	if dept != "" {
		c.Department = orgpath.MustParse(dept)
	}
	return c
}

func TestDepartmentalPerformance_AdminNoFilter(t *testing.T) {
	alice := oid(t, "64a000000000000000000001")
	bob := oid(t, "64a000000000000000000002")
	carol := oid(t, "64a000000000000000000003")

	src := &memSource{tasks: []models.Task{
		task("Engineering.Backend", models.StatusCompleted, 8, alice),
		task("Engineering.Backend", models.StatusCompleted, 5, alice),
		task("Engineering.Backend", models.StatusInProgress, 2, bob),
		task("Sales", models.StatusCompleted, 6, carol),
		task("Sales", models.StatusPending, 9, carol),
	}}
	e := newTestEngine(src, &memDirectory{})

	rep, err := e.DepartmentalPerformance(context.Background(), adminCaller(t), RawFilter{})
	if err != nil {
		t.Fatalf("DepartmentalPerformance: %v", err)
	}

	if rep.ReportType != TypeDepartmental || rep.ReportID != "report-0001" {
		t.Errorf("envelope = %+v", rep.Meta)
	}
	if rep.Filters.Departments != nil {
		t.Errorf("admin without a filter should echo no department restriction: %v", rep.Filters.Departments)
	}

	if len(rep.Departments) != 2 {
		t.Fatalf("departments = %d, want 2", len(rep.Departments))
	}
	eng, sales := rep.Departments[0], rep.Departments[1]
	if eng.Department != "Engineering.Backend" || eng.CompletionRate != 67 {
		t.Errorf("engineering row = %+v", eng)
	}
	if sales.Department != "Sales" || sales.CompletionRate != 50 {
		t.Errorf("sales row = %+v", sales)
	}

	// Unweighted mean of 67 and 50.
	if rep.Summary.AverageCompletionRate != 59 {
		t.Errorf("average completion rate = %d, want 59", rep.Summary.AverageCompletionRate)
	}
	if rep.Summary.TotalTasks != 5 || rep.Summary.TotalMembers != 3 {
		t.Errorf("summary = %+v", rep.Summary)
	}

	if rep.Insights == nil {
		t.Fatal("insights = nil")
	}
	if rep.Insights.MostProductiveDepartment != "Engineering.Backend" ||
		rep.Insights.LeastProductiveDepartment != "Sales" ||
		rep.Insights.HighestWorkloadDepartment != "Engineering.Backend" {
		t.Errorf("insights = %+v", rep.Insights)
	}
}

func TestDepartmentalPerformance_Deterministic(t *testing.T) {
	alice := oid(t, "64a000000000000000000001")
	src := &memSource{tasks: []models.Task{
		task("Engineering", models.StatusCompleted, 5, alice),
		task("Sales", models.StatusPending, 3, alice),
	}}
	e := newTestEngine(src, &memDirectory{})

	raw := RawFilter{StartDate: "2025-10-01", EndDate: "2025-10-31", Interval: "week"}
	first, err := e.DepartmentalPerformance(context.Background(), adminCaller(t), raw)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := e.DepartmentalPerformance(context.Background(), adminCaller(t), raw)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestDepartmentalPerformance_HRScopedToSubtree(t *testing.T) {
	alice := oid(t, "64a000000000000000000001")
	src := &memSource{tasks: []models.Task{
		task("Engineering", models.StatusCompleted, 5, alice),
		task("Engineering.Backend", models.StatusPending, 5, alice),
		task("EngineeringTeam", models.StatusCompleted, 5, alice),
		task("Sales", models.StatusCompleted, 5, alice),
	}}
	e := newTestEngine(src, &memDirectory{})

	rep, err := e.DepartmentalPerformance(context.Background(), hrCaller(t, "Engineering"), RawFilter{})
	if err != nil {
		t.Fatalf("DepartmentalPerformance: %v", err)
	}
	if len(rep.Departments) != 2 {
		t.Fatalf("departments = %+v, want Engineering and Engineering.Backend only", rep.Departments)
	}
	if rep.Departments[0].Department != "Engineering" || rep.Departments[1].Department != "Engineering.Backend" {
		t.Errorf("departments = %+v", rep.Departments)
	}
	if got := rep.Filters.Departments; len(got) != 1 || got[0] != "Engineering" {
		t.Errorf("echoed scope = %v, want the caller's home subtree root", got)
	}
}

func TestDepartmentalPerformance_HROutOfSubtreeRejected(t *testing.T) {
	e := newTestEngine(&memSource{}, &memDirectory{})

	raw := RawFilter{Departments: []string{"Engineering.Backend", "Sales"}}
	_, err := e.DepartmentalPerformance(context.Background(), hrCaller(t, "Engineering"), raw)

	var fe *reportpolicy.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *ForbiddenError", err)
	}
	if len(fe.DeniedDepartments) != 1 || fe.DeniedDepartments[0] != "Sales" {
		t.Errorf("denied = %v, want [Sales]", fe.DeniedDepartments)
	}
}

func TestDepartmentalPerformance_EmptyAuthority(t *testing.T) {
	src := &memSource{tasks: []models.Task{
		task("Engineering", models.StatusCompleted, 5, oid(t, "64a000000000000000000001")),
	}}
	e := newTestEngine(src, &memDirectory{})

	// HR user without a home department: structurally valid empty report.
	rep, err := e.DepartmentalPerformance(context.Background(), hrCaller(t, ""), RawFilter{})
	if err != nil {
		t.Fatalf("DepartmentalPerformance: %v", err)
	}
	if src.queries != 0 {
		t.Errorf("store queried %d times for an empty scope, want 0", src.queries)
	}
	if rep.Summary.TotalTasks != 0 || len(rep.Departments) != 0 {
		t.Errorf("report should be empty: %+v", rep)
	}
	if rep.Insights != nil {
		t.Errorf("insights = %+v, want nil for an empty report", rep.Insights)
	}
}

func TestReports_CallerFaults(t *testing.T) {
	e := newTestEngine(&memSource{}, &memDirectory{})
	ctx := context.Background()

	if _, err := e.DepartmentalPerformance(ctx, nil, RawFilter{}); !errors.Is(err, reportpolicy.ErrUnauthenticated) {
		t.Errorf("nil caller: error = %v, want ErrUnauthenticated", err)
	}

	staff := &authz.Caller{ID: oid(t, "64a0000000000000000000cc"), Role: models.RoleStaff}
	var fe *reportpolicy.ForbiddenError
	if _, err := e.DepartmentalPerformance(ctx, staff, RawFilter{}); !errors.As(err, &fe) {
		t.Errorf("staff caller: error = %v, want *ForbiddenError", err)
	}

	manager := &authz.Caller{ID: oid(t, "64a0000000000000000000dd"), Role: models.RoleManager}
	if _, err := e.DepartmentalPerformance(ctx, manager, RawFilter{}); !errors.As(err, &fe) {
		t.Errorf("manager on departmental report: error = %v, want *ForbiddenError", err)
	}

	var ve *ValidationError
	bad := RawFilter{StartDate: "soon"}
	if _, err := e.DepartmentalPerformance(ctx, adminCaller(t), bad); !errors.As(err, &ve) {
		t.Errorf("bad filter: error = %v, want *ValidationError", err)
	}
}

func TestReports_StoreFailure(t *testing.T) {
	src := &memSource{err: errors.New("connection reset")}
	e := newTestEngine(src, &memDirectory{})

	_, err := e.TaskStatus(context.Background(), adminCaller(t), RawFilter{})
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StoreError", err)
	}
	if se.Op != "tasks.query" || !errors.Is(err, src.err) {
		t.Errorf("store error = %+v", se)
	}
}

func TestUserProductivity_ManagerScope(t *testing.T) {
	manager := oid(t, "64a0000000000000000000dd")
	junior := oid(t, "64a000000000000000000001")
	senior := oid(t, "64a000000000000000000002")

	src := &memSource{tasks: []models.Task{
		task("Engineering", models.StatusCompleted, 5, manager),
		task("Engineering", models.StatusCompleted, 5, junior),
		task("Engineering", models.StatusPending, 5, junior),
		task("Engineering", models.StatusCompleted, 5, senior),
	}}
	dir := &memDirectory{ranks: map[primitive.ObjectID]models.OrgRank{
		manager: 5,
		junior:  2,
		senior:  8,
	}}
	e := newTestEngine(src, dir)

	caller := &authz.Caller{ID: manager, Role: models.RoleManager, Division: "Engineering", Rank: 5}
	rep, err := e.UserProductivity(context.Background(), caller, RawFilter{})
	if err != nil {
		t.Fatalf("UserProductivity: %v", err)
	}

	// The manager and the more junior user; the more senior user's tasks
	// are out of scope.
	if len(rep.Users) != 2 {
		t.Fatalf("users = %+v, want 2 rows", rep.Users)
	}
	got := map[string]int{}
	for _, row := range rep.Users {
		got[row.UserID] = row.TotalTasks
	}
	if got[junior.Hex()] != 2 || got[manager.Hex()] != 1 {
		t.Errorf("rows = %v", got)
	}
	if _, ok := got[senior.Hex()]; ok {
		t.Errorf("senior user leaked into manager scope: %v", got)
	}
}

func TestUserProductivity_ManagerCannotFilterDepartments(t *testing.T) {
	e := newTestEngine(&memSource{}, &memDirectory{})
	caller := &authz.Caller{ID: oid(t, "64a0000000000000000000dd"), Role: models.RoleManager, Rank: 5}

	raw := RawFilter{Departments: []string{"Engineering"}}
	_, err := e.UserProductivity(context.Background(), caller, raw)

	var fe *reportpolicy.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *ForbiddenError", err)
	}
}

func TestUserProductivity_DirectoryFailure(t *testing.T) {
	dir := &memDirectory{err: errors.New("no directory")}
	e := newTestEngine(&memSource{}, dir)
	caller := &authz.Caller{ID: oid(t, "64a0000000000000000000dd"), Role: models.RoleManager, Rank: 5}

	_, err := e.UserProductivity(context.Background(), caller, RawFilter{})
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StoreError", err)
	}
	if se.Op != "directory.division_ranks" {
		t.Errorf("op = %q", se.Op)
	}
}

func TestProjectReport_GroupsByProject(t *testing.T) {
	alice := oid(t, "64a000000000000000000001")
	projA := oid(t, "64a000000000000000000010")
	projB := oid(t, "64a000000000000000000011")

	t1 := task("Engineering", models.StatusCompleted, 5, alice)
	t1.ProjectID = projA
	t2 := task("Engineering", models.StatusPending, 5, alice)
	t2.ProjectID = projA
	t3 := task("Sales", models.StatusCompleted, 5, alice)
	t3.ProjectID = projB

	e := newTestEngine(&memSource{tasks: []models.Task{t1, t2, t3}}, &memDirectory{})
	rep, err := e.Project(context.Background(), adminCaller(t), RawFilter{})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(rep.Projects) != 2 {
		t.Fatalf("projects = %+v", rep.Projects)
	}
	if rep.Projects[0].ProjectID != projA.Hex() || rep.Projects[0].CompletionRate != 50 {
		t.Errorf("project A = %+v", rep.Projects[0])
	}
	if rep.Projects[1].ProjectID != projB.Hex() || rep.Projects[1].CompletionRate != 100 {
		t.Errorf("project B = %+v", rep.Projects[1])
	}
}

func TestTaskStatus_FilterEcho(t *testing.T) {
	alice := oid(t, "64a000000000000000000001")
	src := &memSource{tasks: []models.Task{
		task("Engineering", models.StatusCompleted, 8, alice),
		task("Engineering", models.StatusPending, 2, alice),
	}}
	e := newTestEngine(src, &memDirectory{})

	raw := RawFilter{Statuses: []string{"completed"}, Priorities: []int{7, 8, 9, 10}}
	rep, err := e.TaskStatus(context.Background(), hrCaller(t, "Engineering"), raw)
	if err != nil {
		t.Fatalf("TaskStatus: %v", err)
	}
	if rep.TotalTasks != 1 {
		t.Errorf("total = %d, want the single completed high-priority task", rep.TotalTasks)
	}
	if len(rep.Filters.Statuses) != 1 || rep.Filters.Statuses[0] != "completed" {
		t.Errorf("echoed statuses = %v", rep.Filters.Statuses)
	}
	if len(rep.Filters.Departments) != 1 || rep.Filters.Departments[0] != "Engineering" {
		t.Errorf("echoed departments = %v", rep.Filters.Departments)
	}
}
