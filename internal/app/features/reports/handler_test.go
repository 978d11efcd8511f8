// internal/app/features/reports/handler_test.go
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/reportgen"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/fcyap/IS212-G3T5-sub004/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubSource struct {
	tasks []models.Task
	err   error
}

func (s *stubSource) QueryTasks(_ context.Context, q reportgen.TaskQuery) ([]models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Task
	for _, t := range s.tasks {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubDirectory struct{}

func (stubDirectory) DivisionRanks(context.Context, string) (map[primitive.ObjectID]models.OrgRank, error) {
	return nil, nil
}

func newTestHandler(src *stubSource) *Handler {
	engine := reportgen.New(src, stubDirectory{}, zap.NewNop())
	return NewHandler(engine, zap.NewNop())
}

func sampleTasks() []models.Task {
	alice := primitive.NewObjectID()
	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)
	mk := func(dept string, st models.TaskStatus) models.Task {
		return models.Task{
			Department: dept,
			Status:     st,
			Priority:   5,
			AssignedTo: []primitive.ObjectID{alice},
			CreatedAt:  now,
		}
	}
	return []models.Task{
		mk("Engineering", models.StatusCompleted),
		mk("Engineering", models.StatusPending),
		mk("Sales", models.StatusCompleted),
	}
}

func TestServeDepartments_Admin(t *testing.T) {
	h := newTestHandler(&stubSource{tasks: sampleTasks()})

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/reports/departments", "{}", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeDepartments(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertJSON(t)

	var rep reportgen.DepartmentReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.ReportType != reportgen.TypeDepartmental {
		t.Errorf("report type = %q", rep.ReportType)
	}
	if len(rep.Departments) != 2 || rep.Summary.TotalTasks != 3 {
		t.Errorf("report = %+v", rep)
	}
}

func TestServeDepartments_RequiresAuth(t *testing.T) {
	h := newTestHandler(&stubSource{})

	req := testutil.NewJSONRequest(http.MethodPost, "/reports/departments", "{}")
	rec := testutil.NewRecorder()
	h.ServeDepartments(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeDepartments_StaffForbidden(t *testing.T) {
	h := newTestHandler(&stubSource{})

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/reports/departments", "{}", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.ServeDepartments(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeDepartments_HRDeniedPathsNamed(t *testing.T) {
	h := newTestHandler(&stubSource{tasks: sampleTasks()})

	body := `{"departments":["Engineering","Sales"]}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/reports/departments", body, testutil.HRUser("Engineering"))
	rec := testutil.NewRecorder()
	h.ServeDepartments(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusForbidden)

	var resp struct {
		DeniedDepartments []string `json:"denied_departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.DeniedDepartments) != 1 || resp.DeniedDepartments[0] != "Sales" {
		t.Errorf("denied = %v, want [Sales]", resp.DeniedDepartments)
	}
}

func TestServeDepartments_BadFilter(t *testing.T) {
	h := newTestHandler(&stubSource{})

	body := `{"interval":"daily","start_date":"2025-10-01","end_date":"2025-10-31"}`
	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/reports/departments", body, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeDepartments(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)

	var resp struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Field != "interval" {
		t.Errorf("field = %q, want interval", resp.Field)
	}
}

func TestServeTasks_StoreFailure(t *testing.T) {
	h := newTestHandler(&stubSource{err: errors.New("connection reset")})

	req := testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/reports/tasks", "{}", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeTasks(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusInternalServerError)
	// The body must not leak the underlying store error.
	rec.AssertContains(t, "report generation failed")
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Errorf("store error leaked into response: %s", rec.Body.String())
	}
}

func TestServeUsers_EmptyBody(t *testing.T) {
	h := newTestHandler(&stubSource{tasks: sampleTasks()})

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/reports/users", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeUsers(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var rep reportgen.UserProductivityReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rep.Users) != 1 {
		t.Errorf("users = %+v", rep.Users)
	}
}
