// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/reportpolicy"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/reportgen"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the report endpoints. All four share the decode →
// generate → encode shape; only the engine method differs.
type Handler struct {
	Engine *reportgen.Engine
	Log    *zap.Logger
}

// NewHandler constructs a reports Handler around the given engine.
func NewHandler(engine *reportgen.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

// ServeDepartments handles POST /reports/departments.
func (h *Handler) ServeDepartments(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.Engine.DepartmentalPerformance)
}

// ServeTasks handles POST /reports/tasks.
func (h *Handler) ServeTasks(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.Engine.TaskStatus)
}

// ServeUsers handles POST /reports/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.Engine.UserProductivity)
}

// ServeProjects handles POST /reports/projects.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.Engine.Project)
}

func serve[T any](h *Handler, w http.ResponseWriter, r *http.Request, generate func(context.Context, *authz.Caller, reportgen.RawFilter) (*T, error)) {
	var raw reportgen.RawFilter
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var caller *authz.Caller
	if c, ok := authz.CallerCtx(r); ok {
		caller = &c
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	report, err := generate(ctx, caller, raw)
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// errorResponse is the JSON error body for report endpoints. The field
// and denied department details let the SPA highlight the offending
// filter control.
type errorResponse struct {
	Error             string   `json:"error"`
	Field             string   `json:"field,omitempty"`
	DeniedDepartments []string `json:"denied_departments,omitempty"`
}

// writeReportError maps the engine's error taxonomy onto HTTP statuses.
// Caller faults (400/401/403) are expected outcomes and are not logged
// as errors; store failures are, with a generic body.
func (h *Handler) writeReportError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var ve *reportgen.ValidationError
	if errors.As(err, &ve) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: ve.Message, Field: ve.Field})
		return
	}
	if errors.Is(err, reportpolicy.ErrUnauthenticated) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "authentication required"})
		return
	}
	var fe *reportpolicy.ForbiddenError
	if errors.As(err, &fe) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: fe.Reason, DeniedDepartments: fe.DeniedDepartments})
		return
	}

	h.Log.Error("report generation failed", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "report generation failed"})
}
