// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/policy/taskpolicy"
	commentstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/comments"
	projectstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/projects"
	taskstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/tasks"
	userstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/users"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the task board endpoints.
type Handler struct {
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Projects *projectstore.Store
	Comments *commentstore.Store
	Log      *zap.Logger
}

func NewHandler(tasks *taskstore.Store, users *userstore.Store, projects *projectstore.Store, comments *commentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:    tasks,
		Users:    users,
		Projects: projects,
		Comments: comments,
		Log:      logger,
	}
}

// scopeFor resolves the caller's task visibility, loading the division
// rank rows (managers) or project memberships (staff) it depends on.
func (h *Handler) scopeFor(ctx context.Context, c authz.Caller) (taskpolicy.TaskScope, error) {
	var (
		ranks    map[primitive.ObjectID]models.OrgRank
		projects []primitive.ObjectID
		err      error
	)
	switch c.Role {
	case models.RoleManager:
		ranks, err = h.Users.DivisionRanks(ctx, c.Division)
	case models.RoleStaff:
		projects, err = h.Projects.MemberProjects(ctx, c.ID)
	}
	if err != nil {
		return taskpolicy.TaskScope{}, err
	}
	return taskpolicy.ForCaller(c, ranks, projects), nil
}

// resolveDepartment returns the home department of the first assignee,
// or empty when there are no assignees. Tasks inherit this value so
// department reports see them without joining users at read time.
func (h *Handler) resolveDepartment(ctx context.Context, assignees []primitive.ObjectID) (string, error) {
	if len(assignees) == 0 {
		return "", nil
	}
	u, err := h.Users.GetByID(ctx, assignees[0])
	if err != nil {
		return "", err
	}
	return u.Department, nil
}

// caller pulls the request principal, answering the JSON 401 itself
// when nobody is signed in.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (authz.Caller, bool) {
	c, ok := authz.CallerCtx(r)
	if !ok {
		auth.WriteError(w, http.StatusUnauthorized, "authentication required")
		return authz.Caller{}, false
	}
	return c, true
}

func parseIDParam(r *http.Request, w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid id")
		return primitive.ObjectID{}, false
	}
	return id, true
}

func parseDeadline(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
