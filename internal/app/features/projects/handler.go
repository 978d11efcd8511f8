// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"net/http"

	projectstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/projects"
	taskstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/tasks"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/htmlsanitize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/paging"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the project endpoints.
type Handler struct {
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Log      *zap.Logger
}

func NewHandler(projects *projectstore.Store, tasks *taskstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Projects: projects, Tasks: tasks, Log: logger}
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (authz.Caller, bool) {
	c, ok := authz.CallerCtx(r)
	if !ok {
		auth.WriteError(w, http.StatusUnauthorized, "authentication required")
		return authz.Caller{}, false
	}
	return c, true
}

// canManage reports whether the caller may edit a project: admins and
// project members.
func canManage(c authz.Caller, p *models.Project) bool {
	if c.Role == models.RoleAdmin {
		return true
	}
	for _, id := range p.MemberIDs {
		if id == c.ID {
			return true
		}
	}
	return false
}

type listResponse struct {
	Projects   []models.Project `json:"projects"`
	HasPrev    bool             `json:"has_prev"`
	HasNext    bool             `json:"has_next"`
	PrevCursor string           `json:"prev_cursor,omitempty"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ServeList handles GET /projects with keyset pagination via the
// "before" and "after" cursor query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Projects.List(ctx, paging.ParseBefore(r), paging.ParseAfter(r))
	if err != nil {
		h.Log.Error("projects: list failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load projects")
		return
	}
	if page.Projects == nil {
		page.Projects = []models.Project{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		Projects:   page.Projects,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: page.PrevCursor,
		NextCursor: page.NextCursor,
	})
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServeCreate handles POST /projects. The creator becomes a member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		auth.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Projects.Create(ctx, models.Project{
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
		CreatedBy:   c.ID,
	})
	if err != nil {
		h.Log.Error("projects: create failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not create project")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// ServeGet handles GET /projects/{projectID}, with the project's tasks
// included for the board view.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "project not found")
			return
		}
		h.Log.Error("projects: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load project")
		return
	}

	board, err := h.Tasks.ListByProject(ctx, id)
	if err != nil {
		h.Log.Error("projects: board load failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load project")
		return
	}
	if board == nil {
		board = []models.Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Project *models.Project `json:"project"`
		Tasks   []models.Task   `json:"tasks"`
	}{p, board})
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// ServeUpdate handles PATCH /projects/{projectID}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "project not found")
			return
		}
		h.Log.Error("projects: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update project")
		return
	}
	if !canManage(c, p) {
		auth.WriteError(w, http.StatusForbidden, "only project members may edit this project")
		return
	}

	upd := projectstore.ProjectUpdate{Name: req.Name, Status: req.Status}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &clean
	}
	if err := h.Projects.Apply(ctx, id, upd); err != nil {
		h.Log.Error("projects: update failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update project")
		return
	}

	updated, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("projects: reload failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update project")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// ServeAddMember handles POST /projects/{projectID}/members.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	h.editMember(w, r, h.Projects.AddMember)
}

// ServeRemoveMember handles DELETE /projects/{projectID}/members.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	h.editMember(w, r, h.Projects.RemoveMember)
}

func (h *Handler) editMember(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, primitive.ObjectID) error) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "project not found")
			return
		}
		h.Log.Error("projects: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update membership")
		return
	}
	if !canManage(c, p) {
		auth.WriteError(w, http.StatusForbidden, "only project members may edit this project")
		return
	}

	if err := op(ctx, id, userID); err != nil {
		h.Log.Error("projects: membership update failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update membership")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
