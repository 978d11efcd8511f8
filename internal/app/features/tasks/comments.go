// internal/app/features/tasks/comments.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/authz"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/htmlsanitize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type commentRequest struct {
	Body string `json:"body"`
}

// ServeComments handles GET /tasks/{taskID}/comments.
func (h *Handler) ServeComments(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(r, w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.canSeeTask(ctx, w, c, id) {
		return
	}

	list, err := h.Comments.ListByTask(ctx, id)
	if err != nil {
		h.Log.Error("tasks: comment list failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load comments")
		return
	}
	if list == nil {
		list = []models.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// ServeAddComment handles POST /tasks/{taskID}/comments. A new comment
// counts as task activity and advances last_activity_at.
func (h *Handler) ServeAddComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(r, w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body := htmlsanitize.Sanitize(req.Body)
	if body == "" {
		auth.WriteError(w, http.StatusBadRequest, "comment body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.canSeeTask(ctx, w, c, id) {
		return
	}

	created, err := h.Comments.Create(ctx, models.Comment{
		TaskID:   id,
		AuthorID: c.ID,
		Body:     body,
	})
	if err != nil {
		h.Log.Error("tasks: comment create failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not add comment")
		return
	}
	if err := h.Tasks.Touch(ctx, id); err != nil {
		h.Log.Warn("tasks: activity bump failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// canSeeTask loads the task and checks the caller's scope, writing the
// error response itself on failure.
func (h *Handler) canSeeTask(ctx context.Context, w http.ResponseWriter, c authz.Caller, id primitive.ObjectID) bool {
	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "task not found")
			return false
		}
		h.Log.Error("tasks: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load task")
		return false
	}
	scope, err := h.scopeFor(ctx, c)
	if err != nil {
		h.Log.Error("tasks: scope resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load task")
		return false
	}
	if !scope.CanSee(*t) {
		auth.WriteError(w, http.StatusNotFound, "task not found")
		return false
	}
	return true
}
