// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /tasks: every task the caller may see, most
// recently active first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	scope, err := h.scopeFor(ctx, c)
	if err != nil {
		h.Log.Error("tasks: scope resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load tasks")
		return
	}

	list, err := h.Tasks.ListForScope(ctx, scope)
	if err != nil {
		h.Log.Error("tasks: list failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load tasks")
		return
	}
	if list == nil {
		list = []models.Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// ServeGet handles GET /tasks/{taskID}. Out-of-scope tasks answer 404
// rather than 403 so the response does not confirm the task exists.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(r, w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("tasks: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load task")
		return
	}

	scope, err := h.scopeFor(ctx, c)
	if err != nil {
		h.Log.Error("tasks: scope resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not load task")
		return
	}
	if !scope.CanSee(*t) {
		auth.WriteError(w, http.StatusNotFound, "task not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}
