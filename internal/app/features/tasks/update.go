// internal/app/features/tasks/update.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	taskstore "github.com/fcyap/IS212-G3T5-sub004/internal/app/store/tasks"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/htmlsanitize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *int     `json:"priority"`
	AssignedTo  []string `json:"assigned_to"`
	Deadline    *string  `json:"deadline"` // RFC 3339
}

// ServeUpdate handles PATCH /tasks/{taskID}. Reassignment re-resolves
// the task's department from the new first assignee.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(r, w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("tasks: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update task")
		return
	}

	scope, err := h.scopeFor(ctx, c)
	if err != nil {
		h.Log.Error("tasks: scope resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update task")
		return
	}
	if !scope.CanSee(*current) {
		auth.WriteError(w, http.StatusNotFound, "task not found")
		return
	}

	upd := taskstore.Update{
		Title: req.Title,
	}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &clean
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		if !models.ValidTaskStatus(st) {
			auth.WriteError(w, http.StatusBadRequest, "unknown task status")
			return
		}
		upd.Status = &st
	}
	if req.Priority != nil {
		if *req.Priority < models.PriorityMin || *req.Priority > models.PriorityMax {
			auth.WriteError(w, http.StatusBadRequest, "priority must be between 1 and 10")
			return
		}
		upd.Priority = req.Priority
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			auth.WriteError(w, http.StatusBadRequest, "deadline must be an RFC 3339 timestamp")
			return
		}
		upd.Deadline = deadline
	}
	if req.AssignedTo != nil {
		assignees, err := parseObjectIDs(req.AssignedTo)
		if err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid assignee id")
			return
		}
		department, err := h.resolveDepartment(ctx, assignees)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				auth.WriteError(w, http.StatusBadRequest, "assignee not found")
				return
			}
			h.Log.Error("tasks: department resolution failed", zap.Error(err))
			auth.WriteError(w, http.StatusInternalServerError, "could not update task")
			return
		}
		upd.AssignedTo = assignees
		upd.Department = &department
	}

	if err := h.Tasks.Apply(ctx, id, upd); err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("tasks: update failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update task")
		return
	}

	updated, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("tasks: reload failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not update task")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

// ServeDelete handles DELETE /tasks/{taskID}; comments go with the task.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
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

	current, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusNotFound, "task not found")
			return
		}
		h.Log.Error("tasks: get failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not delete task")
		return
	}

	scope, err := h.scopeFor(ctx, c)
	if err != nil {
		h.Log.Error("tasks: scope resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not delete task")
		return
	}
	if !scope.CanSee(*current) {
		auth.WriteError(w, http.StatusNotFound, "task not found")
		return
	}

	if _, err := h.Tasks.Delete(ctx, id); err != nil {
		h.Log.Error("tasks: delete failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not delete task")
		return
	}
	if _, err := h.Comments.DeleteByTask(ctx, id); err != nil {
		h.Log.Warn("tasks: orphaned comments not removed", zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)
}
