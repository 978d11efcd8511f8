// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/auth"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/htmlsanitize"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/system/timeouts"
	"github.com/fcyap/IS212-G3T5-sub004/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	AssignedTo  []string `json:"assigned_to"`
	ProjectID   string   `json:"project_id"`
	Deadline    string   `json:"deadline"` // RFC 3339
}

// ServeCreate handles POST /tasks. The task's department is resolved
// from the first assignee's home department at write time.
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
	if req.Title == "" {
		auth.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Priority < models.PriorityMin || req.Priority > models.PriorityMax {
		auth.WriteError(w, http.StatusBadRequest, "priority must be between 1 and 10")
		return
	}

	assignees, err := parseObjectIDs(req.AssignedTo)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, "invalid assignee id")
		return
	}

	var projectID primitive.ObjectID
	if req.ProjectID != "" {
		projectID, err = primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid project id")
			return
		}
	}

	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		auth.WriteError(w, http.StatusBadRequest, "deadline must be an RFC 3339 timestamp")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	department, err := h.resolveDepartment(ctx, assignees)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			auth.WriteError(w, http.StatusBadRequest, "assignee not found")
			return
		}
		h.Log.Error("tasks: department resolution failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not create task")
		return
	}

	created, err := h.Tasks.Create(ctx, models.Task{
		Title:       req.Title,
		Description: htmlsanitize.Sanitize(req.Description),
		Priority:    req.Priority,
		AssignedTo:  assignees,
		ProjectID:   projectID,
		Department:  department,
		Deadline:    deadline,
		CreatedBy:   c.ID,
	})
	if err != nil {
		h.Log.Error("tasks: create failed", zap.Error(err))
		auth.WriteError(w, http.StatusInternalServerError, "could not create task")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for _, hx := range hexes {
		id, err := primitive.ObjectIDFromHex(hx)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
